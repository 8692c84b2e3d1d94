package chart

import (
	"context"

	"github.com/lvaman/genealogy/common/log"
	"github.com/lvaman/genealogy/common/store"
	"github.com/lvaman/genealogy/tree"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

type Service interface {
	GetChart(ctx context.Context) ([]tree.Node, error)
}

// ChartService serves the read path of the viewer. Integrity findings on
// stored records are logged, never fatal: the chart renders whatever the
// roster holds and the second-pass graph check reports what the renderer
// needs to tolerate.
type ChartService struct {
	Store interface {
		ListPersons(tx *gorm.DB) ([]store.Person, error)
	} `inject:""`
	Logger *log.Logger `inject:""`
}

func (c *ChartService) GetChart(ctx context.Context) ([]tree.Node, error) {
	rows, err := c.Store.ListPersons(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build chart")
	}
	roster, err := store.ToTreeRoster(rows)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build chart")
	}

	for _, person := range roster {
		for _, violation := range tree.Validate(person, roster) {
			c.Logger.Warn(ctx, "stored record fails validation", "personId", person.Id, "field", violation.Field, "reason", violation.Reason)
		}
	}

	nodes := tree.Adapt(roster)

	for _, violation := range tree.ValidateGraph(nodes) {
		c.Logger.Warn(ctx, "chart graph is inconsistent", "field", violation.Field, "reason", violation.Reason)
	}

	return nodes, nil
}
