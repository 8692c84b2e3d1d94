package consumers

import (
	"context"
	"strings"

	"github.com/lvaman/genealogy/common/api"
	"github.com/lvaman/genealogy/common/log"
	"github.com/lvaman/genealogy/common/messaging"
	"github.com/lvaman/genealogy/tree"

	"github.com/pkg/errors"
)

const (
	personEventPrefix = "person."
)

// IntegrityHandler re-checks the derived chart after every roster change
// and reports inconsistencies the edit introduced, dangling references
// after a delete being the usual case.
type IntegrityHandler struct {
	Logger    *log.Logger `inject:""`
	ApiClient api.Client  `inject:""`
}

func (h *IntegrityHandler) CanHandle(event messaging.ChangeEvent) bool {
	return strings.HasPrefix(event.Kind, personEventPrefix)
}

func (h *IntegrityHandler) Name() string {
	return "chartIntegrity"
}

func (h *IntegrityHandler) Handle(ctx context.Context, event messaging.ChangeEvent) error {
	if event.PersonId == "" {
		return errors.New("personId is mandatory")
	}

	if event.Kind == messaging.EventPersonRenamed {
		if _, err := h.ApiClient.GetPerson(ctx, event.PersonId); err != nil {
			return errors.Wrapf(err, "renamed person %s is not reachable", event.PersonId)
		}
	}

	nodes, err := h.ApiClient.GetChart(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to fetch chart")
	}

	violations := tree.ValidateGraph(nodes)
	if len(violations) > 0 {
		for _, violation := range violations {
			h.Logger.Warn(ctx, "chart inconsistency after roster change",
				"kind", event.Kind, "personId", event.PersonId, "field", violation.Field, "reason", violation.Reason)
		}
	} else {
		h.Logger.Info(ctx, "chart consistent after roster change",
			"kind", event.Kind, "personId", event.PersonId, "nodes", len(nodes))
	}
	return nil
}
