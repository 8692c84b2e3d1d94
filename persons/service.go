package persons

import (
	"context"
	"fmt"

	"github.com/lvaman/genealogy/common/firebase/claims"
	"github.com/lvaman/genealogy/common/log"
	"github.com/lvaman/genealogy/common/messaging"
	"github.com/lvaman/genealogy/common/store"
	"github.com/lvaman/genealogy/tree"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

var (
	ErrEmptyPersonId = errors.New("personId cannot be empty")
)

// ValidationError blocks a write. It carries the full list of findings so
// the editing UI can mark every offending field at once.
type ValidationError struct {
	Violations []tree.Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("person record failed validation with %d violation(s)", len(e.Violations))
}

type Service interface {
	AddPerson(ctx context.Context, request tree.Person) (tree.Person, error)
	GetPerson(ctx context.Context, personId string) (tree.Person, error)
	ListPersons(ctx context.Context) ([]tree.Person, error)
	UpdatePerson(ctx context.Context, personId string, request tree.Person) (tree.Person, error)
	DeletePerson(ctx context.Context, personId string) error
}

type PersonService struct {
	Store interface {
		Tx() *gorm.DB
		AddPerson(tx *gorm.DB, person store.Person) (store.Person, error)
		GetPerson(tx *gorm.DB, personId string) (store.Person, error)
		ListPersons(tx *gorm.DB) ([]store.Person, error)
		UpdatePerson(tx *gorm.DB, person store.Person) error
		RenamePersonId(tx *gorm.DB, oldId, newId string) error
		DeletePerson(tx *gorm.DB, personId string) error
	} `inject:""`
	StringGenerator interface {
		GenerateRandomName() string
		GenerateUuid() string
	} `inject:""`
	Publisher interface {
		Publish(ctx context.Context, message messaging.Message) error
	} `inject:"changePublisher"`
	Logger *log.Logger `inject:""`
}

func (c *PersonService) AddPerson(ctx context.Context, request tree.Person) (tree.Person, error) {
	roster, err := c.fetchRoster()
	if err != nil {
		return tree.Person{}, errors.Wrap(err, "failed to add person")
	}

	existingIds := rosterIds(roster)
	request.Id = c.assignId(request, existingIds)
	c.assignUnionIds(&request)

	if violations := tree.Validate(request, append(roster, request)); len(violations) > 0 {
		return tree.Person{}, &ValidationError{Violations: violations}
	}

	row, err := store.FromTreePerson(request)
	if err != nil {
		return tree.Person{}, errors.Wrap(err, "failed to encode person")
	}

	tx := c.Store.Tx()
	if tx.Error != nil {
		return tree.Person{}, errors.Wrap(tx.Error, "failed to add person")
	}
	if _, err := c.Store.AddPerson(tx, row); err != nil {
		tx.Rollback()
		return tree.Person{}, errors.Wrap(err, "failed to add person")
	}
	tx.Commit()

	c.publishChange(ctx, messaging.ChangeEvent{
		Kind:     messaging.EventPersonCreated,
		PersonId: request.Id,
		Actor:    claims.GetUserId(ctx),
	})
	return request, nil
}

func (c *PersonService) GetPerson(ctx context.Context, personId string) (tree.Person, error) {
	if personId == "" {
		return tree.Person{}, ErrEmptyPersonId
	}

	row, err := c.Store.GetPerson(nil, personId)
	if err != nil {
		return tree.Person{}, errors.Wrap(err, "failed to get person")
	}
	person, err := store.ToTreePerson(row)
	if err != nil {
		return tree.Person{}, errors.Wrap(err, "failed to get person")
	}
	return person, nil
}

func (c *PersonService) ListPersons(ctx context.Context) ([]tree.Person, error) {
	roster, err := c.fetchRoster()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list persons")
	}
	return roster, nil
}

func (c *PersonService) UpdatePerson(ctx context.Context, personId string, request tree.Person) (tree.Person, error) {
	if personId == "" {
		return tree.Person{}, ErrEmptyPersonId
	}
	if request.Id == "" {
		request.Id = personId
	}

	roster, err := c.fetchRoster()
	if err != nil {
		return tree.Person{}, errors.Wrap(err, "failed to update person")
	}
	if !containsId(roster, personId) {
		return tree.Person{}, errors.Wrap(store.ErrPersonNotFound, "failed to update person")
	}

	c.assignUnionIds(&request)

	// validate against the roster as it would read after the save
	snapshot := make([]tree.Person, 0, len(roster))
	for _, member := range roster {
		if member.Id == personId {
			continue
		}
		snapshot = append(snapshot, member)
	}
	if violations := tree.Validate(request, append(snapshot, request)); len(violations) > 0 {
		return tree.Person{}, &ValidationError{Violations: violations}
	}

	row, err := store.FromTreePerson(request)
	if err != nil {
		return tree.Person{}, errors.Wrap(err, "failed to encode person")
	}

	tx := c.Store.Tx()
	if tx.Error != nil {
		return tree.Person{}, errors.Wrap(tx.Error, "failed to update person")
	}

	renamed := request.Id != personId
	if renamed {
		if err := c.Store.RenamePersonId(tx, personId, request.Id); err != nil {
			tx.Rollback()
			return tree.Person{}, errors.Wrap(err, "failed to rename person")
		}
		if err := c.rewriteRosterReferences(tx, roster, personId, request.Id); err != nil {
			tx.Rollback()
			return tree.Person{}, errors.Wrap(err, "failed to rename person")
		}
	}
	if err := c.Store.UpdatePerson(tx, row); err != nil {
		tx.Rollback()
		return tree.Person{}, errors.Wrap(err, "failed to update person")
	}
	tx.Commit()

	event := messaging.ChangeEvent{
		Kind:     messaging.EventPersonUpdated,
		PersonId: request.Id,
		Actor:    claims.GetUserId(ctx),
	}
	if renamed {
		event.Kind = messaging.EventPersonRenamed
		event.PreviousId = personId
	}
	c.publishChange(ctx, event)

	return request, nil
}

func (c *PersonService) DeletePerson(ctx context.Context, personId string) error {
	if personId == "" {
		return ErrEmptyPersonId
	}

	if err := c.Store.DeletePerson(nil, personId); err != nil {
		return errors.Wrap(err, "failed to delete person")
	}

	c.publishChange(ctx, messaging.ChangeEvent{
		Kind:     messaging.EventPersonDeleted,
		PersonId: personId,
		Actor:    claims.GetUserId(ctx),
	})
	return nil
}

func (c *PersonService) fetchRoster() ([]tree.Person, error) {
	rows, err := c.Store.ListPersons(nil)
	if err != nil {
		return nil, err
	}
	return store.ToTreeRoster(rows)
}

// assignId derives the identifier from the current name variant. Records
// without a usable name get a random placeholder instead of being refused,
// incomplete historical entries are common.
func (c *PersonService) assignId(request tree.Person, existingIds []string) string {
	name, ok := request.CurrentName()
	if !ok && len(request.Names) > 0 {
		name = request.Names[0]
	}

	if id := tree.GenerateId(name, existingIds); id != "" {
		return id
	}
	return tree.UniqueId(c.StringGenerator.GenerateRandomName(), existingIds)
}

func (c *PersonService) assignUnionIds(person *tree.Person) {
	for i := range person.Unions {
		if person.Unions[i].Id == "" {
			person.Unions[i].Id = c.StringGenerator.GenerateUuid()
		}
	}
}

// rewriteRosterReferences persists the reference fix-ups a rename implies,
// only touching records that actually held the old id.
func (c *PersonService) rewriteRosterReferences(tx *gorm.DB, roster []tree.Person, oldId, newId string) error {
	rewritten := tree.RewriteReferences(roster, oldId, newId)

	for i := range roster {
		if roster[i].Id == oldId || !holdsReference(roster[i], oldId) {
			continue
		}
		row, err := store.FromTreePerson(rewritten[i])
		if err != nil {
			return err
		}
		if err := c.Store.UpdatePerson(tx, row); err != nil {
			return err
		}
	}
	return nil
}

func holdsReference(person tree.Person, id string) bool {
	if person.FatherId == id || person.MotherId == id {
		return true
	}
	for _, union := range person.Unions {
		if union.SpouseId == id {
			return true
		}
	}
	return false
}

func (c *PersonService) publishChange(ctx context.Context, event messaging.ChangeEvent) {
	if err := c.Publisher.Publish(ctx, messaging.NewChangeMessage(event)); err != nil {
		c.Logger.Warn(ctx, "failed to publish change event", "kind", event.Kind, "personId", event.PersonId, "err", err.Error())
	}
}

func rosterIds(roster []tree.Person) []string {
	ids := make([]string, 0, len(roster))
	for _, person := range roster {
		ids = append(ids, person.Id)
	}
	return ids
}

func containsId(roster []tree.Person, id string) bool {
	for _, person := range roster {
		if person.Id == id {
			return true
		}
	}
	return false
}

// ServiceMiddleware is a chainable behavior modifier for PersonService.
type ServiceMiddleware func(PersonService) PersonService
