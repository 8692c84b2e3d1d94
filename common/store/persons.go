package store

import (
	"database/sql"
	"encoding/json"

	"github.com/lvaman/genealogy/tree"

	"github.com/jinzhu/gorm"
	"github.com/jinzhu/gorm/dialects/postgres"
	"github.com/pkg/errors"
)

var (
	ErrPersonNotFound = errors.New("person not found")
)

// Person is the stored shape of one roster record. The nested name, event
// and union sequences live in jsonb payload columns and are decoded into
// the tree schema at the store boundary, never trusted field-by-field.
type Person struct {
	PersonId     sql.NullString
	DisplayName  sql.NullString
	Gender       sql.NullString
	VitalStatus  sql.NullString
	FatherId     sql.NullString
	MotherId     sql.NullString
	SiblingOrder sql.NullInt64
	Biography    sql.NullString
	Names        postgres.Jsonb
	Events       postgres.Jsonb
	Unions       postgres.Jsonb
	Birth        postgres.Jsonb
	Death        postgres.Jsonb
}

func (Person) TableName() string {
	return "persons"
}

func (s *Store) AddPerson(tx *gorm.DB, person Person) (Person, error) {
	db := s.dbOrTx(tx)

	if s.personExists(db, person.PersonId.String) {
		return Person{}, errors.Errorf("person %s already exists", person.PersonId.String)
	}
	if err := db.Create(&person).Error; err != nil {
		return Person{}, err
	}
	return person, nil
}

func (s *Store) GetPerson(tx *gorm.DB, personId string) (Person, error) {
	db := s.dbOrTx(tx)

	person := Person{}
	res := db.Where("person_id = ?", personId).First(&person)
	if res.RecordNotFound() {
		return Person{}, ErrPersonNotFound
	}
	if res.Error != nil {
		return Person{}, res.Error
	}
	return person, nil
}

// ListPersons returns the full roster in one batch, ordered by identifier
// so repeated fetches of an unchanged table yield the same sequence.
func (s *Store) ListPersons(tx *gorm.DB) ([]Person, error) {
	db := s.dbOrTx(tx)

	persons := []Person{}
	if err := db.Order("person_id").Find(&persons).Error; err != nil {
		return nil, err
	}
	return persons, nil
}

func (s *Store) UpdatePerson(tx *gorm.DB, person Person) error {
	db := s.dbOrTx(tx)

	if !s.personExists(db, person.PersonId.String) {
		return ErrPersonNotFound
	}

	// map form so cleared columns really are written back as NULL
	updates := map[string]interface{}{
		"display_name":  person.DisplayName,
		"gender":        person.Gender,
		"vital_status":  person.VitalStatus,
		"father_id":     person.FatherId,
		"mother_id":     person.MotherId,
		"sibling_order": person.SiblingOrder,
		"biography":     person.Biography,
		"names":         person.Names,
		"events":        person.Events,
		"unions":        person.Unions,
		"birth":         person.Birth,
		"death":         person.Death,
	}
	return db.Table("persons").Where("person_id = ?", person.PersonId.String).Updates(updates).Error
}

// RenamePersonId moves a record to a new identifier. Fixing up references
// held by other records is the caller's job, see tree.RewriteReferences.
func (s *Store) RenamePersonId(tx *gorm.DB, oldId, newId string) error {
	db := s.dbOrTx(tx)

	if !s.personExists(db, oldId) {
		return ErrPersonNotFound
	}
	return db.Table("persons").Where("person_id = ?", oldId).Updates(map[string]interface{}{"person_id": newId}).Error
}

func (s *Store) DeletePerson(tx *gorm.DB, personId string) error {
	db := s.dbOrTx(tx)

	if !s.personExists(db, personId) {
		return ErrPersonNotFound
	}
	return db.Where("person_id = ?", personId).Delete(&Person{}).Error
}

func (s *Store) personExists(tx *gorm.DB, personId string) bool {
	p := Person{}
	return !tx.Model(Person{}).Where("person_id = ?", personId).First(&p).RecordNotFound()
}

// ToTreePerson decodes a stored row into the validated tree schema. A
// payload column that fails to decode is a typed failure, not a partially
// filled record.
func ToTreePerson(row Person) (tree.Person, error) {
	person := tree.Person{
		Id:           row.PersonId.String,
		DisplayName:  row.DisplayName.String,
		Gender:       row.Gender.String,
		VitalStatus:  row.VitalStatus.String,
		FatherId:     row.FatherId.String,
		MotherId:     row.MotherId.String,
		SiblingOrder: int(row.SiblingOrder.Int64),
		Biography:    row.Biography.String,
	}

	if err := decodePayload(row.Names, &person.Names); err != nil {
		return tree.Person{}, errors.Wrapf(err, "person %s: malformed names payload", person.Id)
	}
	if err := decodePayload(row.Events, &person.Events); err != nil {
		return tree.Person{}, errors.Wrapf(err, "person %s: malformed events payload", person.Id)
	}
	if err := decodePayload(row.Unions, &person.Unions); err != nil {
		return tree.Person{}, errors.Wrapf(err, "person %s: malformed unions payload", person.Id)
	}
	if err := decodePayload(row.Birth, &person.Birth); err != nil {
		return tree.Person{}, errors.Wrapf(err, "person %s: malformed birth payload", person.Id)
	}
	if err := decodePayload(row.Death, &person.Death); err != nil {
		return tree.Person{}, errors.Wrapf(err, "person %s: malformed death payload", person.Id)
	}

	return person, nil
}

func FromTreePerson(person tree.Person) (Person, error) {
	row := Person{
		PersonId:     DbNullString(person.Id),
		DisplayName:  DbNullString(person.DisplayName),
		Gender:       DbNullString(person.Gender),
		VitalStatus:  DbNullString(person.VitalStatus),
		FatherId:     DbNullString(person.FatherId),
		MotherId:     DbNullString(person.MotherId),
		SiblingOrder: DbNullInt64(int64(person.SiblingOrder)),
		Biography:    DbNullString(person.Biography),
	}

	var err error
	if row.Names, err = encodePayload(person.Names); err != nil {
		return Person{}, err
	}
	if row.Events, err = encodePayload(person.Events); err != nil {
		return Person{}, err
	}
	if row.Unions, err = encodePayload(person.Unions); err != nil {
		return Person{}, err
	}
	if row.Birth, err = encodePayload(person.Birth); err != nil {
		return Person{}, err
	}
	if row.Death, err = encodePayload(person.Death); err != nil {
		return Person{}, err
	}

	return row, nil
}

// ToTreeRoster decodes a batch of rows, failing on the first malformed one.
func ToTreeRoster(rows []Person) ([]tree.Person, error) {
	roster := make([]tree.Person, 0, len(rows))
	for _, row := range rows {
		person, err := ToTreePerson(row)
		if err != nil {
			return nil, err
		}
		roster = append(roster, person)
	}
	return roster, nil
}

func decodePayload(payload postgres.Jsonb, target interface{}) error {
	if len(payload.RawMessage) == 0 || string(payload.RawMessage) == "null" {
		return nil
	}
	return json.Unmarshal(payload.RawMessage, target)
}

func encodePayload(value interface{}) (postgres.Jsonb, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return postgres.Jsonb{}, err
	}
	return postgres.Jsonb{RawMessage: raw}, nil
}
