package mocks

import (
	"github.com/lvaman/genealogy/common/store"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

// NewTestTx returns a gorm handle that is valid to Commit or Rollback but is
// not backed by a live connection. Good enough for services that only pass
// the handle through to mocked store calls.
func NewTestTx() *gorm.DB {
	db, _ := gorm.Open("postgres", "host=localhost port=1 user=test dbname=test sslmode=disable")
	return db
}

func (s *MockStore) Tx() *gorm.DB {
	args := s.Called()
	return args.Get(0).(*gorm.DB)
}

func (s *MockStore) AddPerson(tx *gorm.DB, person store.Person) (store.Person, error) {
	args := s.Called(tx, person)
	return args.Get(0).(store.Person), args.Error(1)
}

func (s *MockStore) GetPerson(tx *gorm.DB, personId string) (store.Person, error) {
	args := s.Called(tx, personId)
	return args.Get(0).(store.Person), args.Error(1)
}

func (s *MockStore) ListPersons(tx *gorm.DB) ([]store.Person, error) {
	args := s.Called(tx)
	return args.Get(0).([]store.Person), args.Error(1)
}

func (s *MockStore) UpdatePerson(tx *gorm.DB, person store.Person) error {
	args := s.Called(tx, person)
	return args.Error(0)
}

func (s *MockStore) RenamePersonId(tx *gorm.DB, oldId, newId string) error {
	args := s.Called(tx, oldId, newId)
	return args.Error(0)
}

func (s *MockStore) DeletePerson(tx *gorm.DB, personId string) error {
	args := s.Called(tx, personId)
	return args.Error(0)
}

func (s *MockStore) AddUser(tx *gorm.DB, user store.User) (store.User, error) {
	args := s.Called(tx, user)
	return args.Get(0).(store.User), args.Error(1)
}

func (s *MockStore) GetUser(tx *gorm.DB, userId string) (store.User, error) {
	args := s.Called(tx, userId)
	return args.Get(0).(store.User), args.Error(1)
}

func (s *MockStore) GetUserByEmail(tx *gorm.DB, email string) (store.User, error) {
	args := s.Called(tx, email)
	return args.Get(0).(store.User), args.Error(1)
}

func (s *MockStore) ListUsers(tx *gorm.DB) ([]store.User, error) {
	args := s.Called(tx)
	return args.Get(0).([]store.User), args.Error(1)
}

func (s *MockStore) UpdateUser(tx *gorm.DB, user store.User) error {
	args := s.Called(tx, user)
	return args.Error(0)
}

func (s *MockStore) DeleteUser(tx *gorm.DB, userId string) error {
	args := s.Called(tx, userId)
	return args.Error(0)
}

func (s *MockStore) AddRole(tx *gorm.DB, role store.Role) (store.Role, error) {
	args := s.Called(tx, role)
	return args.Get(0).(store.Role), args.Error(1)
}

func (s *MockStore) GetUserRoles(tx *gorm.DB, userId string) ([]store.Role, error) {
	args := s.Called(tx, userId)
	return args.Get(0).([]store.Role), args.Error(1)
}
