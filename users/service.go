package users

import (
	"context"

	"github.com/lvaman/genealogy/common/firebase/claims"
	"github.com/lvaman/genealogy/common/store"

	"github.com/badoux/checkmail"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrEmptyUserId  = errors.New("userId cannot be empty")
)

type Service interface {
	AddUserByRoles(ctx context.Context, request UserTransport, roles ...string) (store.User, error)
	GetUser(ctx context.Context, userId string) (store.User, error)
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	Me(ctx context.Context) (store.User, error)
	ListUsers(ctx context.Context) ([]store.User, error)
	UpdateUser(ctx context.Context, request UserTransport) (store.User, error)
	DeleteUser(ctx context.Context, userId string) error
}

type UserService struct {
	Store interface {
		Tx() *gorm.DB
		AddUser(tx *gorm.DB, user store.User) (store.User, error)
		GetUser(tx *gorm.DB, userId string) (store.User, error)
		GetUserByEmail(tx *gorm.DB, email string) (store.User, error)
		ListUsers(tx *gorm.DB) ([]store.User, error)
		UpdateUser(tx *gorm.DB, user store.User) error
		DeleteUser(tx *gorm.DB, userId string) error
		AddRole(tx *gorm.DB, role store.Role) (store.Role, error)
	} `inject:""`
}

func (c *UserService) AddUserByRoles(ctx context.Context, request UserTransport, roles ...string) (store.User, error) {
	if err := checkmail.ValidateFormat(request.Email); err != nil {
		return store.User{}, ErrInvalidEmail
	}

	tx := c.Store.Tx()
	if tx.Error != nil {
		return store.User{}, errors.Wrap(tx.Error, "failed to create user")
	}

	createdUser, err := c.Store.AddUser(tx, store.User{
		UserId:    store.DbNullString(request.Id),
		Email:     store.DbNullString(request.Email),
		FirstName: store.DbNullString(request.FirstName),
		LastName:  store.DbNullString(request.LastName),
	})
	if err != nil {
		tx.Rollback()
		return store.User{}, errors.Wrap(err, "failed to create user")
	}

	for _, role := range roles {
		_, err := c.Store.AddRole(tx, store.Role{
			Role:   role,
			UserId: createdUser.UserId.String,
		})
		if err != nil {
			tx.Rollback()
			return store.User{}, errors.Wrap(err, "failed to set user role")
		}
		createdUser.Roles = append(createdUser.Roles, store.Role{
			UserId: createdUser.UserId.String,
			Role:   role,
		})
	}

	tx.Commit()
	return createdUser, nil
}

func (c *UserService) GetUser(ctx context.Context, userId string) (store.User, error) {
	if userId == "" {
		return store.User{}, ErrEmptyUserId
	}

	user, err := c.Store.GetUser(nil, userId)
	if err != nil {
		return store.User{}, errors.Wrap(err, "failed to get user")
	}
	return user, nil
}

func (c *UserService) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	if err := checkmail.ValidateFormat(email); err != nil {
		return store.User{}, ErrInvalidEmail
	}

	user, err := c.Store.GetUserByEmail(nil, email)
	if err != nil {
		return store.User{}, errors.Wrap(err, "failed to get user")
	}
	return user, nil
}

// Me resolves the authenticated caller from the request claims.
func (c *UserService) Me(ctx context.Context) (store.User, error) {
	return c.GetUser(ctx, claims.GetUserId(ctx))
}

func (c *UserService) ListUsers(ctx context.Context) ([]store.User, error) {
	users, err := c.Store.ListUsers(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}
	return users, nil
}

func (c *UserService) UpdateUser(ctx context.Context, request UserTransport) (store.User, error) {
	if request.Id == "" {
		return store.User{}, ErrEmptyUserId
	}
	if request.Email != "" {
		if err := checkmail.ValidateFormat(request.Email); err != nil {
			return store.User{}, ErrInvalidEmail
		}
	}

	user := store.User{
		UserId:    store.DbNullString(request.Id),
		Email:     store.DbNullString(request.Email),
		FirstName: store.DbNullString(request.FirstName),
		LastName:  store.DbNullString(request.LastName),
	}
	if err := c.Store.UpdateUser(nil, user); err != nil {
		return store.User{}, errors.Wrap(err, "failed to update user")
	}
	return c.GetUser(ctx, request.Id)
}

func (c *UserService) DeleteUser(ctx context.Context, userId string) error {
	if userId == "" {
		return ErrEmptyUserId
	}
	if err := c.Store.DeleteUser(nil, userId); err != nil {
		return errors.Wrap(err, "failed to delete user")
	}
	return nil
}
