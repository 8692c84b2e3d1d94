package store

import (
	"database/sql"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type User struct {
	UserId    sql.NullString
	Email     sql.NullString
	FirstName sql.NullString
	LastName  sql.NullString
	Roles     Roles `sql:"-"`
}

func (u *User) Is(role string) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

func (s *Store) AddUser(tx *gorm.DB, user User) (User, error) {
	db := s.dbOrTx(tx)

	user.UserId = sql.NullString{String: s.StringGenerator.GenerateUuid(), Valid: true}
	if err := db.Create(&user).Error; err != nil {
		return User{}, err
	}

	return user, nil
}

func (s *Store) GetUser(tx *gorm.DB, userId string) (User, error) {
	db := s.dbOrTx(tx)

	user := User{}
	res := s.baseUserQuery(db).Where("users.user_id = ?", userId).Group("users.user_id").Row()
	if err := s.scanUser(res, &user); err != nil {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *Store) GetUserByEmail(tx *gorm.DB, email string) (User, error) {
	db := s.dbOrTx(tx)

	user := User{}
	res := s.baseUserQuery(db).Where("users.email = ?", email).Group("users.user_id").Row()
	if err := s.scanUser(res, &user); err != nil {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *Store) ListUsers(tx *gorm.DB) ([]User, error) {
	db := s.dbOrTx(tx)

	rows, err := s.baseUserQuery(db).Group("users.user_id").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		user := User{}
		var roles sql.NullString
		if err := rows.Scan(&user.UserId, &user.Email, &user.FirstName, &user.LastName, &roles); err != nil {
			return nil, err
		}
		user.Roles.decode(roles.String)
		users = append(users, user)
	}
	return users, nil
}

func (s *Store) UpdateUser(tx *gorm.DB, user User) error {
	db := s.dbOrTx(tx)

	if !s.userExists(db, user.UserId.String) {
		return ErrUserNotFound
	}

	updates := map[string]interface{}{
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	}
	return db.Table("users").Where("user_id = ?", user.UserId.String).Updates(updates).Error
}

func (s *Store) DeleteUser(tx *gorm.DB, userId string) error {
	db := s.dbOrTx(tx)

	if !s.userExists(db, userId) {
		return ErrUserNotFound
	}
	if err := db.Where("user_id = ?", userId).Delete(&Role{}).Error; err != nil {
		return err
	}
	return db.Where("user_id = ?", userId).Delete(&User{}).Error
}

func (s *Store) userExists(tx *gorm.DB, userId string) bool {
	u := User{}
	return !tx.Model(User{}).Where("user_id = ?", userId).First(&u).RecordNotFound()
}

func (s *Store) baseUserQuery(db *gorm.DB) *gorm.DB {
	return db.Table("users").
		Select("users.user_id, " +
			"users.email, " +
			"users.first_name, " +
			"users.last_name, " +
			"string_agg(roles.role, ',')").
		Joins("left join roles ON roles.user_id = users.user_id")
}

func (s *Store) scanUser(row *sql.Row, user *User) error {
	var roles sql.NullString
	if err := row.Scan(&user.UserId, &user.Email, &user.FirstName, &user.LastName, &roles); err != nil {
		return err
	}
	user.Roles.decode(roles.String)
	return nil
}
