package store

import (
	"fmt"
	"strings"

	"github.com/lvaman/genealogy/common/roles"

	"github.com/jinzhu/gorm"
)

var (
	enumRoles = []string{roles.ROLE_ADMIN, roles.ROLE_VIEWER, roles.ROLE_SERVICE}
)

type Roles []Role

func (r *Roles) decode(aggregated string) {
	if aggregated == "" {
		return
	}
	for _, role := range strings.Split(aggregated, ",") {
		*r = append(*r, Role{Role: role})
	}
}

func (r Roles) ToList() []string {
	allRoles := make([]string, 0)
	for _, role := range r {
		allRoles = append(allRoles, role.Role)
	}
	return allRoles
}

type Role struct {
	UserId string
	Role   string
}

func (s *Store) AddRole(tx *gorm.DB, role Role) (Role, error) {
	db := s.dbOrTx(tx)

	if !s.isRoleValid(role.Role) {
		return Role{}, fmt.Errorf("role is not valid, must be %s", enumRoles)
	}

	if err := db.Create(&role).Error; err != nil {
		return Role{}, err
	}
	return role, nil
}

func (s *Store) isRoleValid(role string) bool {
	for _, r := range enumRoles {
		if role == r {
			return true
		}
	}
	return false
}

func (s *Store) GetUserRoles(tx *gorm.DB, userId string) ([]Role, error) {
	db := s.dbOrTx(tx)

	var userRoles []Role
	if err := db.Where("user_id = ?", userId).Find(&userRoles).Error; err != nil {
		return nil, err
	}
	return userRoles, nil
}
