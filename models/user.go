package models

import (
	"fmt"
	"strings"
	"time"
)

// RoleName is the closed set of roles a user can hold
type RoleName string

const (
	RoleCustomer RoleName = "CUSTOMER"
	RoleSeller   RoleName = "SELLER"
	RoleAdmin    RoleName = "ADMIN"
)

// AllRoles lists every role in display priority order
var AllRoles = []RoleName{RoleAdmin, RoleSeller, RoleCustomer}

// ParseRoleName accepts any casing and rejects names outside the enum
func ParseRoleName(s string) (RoleName, error) {
	r := RoleName(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// PrimaryRole picks the display role: ADMIN > SELLER > CUSTOMER, then the
// first remaining entry.
func PrimaryRole(roles []RoleName) RoleName {
	if len(roles) == 0 {
		return ""
	}
	held := make(map[RoleName]bool, len(roles))
	for _, r := range roles {
		held[r] = true
	}
	for _, r := range AllRoles {
		if held[r] {
			return r
		}
	}
	return roles[0]
}

type Role struct {
	ID   uint     `json:"id" gorm:"primaryKey"`
	Name RoleName `json:"name" gorm:"uniqueIndex;not null;size:20"`
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null;size:100"`
	PasswordHash string    `json:"-" gorm:"not null"`
	FirstName    string    `json:"first_name" gorm:"size:100"`
	LastName     string    `json:"last_name" gorm:"size:100"`
	AvatarURL    string    `json:"avatar_url" gorm:"size:255"`
	Roles        []Role    `json:"roles,omitempty" gorm:"many2many:user_roles;"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) RoleNames() []RoleName {
	names := make([]RoleName, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

func (u *User) HasRole(name RoleName) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

func (u *User) PrimaryRole() RoleName {
	return PrimaryRole(u.RoleNames())
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
