package models

import (
	"strings"

	"gorm.io/gorm"
)

// Role is a claim tag carried by a user and checked before mutating
// operations.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleSuperUser Role = "superUser"
)

// User represents a registered user of the catalog.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	RoleTags   string `json:"roles" gorm:"type:varchar(255)"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// Roles returns the parsed role tags. Roles are persisted comma-joined
// because postgres and sqlite share no native string-array column.
func (u *User) Roles() []Role {
	if u.RoleTags == "" {
		return nil
	}
	parts := strings.Split(u.RoleTags, ",")
	roles := make([]Role, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, Role(p))
		}
	}
	return roles
}

// SetRoles replaces the user's role tags.
func (u *User) SetRoles(roles ...Role) {
	tags := make([]string, 0, len(roles))
	for _, r := range roles {
		tags = append(tags, string(r))
	}
	u.RoleTags = strings.Join(tags, ",")
}

// HasRole reports whether the user carries the given role claim.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles() {
		if r == role {
			return true
		}
	}
	return false
}
