package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is the authorization role carried by every user and session.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleEmployee  Role = "employee"
	RoleOwner     Role = "owner"
	RoleManager   Role = "manager"
	RoleITManager Role = "it_manager"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleEmployee, RoleOwner, RoleManager, RoleITManager}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User is an account created by an admin. Password holds a bcrypt hash and is
// never serialized.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Email     string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'employee'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeSave normalizes the email so lookups are case-insensitive.
func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return
}
