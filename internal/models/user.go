// Package models contains data models for the member portal.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role identifies the permission tier of a user.
type Role string

const (
	RoleMember     Role = "MEMBER"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// Status is the administrative approval state of a member,
// distinct from Role.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusBlocked  Status = "BLOCKED"
)

// Valid reports whether s is one of the recognized status values.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusBlocked:
		return true
	}
	return false
}

// User represents a registered member of the portal.
// Sign-up creates users with RoleMember and StatusPending; only the
// member administration flow mutates Status afterwards.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey"`
	Name           string    `json:"name" gorm:"not null"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	Image          *string   `json:"image"`
	HashedPassword string    `json:"-" gorm:"not null"`
	Role           Role      `json:"role" gorm:"not null;default:MEMBER"`
	Status         Status    `json:"status" gorm:"not null;default:PENDING"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
