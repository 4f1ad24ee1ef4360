package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthAttempt is one credential check, successful or not. Rows are
// append-only: they are written once by the authentication flow, read by
// the lockout counter, and removed only by the retention purge.
type AuthAttempt struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Email      string    `json:"email" gorm:"index;not null"`
	UserID     *string   `json:"user_id" gorm:"column:user_id"`
	Successful bool      `json:"successful" gorm:"not null"`
	IPAddress  *string   `json:"ip_address"`
	UserAgent  *string   `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// TableName returns the database table name for the AuthAttempt model.
func (AuthAttempt) TableName() string {
	return "auth_attempts"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (a *AuthAttempt) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
