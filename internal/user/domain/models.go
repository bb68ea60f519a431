// Package domain contains the billing user model and ports.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User bridges a caller-domain identity (ExternalID) into the billing domain.
// Immutable after creation.
type User struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ExternalID uuid.UUID `json:"external_id" gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
