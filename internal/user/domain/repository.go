package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, user *User) error
	FindByExternalID(ctx context.Context, db *gorm.DB, externalID uuid.UUID) (*User, error)
}
