package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListByPriority(ctx context.Context, db *gorm.DB) ([]Gateway, error)
}
