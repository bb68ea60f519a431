package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert persists the method; when it is marked default, prior defaults
	// for the user are cleared in the same transaction.
	Insert(ctx context.Context, db *gorm.DB, method *PaymentMethod) error
	FindDefaultByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*PaymentMethod, error)
}

type IntegrationRepository interface {
	// Insert rejects a second integration for the same (user, gateway) pair
	// with ErrDuplicateIntegration.
	Insert(ctx context.Context, db *gorm.DB, integration *GatewayIntegration) error
	FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*GatewayIntegration, error)
}
