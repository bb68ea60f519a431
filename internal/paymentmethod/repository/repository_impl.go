package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/paylane/billing/internal/paymentmethod/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, method *domain.PaymentMethod) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if method.IsDefault {
			err := tx.Exec(
				`UPDATE payment_methods SET is_default = false WHERE user_id = ? AND is_default = true`,
				method.UserID,
			).Error
			if err != nil {
				return err
			}
		}
		return tx.Create(method).Error
	})
}

func (r *repo) FindDefaultByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*domain.PaymentMethod, error) {
	var methods []domain.PaymentMethod
	err := db.WithContext(ctx).
		Model(&domain.PaymentMethod{}).
		Where("user_id = ? AND is_default = true", userID).
		Order("created_at desc").
		Limit(1).
		Find(&methods).Error
	if err != nil {
		return nil, err
	}
	if len(methods) == 0 {
		return nil, nil
	}
	return &methods[0], nil
}

type integrationRepo struct{}

func ProvideIntegrations() domain.IntegrationRepository {
	return &integrationRepo{}
}

func (r *integrationRepo) Insert(ctx context.Context, db *gorm.DB, integration *domain.GatewayIntegration) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&domain.GatewayIntegration{}).
			Where("user_id = ? AND gateway_id = ?", integration.UserID, integration.GatewayID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrDuplicateIntegration
		}
		return tx.Create(integration).Error
	})
}

func (r *integrationRepo) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*domain.GatewayIntegration, error) {
	var integration domain.GatewayIntegration
	err := db.WithContext(ctx).Raw(
		`SELECT id, gateway_id, user_id, payment_method_id, gateway_external_user_id,
		        gateway_external_payment_method_id, created_at
		 FROM gateway_integrations WHERE user_id = ?`,
		userID,
	).Scan(&integration).Error
	if err != nil {
		return nil, err
	}
	if integration.ID == uuid.Nil {
		return nil, nil
	}
	return &integration, nil
}
