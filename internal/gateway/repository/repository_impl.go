package repository

import (
	"context"

	"github.com/paylane/billing/internal/gateway/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListByPriority(ctx context.Context, db *gorm.DB) ([]domain.Gateway, error) {
	var gateways []domain.Gateway
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, priority, created_at FROM gateways ORDER BY priority ASC`,
	).Scan(&gateways).Error
	if err != nil {
		return nil, err
	}
	return gateways, nil
}
