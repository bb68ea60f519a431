package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/paylane/billing/internal/charge/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, charge *domain.Charge) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO charges (id, invoice_id, payment_method_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		charge.ID,
		charge.InvoiceID,
		charge.PaymentMethodID,
		charge.Status,
		charge.CreatedAt,
	).Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, status domain.ChargeStatus) error {
	return db.WithContext(ctx).Exec(
		`UPDATE charges SET status = ? WHERE id = ?`,
		status,
		id,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*domain.Charge, error) {
	var charge domain.Charge
	err := db.WithContext(ctx).Raw(
		`SELECT id, invoice_id, payment_method_id, status, created_at FROM charges WHERE id = ?`,
		id,
	).Scan(&charge).Error
	if err != nil {
		return nil, err
	}
	if charge.ID == uuid.Nil {
		return nil, nil
	}
	return &charge, nil
}
