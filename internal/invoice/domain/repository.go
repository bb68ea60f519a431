package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// Insert persists the invoice and its items in one transaction.
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	InsertItem(ctx context.Context, db *gorm.DB, item *InvoiceItem) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Invoice, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]Invoice, error)
	// ListChargeable returns pending invoices, oldest first.
	ListChargeable(ctx context.Context, db *gorm.DB, limit int) ([]Invoice, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, status InvoiceStatus) error
}
