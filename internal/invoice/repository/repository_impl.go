package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/paylane/billing/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			`INSERT INTO invoices (id, user_id, status, idempotency_key, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			invoice.ID,
			invoice.UserID,
			invoice.Status,
			invoice.IdempotencyKey,
			invoice.CreatedAt,
		).Error
		if err != nil {
			return err
		}
		for i := range invoice.Items {
			if err := r.InsertItem(ctx, tx, &invoice.Items[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repo) InsertItem(ctx context.Context, db *gorm.DB, item *domain.InvoiceItem) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoice_items (id, invoice_id, description, quantity, amount, currency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.InvoiceID,
		item.Description,
		item.Quantity,
		item.Amount,
		item.Currency,
		item.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, status, idempotency_key, created_at FROM invoices WHERE id = ?`,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == uuid.Nil {
		return nil, nil
	}
	if err := r.attachItems(ctx, db, []*domain.Invoice{&invoice}); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, status, idempotency_key, created_at
		 FROM invoices WHERE user_id = ? ORDER BY created_at ASC`,
		userID,
	).Scan(&invoices).Error
	if err != nil {
		return nil, err
	}
	refs := make([]*domain.Invoice, len(invoices))
	for i := range invoices {
		refs[i] = &invoices[i]
	}
	if err := r.attachItems(ctx, db, refs); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) ListChargeable(ctx context.Context, db *gorm.DB, limit int) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	stmt := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("status = ?", domain.StatusPending).
		Order("created_at asc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&invoices).Error; err != nil {
		return nil, err
	}
	refs := make([]*domain.Invoice, len(invoices))
	for i := range invoices {
		refs[i] = &invoices[i]
	}
	if err := r.attachItems(ctx, db, refs); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, status domain.InvoiceStatus) error {
	return db.WithContext(ctx).Exec(
		`UPDATE invoices SET status = ? WHERE id = ?`,
		status,
		id,
	).Error
}

func (r *repo) attachItems(ctx context.Context, db *gorm.DB, invoices []*domain.Invoice) error {
	if len(invoices) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(invoices))
	byID := make(map[uuid.UUID]*domain.Invoice, len(invoices))
	for _, invoice := range invoices {
		ids = append(ids, invoice.ID)
		byID[invoice.ID] = invoice
	}
	var items []domain.InvoiceItem
	err := db.WithContext(ctx).
		Model(&domain.InvoiceItem{}).
		Where("invoice_id IN ?", ids).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return err
	}
	for _, item := range items {
		if invoice, ok := byID[item.InvoiceID]; ok {
			invoice.Items = append(invoice.Items, item)
		}
	}
	return nil
}
