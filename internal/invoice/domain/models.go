// Package domain contains the invoice lifecycle models and ports.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is a billable unit for a user. Items attach only while the invoice
// is in draft; afterwards the status transition table is the only mutation path.
type Invoice struct {
	ID             uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:ux_invoices_user_idempotency,priority:1"`
	Status         InvoiceStatus `json:"status" gorm:"type:text;not null;default:'draft'"`
	IdempotencyKey *string       `json:"-" gorm:"type:text;uniqueIndex:ux_invoices_user_idempotency,priority:2"`
	CreatedAt      time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`

	Items []InvoiceItem `json:"items" gorm:"-"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem is a line on an invoice. Immutable once persisted.
type InvoiceItem struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `json:"invoice_id" gorm:"type:uuid;not null;index"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Quantity    uint32          `json:"quantity" gorm:"not null"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(18,6);not null"`
	Currency    string          `json:"currency" gorm:"type:text;not null"`
	CreatedAt   time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// Total sums quantity×amount over the invoice items.
func (i Invoice) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range i.Items {
		total = total.Add(item.Amount.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Currency returns the currency of the first item. Items on one invoice
// share a currency; an empty invoice settles in the default.
func (i Invoice) Currency() string {
	if len(i.Items) > 0 {
		return i.Items[0].Currency
	}
	return "usd"
}
