// Package domain contains the charge model and ports.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChargeStatus tracks one collection attempt, independently of the invoice's
// own lifecycle.
type ChargeStatus string

const (
	StatusProgress ChargeStatus = "progress"
	StatusSucceed  ChargeStatus = "succeed"
	StatusFailed   ChargeStatus = "failed"
	StatusUnknown  ChargeStatus = "unknown"
)

// ParseStatus maps a wire string to a charge status.
func ParseStatus(value string) ChargeStatus {
	switch ChargeStatus(value) {
	case StatusProgress, StatusSucceed, StatusFailed:
		return ChargeStatus(value)
	default:
		return StatusUnknown
	}
}

// Charge is an attempt to collect payment for an invoice.
type Charge struct {
	ID              uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	InvoiceID       uuid.UUID    `json:"invoice_id" gorm:"type:uuid;not null;index"`
	PaymentMethodID uuid.UUID    `json:"payment_method_id" gorm:"type:uuid;not null"`
	Status          ChargeStatus `json:"status" gorm:"type:text;not null;default:'progress'"`
	CreatedAt       time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Charge) TableName() string { return "charges" }

// CreatedEvent is the CHARGE_CREATED payload carried on the bus.
type CreatedEvent struct {
	ChargeID        uuid.UUID `json:"charge_id"`
	InvoiceID       uuid.UUID `json:"invoice_id"`
	PaymentMethodID uuid.UUID `json:"payment_method_id"`
	UserID          uuid.UUID `json:"user_id"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, charge *Charge) error
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, status ChargeStatus) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Charge, error)
}

type Service interface {
	Create(ctx context.Context, invoiceID string) (Charge, error)
}

var (
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("charge_not_found")
	ErrEventPublish = errors.New("charge_event_publish_failed")
)
