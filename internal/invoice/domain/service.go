package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemInput is the caller-supplied shape of a new invoice item.
type ItemInput struct {
	Description string          `json:"description"`
	Quantity    uint32          `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

type CreateInvoiceRequest struct {
	ExternalUserID string      `json:"external_user_id"`
	Items          []ItemInput `json:"items"`
	IdempotencyKey string      `json:"idempotency_key"`
}

// CreateInvoiceResult is a two-shape response: either a freshly created
// invoice, or the items appended to an existing draft. Exactly one field is
// set; callers branch on which.
type CreateInvoiceResult struct {
	Invoice *Invoice      `json:"invoice,omitempty"`
	Items   []InvoiceItem `json:"items,omitempty"`
}

type UpdateStatusRequest struct {
	InvoiceID string `json:"invoice_id"`
	Status    string `json:"status"`
}

type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (CreateInvoiceResult, error)
	ListByUser(ctx context.Context, externalUserID string) ([]Invoice, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (Invoice, error)
	ListChargeable(ctx context.Context, limit int) ([]Invoice, error)
}

var (
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("invoice_not_found")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrInvalidItem       = errors.New("invalid_item")
	ErrCacheRead         = errors.New("idempotency_cache_unavailable")
)
