// Package domain defines the payment gateway port and priority catalog.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway is a priority catalog entry; the lowest priority value is the
// active gateway.
type Gateway struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null;uniqueIndex"`
	Priority  int       `json:"priority" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Gateway) TableName() string { return "gateways" }

// Provider is the capability port every concrete gateway adapter implements.
// The orchestration layer holds this interface only and never branches on the
// concrete provider type.
type Provider interface {
	ID() uuid.UUID
	// WithID returns a copy of the adapter bound to the catalog row's id.
	// Adapters are shared across requests, so the base instance is never
	// mutated after construction.
	WithID(id uuid.UUID) Provider
	Charge(ctx context.Context, amount decimal.Decimal, currency, description string) error
	CreateCustomer(ctx context.Context, name, email string) (string, error)
	// CreatePaymentMethod maps methodType to the provider's own enum; an
	// unmapped type is ErrUnknownMethod, never silently defaulted.
	CreatePaymentMethod(ctx context.Context, methodType string) (string, error)
}

// Service resolves the active gateway and its adapter.
type Service interface {
	Active(ctx context.Context) (Gateway, Provider, error)
	ProviderFor(gateway Gateway) (Provider, error)
}

var (
	ErrNoGateway        = errors.New("no_gateway_found")
	ErrProviderNotFound = errors.New("gateway_provider_not_found")
	ErrUnknownMethod    = errors.New("unknown_payment_method_type")
	ErrChargeFailed     = errors.New("gateway_charge_failed")
	ErrCustomerCreation = errors.New("gateway_customer_creation_failed")
	ErrMethodCreation   = errors.New("gateway_payment_method_creation_failed")
)
