package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type CreatePaymentMethodRequest struct {
	ExternalUserID string `json:"external_user_id"`
	IsDefault      bool   `json:"is_default"`
	Method         string `json:"method"`
	Info           Info   `json:"info"`
}

type Service interface {
	Create(ctx context.Context, req CreatePaymentMethodRequest) (PaymentMethod, error)
	GetDefaultByUser(ctx context.Context, userID uuid.UUID) (PaymentMethod, error)
	IntegrationForUser(ctx context.Context, userID uuid.UUID) (GatewayIntegration, error)
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrUnknownMethod        = errors.New("unknown_payment_method")
	ErrNoDefaultMethod      = errors.New("no_default_payment_method")
	ErrDuplicateIntegration = errors.New("duplicate_gateway_integration")
	ErrNoIntegration        = errors.New("gateway_integration_not_found")
)
