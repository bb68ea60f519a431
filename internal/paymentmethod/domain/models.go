// Package domain contains payment method and gateway integration models.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Method is the payment instrument kind.
type Method string

const (
	MethodPix        Method = "pix"
	MethodCreditCard Method = "credit_card"
	MethodUnknown    Method = "unknown"
)

// ParseMethod maps a wire string to a Method. Unrecognized input maps to
// MethodUnknown; callers decide whether that is an error.
func ParseMethod(value string) Method {
	switch Method(value) {
	case MethodPix, MethodCreditCard:
		return Method(value)
	default:
		return MethodUnknown
	}
}

// PixInfo identifies a pix key at the provider.
type PixInfo struct {
	Key        string `json:"key"`
	ExternalID string `json:"external_id"`
}

// CreditCardInfo carries the non-sensitive card summary.
type CreditCardInfo struct {
	Last4      string `json:"last4"`
	Flag       string `json:"flag"`
	Expiry     string `json:"expiry"`
	ExternalID string `json:"external_id"`
}

// Info is a tagged union; exactly one member is set, matching Method.
type Info struct {
	Pix        *PixInfo        `json:"pix,omitempty"`
	CreditCard *CreditCardInfo `json:"credit_card,omitempty"`
}

// PaymentMethod is a user's registered payment instrument. At most one per
// user is default, enforced by a partial unique index.
type PaymentMethod struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	IsDefault bool      `json:"is_default" gorm:"not null;default:false"`
	Method    Method    `json:"method" gorm:"type:text;not null"`
	Info      Info      `json:"info" gorm:"serializer:json;type:jsonb"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PaymentMethod) TableName() string { return "payment_methods" }

// GatewayIntegration links an internal user/payment-method to its
// gateway-side identifiers. Unique per (user_id, gateway_id).
type GatewayIntegration struct {
	ID                             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	GatewayID                      uuid.UUID  `json:"gateway_id" gorm:"type:uuid;not null;uniqueIndex:ux_gateway_integrations_user_gateway,priority:2"`
	UserID                         uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:ux_gateway_integrations_user_gateway,priority:1"`
	PaymentMethodID                *uuid.UUID `json:"payment_method_id" gorm:"type:uuid"`
	GatewayExternalUserID          string     `json:"gateway_external_user_id" gorm:"type:text;not null"`
	GatewayExternalPaymentMethodID *string    `json:"gateway_external_payment_method_id" gorm:"type:text"`
	CreatedAt                      time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (GatewayIntegration) TableName() string { return "gateway_integrations" }
