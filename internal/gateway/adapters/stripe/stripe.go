// Package stripe implements the gateway provider port against the Stripe
// REST API.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paylane/billing/internal/config"
	"github.com/paylane/billing/internal/gateway/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Name is the catalog name this adapter registers under.
const Name = "stripe"

type Adapter struct {
	id      uuid.UUID
	baseURL string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
}

// New builds the adapter with a bounded-timeout HTTP client so a slow
// provider cannot hold a request open indefinitely.
func New(cfg config.GatewayConfig, log *zap.Logger) *Adapter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Adapter{
		baseURL: strings.TrimRight(cfg.StripeURL, "/"),
		apiKey:  cfg.StripeAPIKey,
		client:  &http.Client{Timeout: timeout},
		log:     log.Named("gateway.stripe"),
	}
}

func (a *Adapter) ID() uuid.UUID { return a.id }

func (a *Adapter) WithID(id uuid.UUID) domain.Provider {
	clone := *a
	clone.id = id
	return &clone
}

func (a *Adapter) Charge(ctx context.Context, amount decimal.Decimal, currency, description string) error {
	cents := amount.Shift(2).Round(0).IntPart()
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(cents, 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("description", description)

	var intent struct {
		ID string `json:"id"`
	}
	if err := a.post(ctx, "/v1/payment_intents", form, &intent); err != nil {
		a.log.Error("charge failed", zap.Error(err), zap.String("currency", currency))
		return fmt.Errorf("%w: %v", domain.ErrChargeFailed, err)
	}
	return nil
}

func (a *Adapter) CreateCustomer(ctx context.Context, name, email string) (string, error) {
	form := url.Values{}
	form.Set("name", name)
	form.Set("email", email)

	var customer struct {
		ID string `json:"id"`
	}
	if err := a.post(ctx, "/v1/customers", form, &customer); err != nil {
		a.log.Error("customer creation failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", domain.ErrCustomerCreation, err)
	}
	return customer.ID, nil
}

func (a *Adapter) CreatePaymentMethod(ctx context.Context, methodType string) (string, error) {
	converted, ok := paymentMethodType(methodType)
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownMethod, methodType)
	}
	form := url.Values{}
	form.Set("type", converted)

	var method struct {
		ID string `json:"id"`
	}
	if err := a.post(ctx, "/v1/payment_methods", form, &method); err != nil {
		a.log.Error("payment method creation failed", zap.Error(err), zap.String("type", converted))
		return "", fmt.Errorf("%w: %v", domain.ErrMethodCreation, err)
	}
	return method.ID, nil
}

// paymentMethodType maps the billing-domain method string to Stripe's enum.
func paymentMethodType(methodType string) (string, bool) {
	switch strings.TrimSpace(methodType) {
	case "pix":
		return "pix", true
	case "credit_card":
		return "card", true
	case "boleto":
		return "boleto", true
	case "paypal":
		return "paypal", true
	case "samsung_pay":
		return "samsung_pay", true
	default:
		return "", false
	}
}

func (a *Adapter) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(a.apiKey, "")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("stripe returned %d for %s", resp.StatusCode, path)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
