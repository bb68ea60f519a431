package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/paylane/billing/internal/gateway/domain"
	"github.com/shopspring/decimal"
)

type fakeProvider struct {
	id uuid.UUID
}

func (p *fakeProvider) ID() uuid.UUID { return p.id }
func (p *fakeProvider) WithID(id uuid.UUID) domain.Provider {
	clone := *p
	clone.id = id
	return &clone
}
func (p *fakeProvider) Charge(context.Context, decimal.Decimal, string, string) error {
	return nil
}
func (p *fakeProvider) CreateCustomer(context.Context, string, string) (string, error) {
	return "", nil
}
func (p *fakeProvider) CreatePaymentMethod(context.Context, string) (string, error) {
	return "", nil
}

func TestRegistryLookupNormalizesName(t *testing.T) {
	provider := &fakeProvider{}
	registry := NewRegistry(map[string]domain.Provider{"Stripe ": provider})

	for _, name := range []string{"stripe", "STRIPE", " Stripe"} {
		got, err := registry.Provider(name)
		if err != nil {
			t.Fatalf("Provider(%q): %v", name, err)
		}
		if got != provider {
			t.Fatalf("Provider(%q) returned wrong adapter", name)
		}
	}
}

func TestRegistryUnknownProvider(t *testing.T) {
	registry := NewRegistry(map[string]domain.Provider{})

	_, err := registry.Provider("stripe")
	if !errors.Is(err, domain.ErrProviderNotFound) {
		t.Fatalf("err = %v, want ErrProviderNotFound", err)
	}
}
