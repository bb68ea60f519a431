package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	chargedomain "github.com/paylane/billing/internal/charge/domain"
	invoicedomain "github.com/paylane/billing/internal/invoice/domain"
	"go.uber.org/zap"
)

type invoiceListStub struct {
	invoices []invoicedomain.Invoice
}

func (s *invoiceListStub) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.CreateInvoiceResult, error) {
	return invoicedomain.CreateInvoiceResult{}, errors.New("not implemented")
}

func (s *invoiceListStub) ListByUser(ctx context.Context, externalUserID string) ([]invoicedomain.Invoice, error) {
	return nil, errors.New("not implemented")
}

func (s *invoiceListStub) UpdateStatus(ctx context.Context, req invoicedomain.UpdateStatusRequest) (invoicedomain.Invoice, error) {
	return invoicedomain.Invoice{}, errors.New("not implemented")
}

func (s *invoiceListStub) GetByID(ctx context.Context, id uuid.UUID) (invoicedomain.Invoice, error) {
	return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
}

func (s *invoiceListStub) ListChargeable(ctx context.Context, limit int) ([]invoicedomain.Invoice, error) {
	if limit > 0 && limit < len(s.invoices) {
		return s.invoices[:limit], nil
	}
	return s.invoices, nil
}

type chargeSvcStub struct {
	mu      sync.Mutex
	calls   []uuid.UUID
	failFor map[uuid.UUID]error
}

func (s *chargeSvcStub) Create(ctx context.Context, invoiceID string) (chargedomain.Charge, error) {
	id, err := uuid.Parse(invoiceID)
	if err != nil {
		return chargedomain.Charge{}, chargedomain.ErrInvalidID
	}
	s.mu.Lock()
	s.calls = append(s.calls, id)
	s.mu.Unlock()
	if err, ok := s.failFor[id]; ok {
		return chargedomain.Charge{}, err
	}
	return chargedomain.Charge{ID: uuid.New(), InvoiceID: id, Status: chargedomain.StatusProgress}, nil
}

func (s *chargeSvcStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestScheduler(invoiceSvc invoicedomain.Service, chargeSvc chargedomain.Service) *Scheduler {
	return &Scheduler{
		log:        zap.NewNop(),
		cfg:        Config{}.withDefaults(),
		invoiceSvc: invoiceSvc,
		chargeSvc:  chargeSvc,
	}
}

func pendingInvoices(n int) []invoicedomain.Invoice {
	invoices := make([]invoicedomain.Invoice, 0, n)
	for i := 0; i < n; i++ {
		invoices = append(invoices, invoicedomain.Invoice{
			ID:     uuid.New(),
			UserID: uuid.New(),
			Status: invoicedomain.StatusPending,
		})
	}
	return invoices
}

func TestRetryChargingInvoicesBatchIsolation(t *testing.T) {
	invoices := pendingInvoices(3)
	bad := invoices[1].ID
	chargeSvc := &chargeSvcStub{
		failFor: map[uuid.UUID]error{bad: errors.New("gateway unavailable")},
	}
	sched := newTestScheduler(&invoiceListStub{invoices: invoices}, chargeSvc)

	err := sched.RetryChargingInvoicesJob(context.Background())
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if chargeSvc.callCount() != 3 {
		t.Fatalf("charge attempts = %d, want 3 (one failure must not stop the sweep)", chargeSvc.callCount())
	}
	if !strings.Contains(err.Error(), bad.String()) {
		t.Fatalf("error does not name the failed invoice: %v", err)
	}
	for _, invoice := range []uuid.UUID{invoices[0].ID, invoices[2].ID} {
		if strings.Contains(err.Error(), invoice.String()) {
			t.Fatalf("error names a successful invoice %s: %v", invoice, err)
		}
	}
}

func TestRetryChargingInvoicesAggregatesAllFailures(t *testing.T) {
	invoices := pendingInvoices(2)
	chargeSvc := &chargeSvcStub{
		failFor: map[uuid.UUID]error{
			invoices[0].ID: errors.New("first down"),
			invoices[1].ID: errors.New("second down"),
		},
	}
	sched := newTestScheduler(&invoiceListStub{invoices: invoices}, chargeSvc)

	err := sched.RetryChargingInvoicesJob(context.Background())
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Fatalf("failures not joined: %v", err)
	}
	if !strings.Contains(err.Error(), "first down") || !strings.Contains(err.Error(), "second down") {
		t.Fatalf("error missing individual causes: %v", err)
	}
}

func TestRetryChargingInvoicesNothingPending(t *testing.T) {
	chargeSvc := &chargeSvcStub{}
	sched := newTestScheduler(&invoiceListStub{}, chargeSvc)

	if err := sched.RetryChargingInvoicesJob(context.Background()); err != nil {
		t.Fatalf("empty sweep: %v", err)
	}
	if chargeSvc.callCount() != 0 {
		t.Fatalf("charge attempts = %d, want 0", chargeSvc.callCount())
	}
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.RunInterval != time.Minute {
		t.Fatalf("RunInterval = %s, want 1m", cfg.RunInterval)
	}
	if cfg.JobTimeout != 30*time.Second {
		t.Fatalf("JobTimeout = %s, want 30s", cfg.JobTimeout)
	}
	if cfg.BatchSize != 50 {
		t.Fatalf("BatchSize = %d, want 50", cfg.BatchSize)
	}

	custom := Config{RunInterval: 5 * time.Second, JobTimeout: time.Second, BatchSize: 3}.withDefaults()
	if custom.RunInterval != 5*time.Second || custom.JobTimeout != time.Second || custom.BatchSize != 3 {
		t.Fatalf("withDefaults overrode explicit values: %+v", custom)
	}
}
