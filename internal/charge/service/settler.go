package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/paylane/billing/internal/charge/domain"
	"github.com/paylane/billing/internal/events"
	eventsdomain "github.com/paylane/billing/internal/events/domain"
	gatewaydomain "github.com/paylane/billing/internal/gateway/domain"
	invoicedomain "github.com/paylane/billing/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SettlerParams struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Repo       domain.Repository
	Outbox     *events.Outbox
	InvoiceSvc invoicedomain.Service
	GatewaySvc gatewaydomain.Service
}

// Settler drains CHARGE_CREATED events and runs each charge through the
// active gateway, moving the charge and its invoice to their terminal
// outcome for this attempt.
type Settler struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       domain.Repository
	outbox     *events.Outbox
	invoiceSvc invoicedomain.Service
	gatewaySvc gatewaydomain.Service
}

func NewSettler(p SettlerParams) *Settler {
	return &Settler{
		db:         p.DB,
		log:        p.Log.Named("charge.settler"),
		repo:       p.Repo,
		outbox:     p.Outbox,
		invoiceSvc: p.InvoiceSvc,
		gatewaySvc: p.GatewaySvc,
	}
}

// SettlePending processes up to limit pending charge events. A failed
// settlement does not abort the batch; every event is attempted and the
// failures are reported together.
func (s *Settler) SettlePending(ctx context.Context, limit int) (int, error) {
	pending, err := s.outbox.ListPending(ctx, eventsdomain.ChargeCreatedTopic, limit)
	if err != nil {
		return 0, err
	}

	var settled int
	var errs []error
	for _, event := range pending {
		if err := s.settle(ctx, event.Payload); err != nil {
			s.log.Error("failed to settle charge", zap.Error(err), zap.String("key", event.Key))
			errs = append(errs, fmt.Errorf("charge %s: %w", event.Key, err))
			continue
		}
		if err := s.outbox.MarkPublished(ctx, event.ID); err != nil {
			errs = append(errs, fmt.Errorf("charge %s: %w", event.Key, err))
			continue
		}
		settled++
	}
	return settled, joinErrors(errs)
}

func (s *Settler) settle(ctx context.Context, payload []byte) error {
	var created domain.CreatedEvent
	if err := json.Unmarshal(payload, &created); err != nil {
		return fmt.Errorf("decode event payload: %w", err)
	}

	// A replayed event (crash or a failed MarkPublished on a prior tick)
	// must not reach the gateway a second time. The charge row is the
	// settlement record: once it left progress the attempt is spent.
	charge, err := s.repo.FindByID(ctx, s.db, created.ChargeID)
	if err != nil {
		return err
	}
	if charge == nil || charge.Status != domain.StatusProgress {
		s.log.Info("charge already settled, marking event published",
			zap.String("charge_id", created.ChargeID.String()),
		)
		return nil
	}

	invoice, err := s.invoiceSvc.GetByID(ctx, created.InvoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != invoicedomain.StatusPending {
		s.log.Info("invoice no longer pending, marking event published",
			zap.String("invoice_id", invoice.ID.String()),
			zap.String("status", string(invoice.Status)),
		)
		return nil
	}

	_, provider, err := s.gatewaySvc.Active(ctx)
	if err != nil {
		return err
	}

	chargeErr := provider.Charge(ctx, invoice.Total(), invoice.Currency(), "invoice "+invoice.ID.String())
	if chargeErr != nil {
		s.log.Warn("gateway declined charge",
			zap.Error(chargeErr),
			zap.String("charge_id", created.ChargeID.String()),
			zap.String("invoice_id", invoice.ID.String()),
		)
		if err := s.repo.UpdateStatus(ctx, s.db, created.ChargeID, domain.StatusFailed); err != nil {
			return err
		}
		return s.moveInvoice(ctx, invoice, invoicedomain.StatusChargedWithError)
	}

	if err := s.repo.UpdateStatus(ctx, s.db, created.ChargeID, domain.StatusSucceed); err != nil {
		return err
	}
	return s.moveInvoice(ctx, invoice, invoicedomain.StatusPaid)
}

// moveInvoice applies the settlement outcome through the status service so
// the transition table stays the single gate on invoice mutations.
func (s *Settler) moveInvoice(ctx context.Context, invoice invoicedomain.Invoice, next invoicedomain.InvoiceStatus) error {
	_, err := s.invoiceSvc.UpdateStatus(ctx, invoicedomain.UpdateStatusRequest{
		InvoiceID: invoice.ID.String(),
		Status:    string(next),
	})
	return err
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msg := errs[0].Error()
	for _, err := range errs[1:] {
		msg += "; " + err.Error()
	}
	return fmt.Errorf("%s", msg)
}
