// Package scheduler runs the periodic charge retry and settlement jobs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	chargedomain "github.com/paylane/billing/internal/charge/domain"
	chargeservice "github.com/paylane/billing/internal/charge/service"
	invoicedomain "github.com/paylane/billing/internal/invoice/domain"
	"github.com/paylane/billing/internal/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidConfig = errors.New("scheduler_invalid_config")

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	InvoiceSvc invoicedomain.Service
	ChargeSvc  chargedomain.Service
	Settler    *chargeservice.Settler
	Config     Config `optional:"true"`
}

type Scheduler struct {
	db         *gorm.DB
	log        *zap.Logger
	cfg        Config
	invoiceSvc invoicedomain.Service
	chargeSvc  chargedomain.Service
	settler    *chargeservice.Settler
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.InvoiceSvc == nil || p.ChargeSvc == nil || p.Settler == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:         p.DB,
		log:        p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:        p.Config.withDefaults(),
		invoiceSvc: p.InvoiceSvc,
		chargeSvc:  p.ChargeSvc,
		settler:    p.Settler,
	}, nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	schedMetrics := metrics.Scheduler()
	schedMetrics.IncJobRun(name)

	err := fn(ctx)
	schedMetrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		return nil
	}

	schedMetrics.IncJobError(name)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.log.Warn("job timed out", zap.String("job", name), zap.Duration("timeout", timeout), zap.Error(err))
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name string
		Run  func(context.Context) error
	}{
		{"retry_charging_invoices", func(ctx context.Context) error {
			return s.runJob(ctx, "retry_charging_invoices", s.cfg.JobTimeout, s.RetryChargingInvoicesJob)
		}},
		{"settle_charges", func(ctx context.Context) error {
			return s.runJob(ctx, "settle_charges", s.cfg.JobTimeout, s.SettleChargesJob)
		}},
	}

	for _, job := range jobs {
		err = errors.Join(err, job.Run(parent))
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RetryChargingInvoicesJob opens a fresh charge for every pending invoice.
// One invoice failing must not starve the rest of the batch, so failures are
// collected and reported together after the full sweep.
func (s *Scheduler) RetryChargingInvoicesJob(ctx context.Context) error {
	invoices, err := s.invoiceSvc.ListChargeable(ctx, s.cfg.BatchSize)
	if err != nil {
		return err
	}

	var failures []string
	var charged int
	for _, invoice := range invoices {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if _, err := s.chargeSvc.Create(ctx, invoice.ID.String()); err != nil {
			s.log.Error("failed to charge invoice", zap.Error(err), zap.String("invoice_id", invoice.ID.String()))
			failures = append(failures, fmt.Sprintf("invoice %s: %v", invoice.ID, err))
			continue
		}
		charged++
	}
	metrics.Scheduler().ObserveBatchProcessed("retry_charging_invoices", charged)

	if len(failures) > 0 {
		return errors.New(strings.Join(failures, "; "))
	}
	return nil
}

// SettleChargesJob drains pending charge events through the gateway.
func (s *Scheduler) SettleChargesJob(ctx context.Context) error {
	settled, err := s.settler.SettlePending(ctx, s.cfg.BatchSize)
	metrics.Scheduler().ObserveBatchProcessed("settle_charges", settled)
	return err
}
