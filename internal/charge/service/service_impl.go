package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paylane/billing/internal/charge/domain"
	eventsdomain "github.com/paylane/billing/internal/events/domain"
	invoicedomain "github.com/paylane/billing/internal/invoice/domain"
	paymentmethoddomain "github.com/paylane/billing/internal/paymentmethod/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB               *gorm.DB
	Log              *zap.Logger
	Repo             domain.Repository
	InvoiceSvc       invoicedomain.Service
	PaymentMethodSvc paymentmethoddomain.Service
	Publisher        eventsdomain.Publisher
}

type Service struct {
	db               *gorm.DB
	log              *zap.Logger
	repo             domain.Repository
	invoiceSvc       invoicedomain.Service
	paymentMethodSvc paymentmethoddomain.Service
	publisher        eventsdomain.Publisher
}

func New(p Params) domain.Service {
	return &Service{
		db:               p.DB,
		log:              p.Log.Named("charge.service"),
		repo:             p.Repo,
		invoiceSvc:       p.InvoiceSvc,
		paymentMethodSvc: p.PaymentMethodSvc,
		publisher:        p.Publisher,
	}
}

// Create opens a charge in progress for the invoice and announces it on the
// bus. Settlement happens asynchronously; this method never calls the
// gateway itself.
func (s *Service) Create(ctx context.Context, invoiceID string) (domain.Charge, error) {
	id, err := uuid.Parse(strings.TrimSpace(invoiceID))
	if err != nil {
		return domain.Charge{}, domain.ErrInvalidID
	}

	invoice, err := s.invoiceSvc.GetByID(ctx, id)
	if err != nil {
		return domain.Charge{}, err
	}

	method, err := s.paymentMethodSvc.GetDefaultByUser(ctx, invoice.UserID)
	if err != nil {
		return domain.Charge{}, err
	}

	charge := domain.Charge{
		ID:              uuid.New(),
		InvoiceID:       invoice.ID,
		PaymentMethodID: method.ID,
		Status:          domain.StatusProgress,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &charge); err != nil {
		s.log.Error("failed to insert charge", zap.Error(err), zap.String("invoice_id", invoice.ID.String()))
		return domain.Charge{}, err
	}

	payload := domain.CreatedEvent{
		ChargeID:        charge.ID,
		InvoiceID:       invoice.ID,
		PaymentMethodID: method.ID,
		UserID:          invoice.UserID,
	}
	if err := s.publisher.Publish(ctx, eventsdomain.ChargeCreatedTopic, charge.ID.String(), payload); err != nil {
		// The charge row is already persisted; the caller learns the
		// notification was lost through the distinct error kind.
		s.log.Error("failed to publish charge created event", zap.Error(err), zap.String("charge_id", charge.ID.String()))
		return domain.Charge{}, fmt.Errorf("%w: %v", domain.ErrEventPublish, err)
	}

	return charge, nil
}
