package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paylane/billing/internal/cache"
	"github.com/paylane/billing/internal/invoice/domain"
	userdomain "github.com/paylane/billing/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	idempotencyKeyPrefix = "create_invoice:"
	idempotencyTTL       = 24 * time.Hour
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Cache   cache.Store
	UserSvc userdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	cache   cache.Store
	userSvc userdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("invoice.service"),
		repo:    p.Repo,
		cache:   p.Cache,
		userSvc: p.UserSvc,
	}
}

// Create creates a new draft invoice for the user, or appends the items to an
// existing draft. Requests replayed with the same idempotency key return the
// cached first response without touching the repositories.
func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.CreateInvoiceResult, error) {
	externalID, err := uuid.Parse(strings.TrimSpace(req.ExternalUserID))
	if err != nil {
		return domain.CreateInvoiceResult{}, domain.ErrInvalidID
	}
	for _, item := range req.Items {
		if item.Amount.IsNegative() {
			return domain.CreateInvoiceResult{}, domain.ErrInvalidItem
		}
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key != "" {
		// A failed read must fail the request: skipping the lookup could
		// replay the side effects it exists to dedupe.
		cached, hit, err := s.cache.Get(ctx, idempotencyKeyPrefix+key)
		if err != nil {
			s.log.Error("idempotency cache read failed", zap.Error(err), zap.String("idempotency_key", key))
			return domain.CreateInvoiceResult{}, fmt.Errorf("%w: %v", domain.ErrCacheRead, err)
		}
		if hit {
			var result domain.CreateInvoiceResult
			if err := json.Unmarshal([]byte(cached), &result); err != nil {
				return domain.CreateInvoiceResult{}, fmt.Errorf("decode cached response: %w", err)
			}
			return result, nil
		}
	}

	user, err := s.userSvc.GetByExternalID(ctx, externalID)
	if err != nil {
		return domain.CreateInvoiceResult{}, err
	}

	invoices, err := s.repo.ListByUser(ctx, s.db, user.ID)
	if err != nil {
		s.log.Error("failed to list invoices", zap.Error(err), zap.String("user_id", user.ID.String()))
		return domain.CreateInvoiceResult{}, err
	}
	var draft *domain.Invoice
	for i := range invoices {
		if invoices[i].Status == domain.StatusDraft {
			draft = &invoices[i]
			break
		}
	}

	var result domain.CreateInvoiceResult
	if draft == nil {
		invoice := domain.Invoice{
			ID:        uuid.New(),
			UserID:    user.ID,
			Status:    domain.StatusDraft,
			CreatedAt: time.Now().UTC(),
		}
		if key != "" {
			invoice.IdempotencyKey = &key
		}
		for _, input := range req.Items {
			invoice.Items = append(invoice.Items, newItem(invoice.ID, input))
		}
		if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
			s.log.Error("failed to insert invoice", zap.Error(err), zap.String("user_id", user.ID.String()))
			return domain.CreateInvoiceResult{}, err
		}
		result = domain.CreateInvoiceResult{Invoice: &invoice}
	} else {
		appended := make([]domain.InvoiceItem, 0, len(req.Items))
		for _, input := range req.Items {
			item := newItem(draft.ID, input)
			if err := s.repo.InsertItem(ctx, s.db, &item); err != nil {
				s.log.Error("failed to insert invoice item", zap.Error(err), zap.String("invoice_id", draft.ID.String()))
				return domain.CreateInvoiceResult{}, err
			}
			appended = append(appended, item)
		}
		result = domain.CreateInvoiceResult{Items: appended}
	}

	if key != "" {
		// The primary write already succeeded; a lost cache entry only widens
		// the replay window, so log and move on.
		encoded, err := json.Marshal(result)
		if err != nil {
			s.log.Error("failed to encode idempotency response", zap.Error(err), zap.String("idempotency_key", key))
			return result, nil
		}
		if err := s.cache.Set(ctx, idempotencyKeyPrefix+key, string(encoded), idempotencyTTL); err != nil {
			s.log.Error("idempotency cache write failed", zap.Error(err), zap.String("idempotency_key", key))
		}
	}

	return result, nil
}

func (s *Service) ListByUser(ctx context.Context, externalUserID string) ([]domain.Invoice, error) {
	externalID, err := uuid.Parse(strings.TrimSpace(externalUserID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	user, err := s.userSvc.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, s.db, user.ID)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *invoice, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (domain.Invoice, error) {
	id, err := uuid.Parse(strings.TrimSpace(req.InvoiceID))
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidID
	}
	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if invoice == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	next := domain.ParseStatus(strings.TrimSpace(req.Status))
	if !domain.CanTransition(invoice.Status, next) {
		return domain.Invoice{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, invoice.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, s.db, invoice.ID, next); err != nil {
		s.log.Error("failed to update invoice status", zap.Error(err), zap.String("invoice_id", invoice.ID.String()))
		return domain.Invoice{}, err
	}
	invoice.Status = next
	return *invoice, nil
}

func (s *Service) ListChargeable(ctx context.Context, limit int) ([]domain.Invoice, error) {
	return s.repo.ListChargeable(ctx, s.db, limit)
}

func newItem(invoiceID uuid.UUID, input domain.ItemInput) domain.InvoiceItem {
	return domain.InvoiceItem{
		ID:          uuid.New(),
		InvoiceID:   invoiceID,
		Description: input.Description,
		Quantity:    input.Quantity,
		Amount:      input.Amount,
		Currency:    input.Currency,
		CreatedAt:   time.Now().UTC(),
	}
}
