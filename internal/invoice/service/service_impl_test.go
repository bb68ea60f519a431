package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/paylane/billing/internal/cache"
	"github.com/paylane/billing/internal/invoice/domain"
	"github.com/paylane/billing/internal/invoice/repository"
	userdomain "github.com/paylane/billing/internal/user/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type userStub struct {
	user userdomain.User
}

func (s *userStub) Create(ctx context.Context, req userdomain.CreateUserRequest) (userdomain.User, error) {
	return s.user, nil
}

func (s *userStub) GetByExternalID(ctx context.Context, externalID uuid.UUID) (userdomain.User, error) {
	if externalID != s.user.ExternalID {
		return userdomain.User{}, userdomain.ErrNotFound
	}
	return s.user, nil
}

type failingStore struct {
	getErr error
	setErr error
	inner  cache.Store
}

func (s *failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.getErr != nil {
		return "", false, s.getErr
	}
	return s.inner.Get(ctx, key)
}

func (s *failingStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.inner.Set(ctx, key, value, ttl)
}

func (s *failingStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.inner.SetNX(ctx, key, value, ttl)
}

func setupInvoiceService(t *testing.T, store cache.Store) (domain.Service, *gorm.DB, userdomain.User) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	prepareInvoiceSchema(t, db)

	user := userdomain.User{
		ID:         uuid.New(),
		ExternalID: uuid.New(),
		CreatedAt:  time.Now().UTC(),
	}

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		Repo:    repository.Provide(),
		Cache:   store,
		UserSvc: &userStub{user: user},
	})
	return svc, db, user
}

func prepareInvoiceSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Exec(`CREATE TABLE invoices (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'draft',
		idempotency_key TEXT,
		created_at TIMESTAMP NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create invoices: %v", err)
	}
	if err := db.Exec(`CREATE TABLE invoice_items (
		id TEXT PRIMARY KEY,
		invoice_id TEXT NOT NULL,
		description TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		amount NUMERIC NOT NULL,
		currency TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create invoice_items: %v", err)
	}
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var count int64
	if err := db.Table(table).Count(&count).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}

func itemInput(amount string) domain.ItemInput {
	return domain.ItemInput{
		Description: "subscription",
		Quantity:    1,
		Amount:      decimal.RequireFromString(amount),
		Currency:    "brl",
	}
}

func TestCreateInvoiceNewDraft(t *testing.T) {
	svc, db, user := setupInvoiceService(t, cache.NewMemoryStore())

	result, err := svc.Create(context.Background(), domain.CreateInvoiceRequest{
		ExternalUserID: user.ExternalID.String(),
		Items:          []domain.ItemInput{itemInput("10.00"), itemInput("5.50")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if result.Invoice == nil {
		t.Fatalf("expected invoice shape, got items shape")
	}
	if result.Invoice.Status != domain.StatusDraft {
		t.Fatalf("status = %s, want draft", result.Invoice.Status)
	}
	if len(result.Invoice.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(result.Invoice.Items))
	}
	if got := countRows(t, db, "invoices"); got != 1 {
		t.Fatalf("invoices = %d, want 1", got)
	}
	if got := countRows(t, db, "invoice_items"); got != 2 {
		t.Fatalf("invoice_items = %d, want 2", got)
	}
}

func TestCreateInvoiceAppendsToExistingDraft(t *testing.T) {
	svc, db, user := setupInvoiceService(t, cache.NewMemoryStore())
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ExternalUserID: user.ExternalID.String(),
		Items:          []domain.ItemInput{itemInput("10.00")},
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}

	second, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ExternalUserID: user.ExternalID.String(),
		Items:          []domain.ItemInput{itemInput("2.00")},
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if second.Invoice != nil {
		t.Fatalf("expected items shape for append, got a new invoice")
	}
	if len(second.Items) != 1 {
		t.Fatalf("appended items = %d, want 1", len(second.Items))
	}
	if second.Items[0].InvoiceID != first.Invoice.ID {
		t.Fatalf("appended to %s, want %s", second.Items[0].InvoiceID, first.Invoice.ID)
	}
	if got := countRows(t, db, "invoices"); got != 1 {
		t.Fatalf("invoices = %d, want 1", got)
	}
}

func TestCreateInvoiceIdempotentReplay(t *testing.T) {
	svc, db, user := setupInvoiceService(t, cache.NewMemoryStore())
	ctx := context.Background()

	req := domain.CreateInvoiceRequest{
		ExternalUserID: user.ExternalID.String(),
		Items:          []domain.ItemInput{itemInput("10.00")},
		IdempotencyKey: "req-1",
	}

	first, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("create replay: %v", err)
	}

	if second.Invoice == nil || second.Invoice.ID != first.Invoice.ID {
		t.Fatalf("replay did not return cached response")
	}
	if got := countRows(t, db, "invoice_items"); got != 1 {
		t.Fatalf("invoice_items = %d, want 1 (replay must not write)", got)
	}
}

func TestCreateInvoiceCacheReadFailureFailsRequest(t *testing.T) {
	store := &failingStore{getErr: errors.New("connection refused"), inner: cache.NewMemoryStore()}
	svc, db, user := setupInvoiceService(t, store)

	_, err := svc.Create(context.Background(), domain.CreateInvoiceRequest{
		ExternalUserID: user.ExternalID.String(),
		Items:          []domain.ItemInput{itemInput("10.00")},
		IdempotencyKey: "req-1",
	})
	if !errors.Is(err, domain.ErrCacheRead) {
		t.Fatalf("err = %v, want ErrCacheRead", err)
	}
	if got := countRows(t, db, "invoices"); got != 0 {
		t.Fatalf("invoices = %d, want 0", got)
	}
}

func TestCreateInvoiceCacheWriteFailureStillSucceeds(t *testing.T) {
	store := &failingStore{setErr: errors.New("connection refused"), inner: cache.NewMemoryStore()}
	svc, db, user := setupInvoiceService(t, store)

	result, err := svc.Create(context.Background(), domain.CreateInvoiceRequest{
		ExternalUserID: user.ExternalID.String(),
		Items:          []domain.ItemInput{itemInput("10.00")},
		IdempotencyKey: "req-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if result.Invoice == nil {
		t.Fatalf("expected invoice shape")
	}
	if got := countRows(t, db, "invoices"); got != 1 {
		t.Fatalf("invoices = %d, want 1", got)
	}
}

func TestCreateInvoiceWithoutKeySkipsCache(t *testing.T) {
	store := &failingStore{getErr: errors.New("connection refused"), inner: cache.NewMemoryStore()}
	svc, _, user := setupInvoiceService(t, store)

	_, err := svc.Create(context.Background(), domain.CreateInvoiceRequest{
		ExternalUserID: user.ExternalID.String(),
		Items:          []domain.ItemInput{itemInput("10.00")},
	})
	if err != nil {
		t.Fatalf("create without key should not touch the cache: %v", err)
	}
}

func TestCreateInvoiceInvalidUserID(t *testing.T) {
	svc, _, _ := setupInvoiceService(t, cache.NewMemoryStore())

	_, err := svc.Create(context.Background(), domain.CreateInvoiceRequest{
		ExternalUserID: "not-a-uuid",
		Items:          []domain.ItemInput{itemInput("10.00")},
	})
	if !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("err = %v, want ErrInvalidID", err)
	}
}

func TestCreateInvoiceNegativeAmount(t *testing.T) {
	svc, _, user := setupInvoiceService(t, cache.NewMemoryStore())

	_, err := svc.Create(context.Background(), domain.CreateInvoiceRequest{
		ExternalUserID: user.ExternalID.String(),
		Items:          []domain.ItemInput{itemInput("-1.00")},
	})
	if !errors.Is(err, domain.ErrInvalidItem) {
		t.Fatalf("err = %v, want ErrInvalidItem", err)
	}
}

func TestUpdateStatusValidTransition(t *testing.T) {
	svc, _, user := setupInvoiceService(t, cache.NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ExternalUserID: user.ExternalID.String(),
		Items:          []domain.ItemInput{itemInput("10.00")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		InvoiceID: created.Invoice.ID.String(),
		Status:    "pending",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.StatusPending {
		t.Fatalf("status = %s, want pending", updated.Status)
	}

	got, err := svc.GetByID(ctx, created.Invoice.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.StatusPending {
		t.Fatalf("persisted status = %s, want pending", got.Status)
	}
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	svc, _, user := setupInvoiceService(t, cache.NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ExternalUserID: user.ExternalID.String(),
		Items:          []domain.ItemInput{itemInput("10.00")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		InvoiceID: created.Invoice.ID.String(),
		Status:    "paid",
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateStatusUnknownInput(t *testing.T) {
	svc, _, user := setupInvoiceService(t, cache.NewMemoryStore())
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateInvoiceRequest{
		ExternalUserID: user.ExternalID.String(),
		Items:          []domain.ItemInput{itemInput("10.00")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.UpdateStatus(ctx, domain.UpdateStatusRequest{
		InvoiceID: created.Invoice.ID.String(),
		Status:    "garbage",
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, _, _ := setupInvoiceService(t, cache.NewMemoryStore())

	_, err := svc.UpdateStatus(context.Background(), domain.UpdateStatusRequest{
		InvoiceID: uuid.NewString(),
		Status:    "pending",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListChargeableReturnsPendingOldestFirst(t *testing.T) {
	svc, db, user := setupInvoiceService(t, cache.NewMemoryStore())
	ctx := context.Background()

	older := uuid.New()
	newer := uuid.New()
	now := time.Now().UTC()
	for _, row := range []struct {
		id        uuid.UUID
		status    string
		createdAt time.Time
	}{
		{older, "pending", now.Add(-2 * time.Hour)},
		{newer, "pending", now.Add(-1 * time.Hour)},
		{uuid.New(), "draft", now},
		{uuid.New(), "paid", now},
	} {
		err := db.Exec(
			`INSERT INTO invoices (id, user_id, status, created_at) VALUES (?, ?, ?, ?)`,
			row.id, user.ID, row.status, row.createdAt,
		).Error
		if err != nil {
			t.Fatalf("seed invoice: %v", err)
		}
	}

	chargeable, err := svc.ListChargeable(ctx, 10)
	if err != nil {
		t.Fatalf("list chargeable: %v", err)
	}
	if len(chargeable) != 2 {
		t.Fatalf("chargeable = %d, want 2", len(chargeable))
	}
	if chargeable[0].ID != older || chargeable[1].ID != newer {
		t.Fatalf("chargeable not ordered oldest first")
	}
}
