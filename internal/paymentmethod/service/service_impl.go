package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	gatewaydomain "github.com/paylane/billing/internal/gateway/domain"
	"github.com/paylane/billing/internal/paymentmethod/domain"
	userdomain "github.com/paylane/billing/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Repo         domain.Repository
	Integrations domain.IntegrationRepository
	UserSvc      userdomain.Service
	GatewaySvc   gatewaydomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	repo         domain.Repository
	integrations domain.IntegrationRepository
	userSvc      userdomain.Service
	gatewaySvc   gatewaydomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("paymentmethod.service"),
		repo:         p.Repo,
		integrations: p.Integrations,
		userSvc:      p.UserSvc,
		gatewaySvc:   p.GatewaySvc,
	}
}

// Create registers a payment method for the user and links it to the active
// gateway through a new integration record.
func (s *Service) Create(ctx context.Context, req domain.CreatePaymentMethodRequest) (domain.PaymentMethod, error) {
	externalID, err := uuid.Parse(strings.TrimSpace(req.ExternalUserID))
	if err != nil {
		return domain.PaymentMethod{}, domain.ErrInvalidID
	}
	method := domain.ParseMethod(strings.TrimSpace(req.Method))
	if method == domain.MethodUnknown {
		return domain.PaymentMethod{}, domain.ErrUnknownMethod
	}

	user, err := s.userSvc.GetByExternalID(ctx, externalID)
	if err != nil {
		return domain.PaymentMethod{}, err
	}

	gateway, provider, err := s.gatewaySvc.Active(ctx)
	if err != nil {
		return domain.PaymentMethod{}, err
	}

	// Provision on the gateway side before touching storage so a provider
	// failure cannot leave a method row behind with no integration.
	gatewayUserID, err := provider.CreateCustomer(ctx, "billing-user-"+user.ID.String(), "")
	if err != nil {
		return domain.PaymentMethod{}, err
	}
	gatewayMethodID, err := provider.CreatePaymentMethod(ctx, string(method))
	if err != nil {
		return domain.PaymentMethod{}, err
	}

	paymentMethod := domain.PaymentMethod{
		ID:        uuid.New(),
		UserID:    user.ID,
		IsDefault: req.IsDefault,
		Method:    method,
		Info:      req.Info,
		CreatedAt: time.Now().UTC(),
	}
	integration := domain.GatewayIntegration{
		ID:                             uuid.New(),
		GatewayID:                      gateway.ID,
		UserID:                         user.ID,
		PaymentMethodID:                &paymentMethod.ID,
		GatewayExternalUserID:          gatewayUserID,
		GatewayExternalPaymentMethodID: &gatewayMethodID,
		CreatedAt:                      time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &paymentMethod); err != nil {
			s.log.Error("failed to insert payment method", zap.Error(err), zap.String("user_id", user.ID.String()))
			return err
		}
		if err := s.integrations.Insert(ctx, tx, &integration); err != nil {
			// Conflict is surfaced as-is so callers can distinguish a
			// duplicate (user, gateway) pair from an infrastructure failure.
			s.log.Error("failed to insert gateway integration",
				zap.Error(err),
				zap.String("user_id", user.ID.String()),
				zap.String("gateway_id", gateway.ID.String()),
			)
			return err
		}
		return nil
	})
	if err != nil {
		return domain.PaymentMethod{}, err
	}

	return paymentMethod, nil
}

func (s *Service) GetDefaultByUser(ctx context.Context, userID uuid.UUID) (domain.PaymentMethod, error) {
	method, err := s.repo.FindDefaultByUser(ctx, s.db, userID)
	if err != nil {
		return domain.PaymentMethod{}, err
	}
	if method == nil {
		return domain.PaymentMethod{}, domain.ErrNoDefaultMethod
	}
	return *method, nil
}

func (s *Service) IntegrationForUser(ctx context.Context, userID uuid.UUID) (domain.GatewayIntegration, error) {
	integration, err := s.integrations.FindByUser(ctx, s.db, userID)
	if err != nil {
		return domain.GatewayIntegration{}, err
	}
	if integration == nil {
		return domain.GatewayIntegration{}, domain.ErrNoIntegration
	}
	return *integration, nil
}
