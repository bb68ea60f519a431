package service

import (
	"context"

	"github.com/paylane/billing/internal/gateway/adapters"
	"github.com/paylane/billing/internal/gateway/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Repo     domain.Repository
	Registry *adapters.Registry
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	registry *adapters.Registry
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("gateway.service"),
		repo:     p.Repo,
		registry: p.Registry,
	}
}

// Active returns the highest-priority catalog gateway and its adapter.
func (s *Service) Active(ctx context.Context) (domain.Gateway, domain.Provider, error) {
	gateways, err := s.repo.ListByPriority(ctx, s.db)
	if err != nil {
		s.log.Error("failed to list gateways", zap.Error(err))
		return domain.Gateway{}, nil, err
	}
	if len(gateways) == 0 {
		return domain.Gateway{}, nil, domain.ErrNoGateway
	}
	active := gateways[0]
	provider, err := s.ProviderFor(active)
	if err != nil {
		return domain.Gateway{}, nil, err
	}
	return active, provider, nil
}

func (s *Service) ProviderFor(gateway domain.Gateway) (domain.Provider, error) {
	provider, err := s.registry.Provider(gateway.Name)
	if err != nil {
		return nil, err
	}
	return provider.WithID(gateway.ID), nil
}
