package gateway

import (
	"github.com/paylane/billing/internal/config"
	"github.com/paylane/billing/internal/gateway/adapters"
	"github.com/paylane/billing/internal/gateway/adapters/stripe"
	"github.com/paylane/billing/internal/gateway/domain"
	"github.com/paylane/billing/internal/gateway/repository"
	"github.com/paylane/billing/internal/gateway/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewRegistry(cfg config.Config, log *zap.Logger) *adapters.Registry {
	return adapters.NewRegistry(map[string]domain.Provider{
		stripe.Name: stripe.New(cfg.Gateway, log),
	})
}

var Module = fx.Module("gateway.service",
	fx.Provide(NewRegistry),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
