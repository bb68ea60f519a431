package paymentmethod

import (
	"github.com/paylane/billing/internal/paymentmethod/repository"
	"github.com/paylane/billing/internal/paymentmethod/service"
	"go.uber.org/fx"
)

var Module = fx.Module("paymentmethod.service",
	fx.Provide(repository.Provide),
	fx.Provide(repository.ProvideIntegrations),
	fx.Provide(service.New),
)
