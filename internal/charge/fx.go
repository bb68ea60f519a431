package charge

import (
	"github.com/paylane/billing/internal/charge/repository"
	"github.com/paylane/billing/internal/charge/service"
	"go.uber.org/fx"
)

var Module = fx.Module("charge.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(service.NewSettler),
)
