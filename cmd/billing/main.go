package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/paylane/billing/internal/cache"
	"github.com/paylane/billing/internal/charge"
	"github.com/paylane/billing/internal/config"
	"github.com/paylane/billing/internal/events"
	"github.com/paylane/billing/internal/gateway"
	"github.com/paylane/billing/internal/invoice"
	"github.com/paylane/billing/internal/logger"
	"github.com/paylane/billing/internal/migration"
	"github.com/paylane/billing/internal/paymentmethod"
	"github.com/paylane/billing/internal/scheduler"
	"github.com/paylane/billing/internal/server"
	"github.com/paylane/billing/internal/user"
	"github.com/paylane/billing/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		cache.Module,
		migration.Module,

		events.Module,
		user.Module,
		invoice.Module,
		gateway.Module,
		paymentmethod.Module,
		charge.Module,
		scheduler.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
