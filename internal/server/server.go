// Package server exposes the billing HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	chargedomain "github.com/paylane/billing/internal/charge/domain"
	"github.com/paylane/billing/internal/config"
	invoicedomain "github.com/paylane/billing/internal/invoice/domain"
	paymentmethoddomain "github.com/paylane/billing/internal/paymentmethod/domain"
	userdomain "github.com/paylane/billing/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(MetricsMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine           *gin.Engine
	cfg              config.Config
	log              *zap.Logger
	userSvc          userdomain.Service
	invoiceSvc       invoicedomain.Service
	paymentMethodSvc paymentmethoddomain.Service
	chargeSvc        chargedomain.Service
}

type ServerParams struct {
	fx.In

	Gin              *gin.Engine
	Cfg              config.Config
	Log              *zap.Logger
	UserSvc          userdomain.Service
	InvoiceSvc       invoicedomain.Service
	PaymentMethodSvc paymentmethoddomain.Service
	ChargeSvc        chargedomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:           p.Gin,
		cfg:              p.Cfg,
		log:              p.Log.Named("http.server"),
		userSvc:          p.UserSvc,
		invoiceSvc:       p.InvoiceSvc,
		paymentMethodSvc: p.PaymentMethodSvc,
		chargeSvc:        p.ChargeSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	s.engine.POST("/users", s.CreateUser)

	s.engine.POST("/invoices", s.CreateInvoice)
	s.engine.GET("/invoices/:user_id", s.ListInvoices)
	s.engine.PATCH("/invoices", s.UpdateInvoiceStatus)

	s.engine.POST("/payment_methods", s.CreatePaymentMethod)

	s.engine.POST("/charges", s.CreateCharge)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
