package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/wifight/wifight/internal/adapter/cache"
	paymentgw "github.com/wifight/wifight/internal/adapter/external/payment"
	"github.com/wifight/wifight/internal/adapter/external/social"
	"github.com/wifight/wifight/internal/adapter/http/fiber/handlers"
	"github.com/wifight/wifight/internal/adapter/http/fiber/middleware"
	"github.com/wifight/wifight/internal/adapter/omada"
	"github.com/wifight/wifight/internal/adapter/queue"
	"github.com/wifight/wifight/internal/adapter/secrets"
	"github.com/wifight/wifight/internal/adapter/storage/postgres"
	"github.com/wifight/wifight/internal/domain"
	"github.com/wifight/wifight/internal/ports"
	"github.com/wifight/wifight/internal/service/auth"
	"github.com/wifight/wifight/internal/service/controller"
	"github.com/wifight/wifight/internal/service/payment"
	"github.com/wifight/wifight/internal/service/plan"
	"github.com/wifight/wifight/internal/service/portal"
	"github.com/wifight/wifight/internal/service/session"
	"github.com/wifight/wifight/internal/service/voucher"
	"github.com/wifight/wifight/pkg/config"
)

const serviceName = "wifight"

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Logging.Format == "console" {
		if dev, derr := zap.NewDevelopment(); derr == nil {
			logger = dev
		}
	}

	logger.Info("Starting WiFight",
		zap.String("service", serviceName),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// 4. Initialize Cache (Redis, or in-process when unconfigured)
	var cacheStore ports.Cache
	if cfg.Redis.URL != "" {
		cacheStore, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
	} else {
		logger.Warn("Redis not configured, using in-process cache")
		cacheStore = cache.NewLocalCache()
	}
	defer cacheStore.Close()

	// 5. Initialize Message Queue (NATS, or no-op when unconfigured)
	var messageQueue queue.MessageQueue
	if cfg.NATS.URL != "" {
		messageQueue, err = queue.NewNATSQueue(cfg.NATS.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
	} else {
		logger.Warn("NATS not configured, events will be discarded")
		messageQueue = queue.NewNoopQueue()
	}
	defer messageQueue.Close()

	// 6. Initialize Repositories
	voucherRepo := postgres.NewVoucherRepository(db, logger)
	sessionRepo := postgres.NewSessionRepository(db, logger)
	planRepo := postgres.NewPlanRepository(db, logger)
	controllerRepo := postgres.NewControllerRepository(db, logger)
	paymentRepo := postgres.NewPaymentRepository(db, logger)
	userRepo := postgres.NewUserRepository(db, logger)

	// 7. Initialize Gateways and External Adapters
	codec := secrets.NewBase64Codec()
	gatewayFactory := omada.NewFactory(cfg.Controller, codec, logger)
	socialVerifier := social.NewHTTPVerifier(logger)
	stripeGateway := paymentgw.NewStripeGateway(cfg.Payment.Stripe.SecretKey, logger)

	// 8. Initialize Services (Business Logic Layer)
	authService := auth.NewService(userRepo, cfg.JWT, logger)
	planService := plan.NewService(planRepo, voucherRepo, sessionRepo, logger)
	controllerService := controller.NewService(controllerRepo, gatewayFactory, codec, logger)
	generator := voucher.NewGenerator(voucherRepo, cfg.Voucher.CodeAttempts)
	voucherService := voucher.NewService(voucherRepo, planRepo, generator, cacheStore, messageQueue, cfg.Voucher, logger)
	sessionService := session.NewService(sessionRepo, controllerRepo, voucherRepo, planRepo, gatewayFactory, messageQueue, cfg.Session, logger)
	portalService := portal.NewService(sessionService, voucherService, planRepo, controllerRepo, socialVerifier, cfg.Portal, logger)
	paymentService := payment.NewService(paymentRepo, planRepo, voucherService, stripeGateway, messageQueue, logger)

	// 9. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}

	// Health Check Endpoints
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		if err := sqlDB.Ping(); err != nil {
			return c.Status(503).SendString("Database not ready")
		}
		if err := cacheStore.Ping(); err != nil {
			return c.Status(503).SendString("Cache not ready")
		}
		return c.SendString("Ready")
	})

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		metricsPath := cfg.Prometheus.Path
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(metricsPath, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	// API v1 Routes
	v1 := app.Group("/api/v1")

	// Auth routes (public)
	authHandler := handlers.NewAuthHandler(authService, logger)
	v1.Post("/auth/login", authHandler.Login)
	v1.Post("/auth/register", authHandler.Register)

	// Portal routes (public, used by the captive portal splash page)
	portalHandler := handlers.NewPortalHandler(portalService, logger)
	v1.Post("/portal/free", portalHandler.Free)
	v1.Post("/portal/social", portalHandler.Social)
	v1.Post("/portal/voucher", portalHandler.Voucher)

	// Payment routes (public, guests pay before they hold an account)
	paymentHandler := handlers.NewPaymentHandler(paymentService, cfg.Payment.Currency, logger)
	v1.Post("/payments", paymentHandler.Create)
	v1.Post("/payments/complete", paymentHandler.Complete)

	// Protected routes
	protected := v1.Group("", middleware.AuthRequired(authService))
	adminOnly := middleware.RequireRole(domain.UserRoleAdmin)

	// Voucher routes
	voucherHandler := handlers.NewVoucherHandler(voucherService, logger)
	protected.Post("/vouchers/generate", voucherHandler.Generate)
	protected.Get("/vouchers", voucherHandler.List)
	protected.Get("/vouchers/stats", voucherHandler.Stats)
	protected.Get("/vouchers/:code", voucherHandler.Validate)
	protected.Post("/vouchers/:code/redeem", voucherHandler.Redeem)
	protected.Post("/vouchers/expire", adminOnly, voucherHandler.ExpireOld)

	// Session routes
	sessionHandler := handlers.NewSessionHandler(sessionService, logger)
	protected.Post("/sessions", sessionHandler.Create)
	protected.Get("/sessions/active", sessionHandler.Active)
	protected.Get("/sessions/history", sessionHandler.History)
	protected.Get("/sessions/stats", sessionHandler.Stats)
	protected.Get("/sessions/:id", sessionHandler.Get)
	protected.Post("/sessions/:id/terminate", sessionHandler.Terminate)
	protected.Patch("/sessions/:id/usage", sessionHandler.UpdateUsage)
	protected.Post("/sessions/mac/:mac/terminate", sessionHandler.TerminateByMAC)

	// Plan routes
	planHandler := handlers.NewPlanHandler(planService, logger)
	protected.Post("/plans", planHandler.Create)
	protected.Get("/plans", planHandler.List)
	protected.Get("/plans/:id", planHandler.Get)
	protected.Delete("/plans/:id", adminOnly, planHandler.Delete)

	// Controller routes
	controllerHandler := handlers.NewControllerHandler(controllerService, logger)
	protected.Post("/controllers", controllerHandler.Register)
	protected.Get("/controllers", controllerHandler.List)
	protected.Get("/controllers/:id", controllerHandler.Get)
	protected.Post("/controllers/:id/test", controllerHandler.TestConnection)
	protected.Get("/controllers/:id/clients", controllerHandler.Clients)
	protected.Get("/controllers/:id/access-points", controllerHandler.AccessPoints)
	protected.Get("/controllers/:id/statistics", controllerHandler.Statistics)
	protected.Delete("/controllers/:id", adminOnly, controllerHandler.Delete)

	// Payment admin routes
	protected.Get("/payments/:id", paymentHandler.Get)
	protected.Post("/payments/:id/refund", adminOnly, paymentHandler.Refund)

	// 10. Start Background Sweepers
	sweepCtx, stopSweepers := context.WithCancel(context.Background())
	defer stopSweepers()
	go startSweepers(sweepCtx, cfg.Jobs, voucherService, sessionService, logger)

	// 11. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 12. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopSweepers()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// startSweepers runs the periodic maintenance jobs: voucher expiry, stale
// session cleanup, and terminated session purge. Each job runs on its own
// ticker and logs its outcome; a failing sweep is retried on the next tick.
func startSweepers(ctx context.Context, jobs config.JobsConfig, vouchers ports.VoucherService, sessions ports.SessionService, logger *zap.Logger) {
	run := func(name string, schedule config.JobSchedule, fn func(context.Context) (int64, error)) {
		if !schedule.Enabled || schedule.Interval <= 0 {
			logger.Info("Sweeper disabled", zap.String("job", name))
			return
		}
		go func() {
			ticker := time.NewTicker(schedule.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					n, err := fn(ctx)
					if err != nil {
						logger.Error("Sweep failed", zap.String("job", name), zap.Error(err))
						continue
					}
					if n > 0 {
						logger.Info("Sweep completed", zap.String("job", name), zap.Int64("affected", n))
					}
				}
			}
		}()
	}

	run("voucher_expiry", jobs.VoucherExpiry, vouchers.ExpireOld)
	run("session_cleanup", jobs.SessionCleanup, sessions.CleanupExpired)
	run("session_purge", jobs.SessionPurge, sessions.PurgeTerminated)
}
