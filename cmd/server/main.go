package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appintegration "github.com/siparisbot/backend/internal/application/integration"
	appmessaging "github.com/siparisbot/backend/internal/application/messaging"
	apppayment "github.com/siparisbot/backend/internal/application/payment"
	"github.com/siparisbot/backend/internal/domain/integration"
	"github.com/siparisbot/backend/internal/domain/shared"
	"github.com/siparisbot/backend/internal/infrastructure/ai"
	"github.com/siparisbot/backend/internal/infrastructure/auth"
	"github.com/siparisbot/backend/internal/infrastructure/cache"
	"github.com/siparisbot/backend/internal/infrastructure/config"
	"github.com/siparisbot/backend/internal/infrastructure/ecommerce"
	"github.com/siparisbot/backend/internal/infrastructure/logger"
	whatsapp "github.com/siparisbot/backend/internal/infrastructure/messaging"
	"github.com/siparisbot/backend/internal/infrastructure/payment"
	"github.com/siparisbot/backend/internal/infrastructure/persistence"
	"github.com/siparisbot/backend/internal/infrastructure/providerhttp"
	"github.com/siparisbot/backend/internal/infrastructure/ratelimit"
	"github.com/siparisbot/backend/internal/infrastructure/telemetry"
	"github.com/siparisbot/backend/internal/interfaces/http/handler"
	"github.com/siparisbot/backend/internal/interfaces/http/middleware"
	"github.com/siparisbot/backend/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	ctx := context.Background()
	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
		Service:    cfg.Telemetry.ServiceName,
		Version:    version,
	}

	// The OTLP log provider needs a logger of its own before the teed one exists
	bootLog := logger.New(logCfg)
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}

	log := logger.New(logCfg, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		LoggerProvider: loggerProvider,
		Level:          logger.ParseLevel(cfg.Log.Level),
	}))
	defer logger.Sync(log)

	log.Info("Starting SiparisBot backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing and metrics
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	providerMetrics, err := telemetry.NewProviderMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create provider metrics", zap.Error(err))
	}

	// Every provider client shares one budget per provider name
	budgets := ratelimit.NewBudgetSet(ratelimit.BudgetConfig{
		RequestsPerSecond: cfg.Providers.RequestsPerSecond,
		Burst:             cfg.Providers.Burst,
		MaxConcurrent:     cfg.Providers.MaxConcurrent,
	}, nil)
	providerOpts := []providerhttp.Option{
		providerhttp.WithTimeout(cfg.Providers.Timeout),
		providerhttp.WithBudgetSet(budgets),
		providerhttp.WithRecorder(providerMetrics),
		providerhttp.WithLogger(log),
	}

	// Provider adapters
	marketplaces := ecommerce.NewDefaultAdapters(cfg.Credentials, cfg.Providers.FixturesEnabled, providerOpts...)
	registry := ecommerce.NewAdapterRegistry(marketplaces...)
	whatsappAdapter := whatsapp.NewWhatsAppAdapter(whatsapp.WhatsAppConfigFromCredentials(cfg.Credentials.WhatsApp), providerOpts...)
	openaiAdapter := ai.NewOpenAIAdapter(ai.OpenAIConfigFromCredentials(cfg.Credentials.OpenAI), providerOpts...)
	iyzicoAdapter := payment.NewIyzicoAdapter(payment.IyzicoConfigFromCredentials(cfg.Credentials.Iyzico), providerOpts...)

	// Order storage is optional; sync and analytics answer 503 without it
	checks := map[string]handler.HealthCheck{}
	var orders integration.OrderRepository
	if cfg.Database.Enabled {
		db, err := persistence.NewDatabase(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database connected successfully")

		orders = persistence.NewGormOrderRepository(db.DB)
		checks["database"] = func(context.Context) error { return db.Ping() }
	} else {
		log.Warn("Database disabled, order sync and analytics are unavailable")
	}

	// Webhook deduplication store
	deliveries, err := cache.NewDeliveryStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create delivery store", zap.Error(err))
	}
	defer deliveries.Close()

	// Application services
	integrationService := appintegration.NewService(appintegration.ServiceConfig{
		Registry: registry,
		Orders:   orders,
		Logger:   log,
		Metrics:  providerMetrics,
	})
	dedupe := shared.DefaultDedupeConfig()
	if cfg.Messaging.DedupeTTL > 0 {
		dedupe.TTL = cfg.Messaging.DedupeTTL
	}
	messagingService := appmessaging.NewService(appmessaging.ServiceConfig{
		WhatsApp:     whatsappAdapter,
		Responder:    openaiAdapter,
		Deliveries:   deliveries,
		Dedupe:       dedupe,
		AutoReply:    cfg.Messaging.AutoReplyEnabled,
		BusinessName: cfg.Messaging.BusinessName,
		Logger:       log,
		Metrics:      providerMetrics,
	})
	paymentService := apppayment.NewService(iyzicoAdapter, log)

	panel := newStatusPanel(whatsappAdapter, openaiAdapter, iyzicoAdapter, marketplaces)
	for _, s := range panel.Statuses() {
		if !s.Configured {
			log.Warn("Provider credentials incomplete",
				zap.String("provider", s.Name),
				zap.Strings("missing", s.Missing))
		}
	}

	// Tenant resolution
	defaultTenant, err := uuid.Parse(cfg.Auth.DefaultTenantID)
	if err != nil {
		log.Fatal("Invalid default tenant ID", zap.String("tenant_id", cfg.Auth.DefaultTenantID), zap.Error(err))
	}
	verifier := auth.NewTokenVerifier(cfg.Auth)
	if !verifier.Enabled() {
		log.Warn("Access token verification disabled, tenants come from X-Tenant-ID")
	}

	// HTTP engine
	engine, err := router.NewEngine(router.EngineConfig{
		Logger: log,
		HTTP:   cfg.HTTP,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
		Metrics: middleware.HTTPMetricsConfig{
			Meter:   meter,
			Enabled: cfg.Telemetry.MetricsEnabled,
		},
	})
	if err != nil {
		log.Fatal("Failed to create HTTP engine", zap.Error(err))
	}

	apiMiddleware := []gin.HandlerFunc{
		middleware.TenantAuth(middleware.TenantAuthConfig{
			Verifier:        verifier,
			DefaultTenantID: defaultTenant,
			Logger:          log,
		}),
		middleware.SpanAttributes(),
	}
	var webhookMiddleware []gin.HandlerFunc
	if cfg.HTTP.RateLimitEnabled {
		apiLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer apiLimiter.Stop()
		webhookLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer webhookLimiter.Stop()

		apiMiddleware = append(apiMiddleware, middleware.RateLimit(apiLimiter))
		webhookMiddleware = append(webhookMiddleware, middleware.RateLimit(webhookLimiter))
	}

	router.NewRouter(engine, router.WithAPIVersion("v1"), router.WithAPIMiddleware(apiMiddleware...)).
		RegisterPublic(handler.NewHealthHandler(cfg.App.Name, version, checks)).
		RegisterPublic(handler.NewWebhookHandler(messagingService), webhookMiddleware...).
		Register(handler.NewIntegrationHandler(integrationService, panel)).
		Register(handler.NewPaymentHandler(paymentService)).
		Register(handler.NewMessagingHandler(messagingService)).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush logs", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newStatusPanel lists the providers in the order the dashboard shows them
func newStatusPanel(wa, openai, iyzico integration.ConfigReporter, marketplaces []integration.MarketplaceAdapter) *appintegration.StatusPanel {
	docs := map[integration.PlatformCode]string{
		integration.PlatformCodeTrendyol:     appintegration.DocsTrendyol,
		integration.PlatformCodeShopify:      appintegration.DocsShopify,
		integration.PlatformCodeMetaCommerce: appintegration.DocsMetaCommerce,
		integration.PlatformCodeTikTokShop:   appintegration.DocsTikTokShop,
		integration.PlatformCodeAmazon:       appintegration.DocsAmazon,
		integration.PlatformCodeEbay:         appintegration.DocsEbay,
	}

	entries := []appintegration.StatusEntry{
		{Name: "WhatsApp Business", Docs: appintegration.DocsWhatsApp, Reporter: wa},
		{Name: "OpenAI", Docs: appintegration.DocsOpenAI, Reporter: openai},
	}
	for _, m := range marketplaces {
		entries = append(entries, appintegration.StatusEntry{
			Name:     m.Platform().DisplayName(),
			Docs:     docs[m.Platform()],
			Reporter: m,
		})
	}
	entries = append(entries, appintegration.StatusEntry{Name: "iyzico", Docs: appintegration.DocsIyzico, Reporter: iyzico})
	return appintegration.NewStatusPanel(entries...)
}
