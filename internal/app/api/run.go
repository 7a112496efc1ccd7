package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	orderingserver "github.com/Apurer/restaurant-ordering-api/go"
	deliveryclient "github.com/Apurer/restaurant-ordering-api/internal/clients/http/delivery"
	cartcatalog "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/adapters/catalog"
	cartmemory "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/adapters/memory"
	cartobs "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/adapters/observability"
	cartpostgres "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/adapters/persistence/postgres"
	cartapp "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/application"
	cartports "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/ports"
	catalogmemory "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/ports"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/checkout"
	orderevents "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/events"
	orderdelivery "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/external/delivery"
	ordermemory "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/memory"
	orderobs "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/persistence/postgres"
	orderworkflows "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application"
	orderports "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/ports"
	staffmemory "github.com/Apurer/restaurant-ordering-api/internal/domains/staff/adapters/memory"
	stafftoken "github.com/Apurer/restaurant-ordering-api/internal/domains/staff/adapters/token"
	staffapp "github.com/Apurer/restaurant-ordering-api/internal/domains/staff/application"
	platformobservability "github.com/Apurer/restaurant-ordering-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/restaurant-ordering-api/internal/platform/postgres"
)

const serviceName = "restaurant-ordering-api"

// Run boots the ordering HTTP API with observability, repositories, and
// workflows wired. It returns when ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectDSN(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	repos := BuildRepositories(db)

	catalogService := catalogapp.NewService(repos.Catalog)
	cartService := cartobs.New(
		cartapp.NewService(repos.Carts, cartcatalog.NewLookup(catalogService)),
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)

	publisher, closePublisher := buildEventPublisher(cfg, logger)
	defer closePublisher()
	orderService := orderobs.New(
		orderapp.NewService(repos.Orders, checkout.NewCart(cartService),
			orderapp.WithIdempotencyStore(repos.Idempotency),
			orderapp.WithEventPublisher(publisher),
		),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	inlineOpts := []orderworkflows.InlineOption{orderworkflows.WithLogger(logger)}
	if dispatcher := BuildDeliveryDispatcher(cfg, logger); dispatcher != nil {
		inlineOpts = append(inlineOpts, orderworkflows.WithDeliveryDispatcher(dispatcher))
	}
	workflows, closeWorkflows := buildWorkflows(cfg, db, instruments,
		orderworkflows.NewInlineOrderWorkflows(orderService, inlineOpts...), logger)
	defer closeWorkflows()

	handlers := orderingserver.ApiHandleFunctions{
		CatalogAPI: orderingserver.NewCatalogAPI(catalogService),
		CartAPI:    orderingserver.NewCartAPI(cartService),
		OrderAPI:   orderingserver.NewOrderAPI(orderService, workflows),
		ConsoleAPI: orderingserver.NewConsoleAPI(orderService, cfg.ConsoleRefreshInterval),
	}
	if cfg.StaffAuthEnabled() {
		staffService, err := buildStaffService(ctx, cfg)
		if err != nil {
			return err
		}
		handlers.StaffAPI = orderingserver.NewStaffAPI(staffService)
		handlers.StaffGuard = orderingserver.RequireStaff(staffService)
	} else {
		logger.Warn("STAFF_TOKEN_SECRET not set, staff console routes are open")
	}

	purgeCtx, stopPurge := context.WithCancel(ctx)
	defer stopPurge()
	go runCartPurger(purgeCtx, cartService, cfg, logger)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(serviceName),
		cors.New(corsConfig(cfg)),
	)
	router.GET("/metrics", gin.WrapH(instruments.MetricsHandler))
	router = orderingserver.NewRouterWithGinEngine(router, handlers)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("ordering API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ordering API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("ordering API shutting down")
		return server.Shutdown(shutdownCtx)
	}
}

func corsConfig(cfg Config) cors.Config {
	config := cors.Config{
		AllowOrigins:  cfg.CORSAllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", orderingserver.IdempotencyKeyHeader},
		ExposeHeaders: []string{"Content-Length", "Location"},
		MaxAge:        12 * time.Hour,
	}
	// "*" or an empty list opens the API to every origin.
	if len(config.AllowOrigins) == 0 || (len(config.AllowOrigins) == 1 && config.AllowOrigins[0] == "*") {
		config.AllowOrigins = nil
		config.AllowAllOrigins = true
	}
	return config
}

// Repositories bundles the storage adapters for every bounded context.
type Repositories struct {
	Catalog     catalogports.Repository
	Carts       cartports.Repository
	Orders      orderports.Repository
	Idempotency orderports.IdempotencyStore
}

// BuildRepositories returns PostgreSQL adapters when db is set and in-memory
// ones otherwise.
func BuildRepositories(db *gorm.DB) Repositories {
	if db == nil {
		return Repositories{
			Catalog:     catalogmemory.NewRepository(),
			Carts:       cartmemory.NewRepository(),
			Orders:      ordermemory.NewRepository(),
			Idempotency: ordermemory.NewIdempotencyStore(),
		}
	}
	return Repositories{
		Catalog:     catalogpostgres.NewRepository(db),
		Carts:       cartpostgres.NewRepository(db),
		Orders:      orderpostgres.NewRepository(db),
		Idempotency: orderpostgres.NewIdempotencyStore(db),
	}
}

// BuildDeliveryDispatcher returns nil when no delivery partner is configured.
func BuildDeliveryDispatcher(cfg Config, logger *slog.Logger) orderports.DeliveryDispatcher {
	if cfg.DeliveryPartnerURL == "" {
		return nil
	}
	c, err := deliveryclient.NewClient(cfg.DeliveryPartnerURL, nil)
	if err != nil {
		logger.Warn("delivery partner disabled", slog.String("error", err.Error()))
		return nil
	}
	logger.Info("delivery partner configured", slog.String("url", cfg.DeliveryPartnerURL))
	return orderdelivery.NewDispatcher(c)
}

func buildEventPublisher(cfg Config, logger *slog.Logger) (orderports.EventPublisher, func()) {
	switch cfg.EventsBackend {
	case EventsBackendKafka:
		publisher := orderevents.NewKafkaPublisher(orderevents.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic), cfg.KafkaTopic, logger)
		logger.Info("order events published to kafka", slog.String("topic", cfg.KafkaTopic))
		return publisher, func() { _ = publisher.Close() }
	case EventsBackendRabbitMQ:
		publisher, err := orderevents.DialRabbitMQ(cfg.RabbitMQURL, cfg.RabbitMQExchange, logger)
		if err != nil {
			logger.Warn("failed to connect to rabbitmq, logging order events instead", slog.String("error", err.Error()))
			return orderevents.NewLogPublisher(logger), func() {}
		}
		logger.Info("order events published to rabbitmq", slog.String("exchange", cfg.RabbitMQExchange))
		return publisher, func() { _ = publisher.Close() }
	default:
		return orderevents.NewLogPublisher(logger), func() {}
	}
}

func buildStaffService(ctx context.Context, cfg Config) (*staffapp.Service, error) {
	issuer, err := stafftoken.NewJWTIssuer(cfg.StaffTokenSecret, cfg.StaffTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("configure staff tokens: %w", err)
	}
	service := staffapp.NewService(staffmemory.NewRepository(), issuer)
	if _, err := service.Register(ctx, cfg.StaffUsername, cfg.StaffPassword); err != nil {
		return nil, fmt.Errorf("seed staff account: %w", err)
	}
	return service, nil
}

func runCartPurger(ctx context.Context, carts cartports.Service, cfg Config, logger *slog.Logger) {
	ticker := time.NewTicker(cfg.CartPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := carts.PurgeStale(ctx, cfg.CartTTL); err != nil && ctx.Err() == nil {
				logger.Warn("cart purge failed", slog.String("error", err.Error()))
			}
		}
	}
}

// buildWorkflows picks Temporal when it is reachable and orders live in
// PostgreSQL. The worker process keeps its own repositories, so with in-memory
// storage it would never see the carts this process holds.
func buildWorkflows(cfg Config, db *gorm.DB, instruments *platformobservability.Instruments, inline orderports.WorkflowOrchestrator, logger *slog.Logger) (orderports.WorkflowOrchestrator, func()) {
	if db == nil {
		logger.Warn("Temporal workflows require POSTGRES_DSN, running order commands inline")
		return inline, func() {}
	}
	temporalClient, err := ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running order commands inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return orderworkflows.NewTemporalOrderWorkflows(temporalClient), temporalClient.Close
}

// ConnectTemporalClient dials Temporal with tracing and structured logging.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}
