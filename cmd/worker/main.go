package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/restaurant-ordering-api/internal/app/api"
	cartcatalog "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/adapters/catalog"
	cartapp "github.com/Apurer/restaurant-ordering-api/internal/domains/cart/application"
	catalogapp "github.com/Apurer/restaurant-ordering-api/internal/domains/catalog/application"
	"github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/checkout"
	orderevents "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/events"
	orderobs "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/adapters/observability"
	orderapp "github.com/Apurer/restaurant-ordering-api/internal/domains/orders/application"
	platformobservability "github.com/Apurer/restaurant-ordering-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/restaurant-ordering-api/internal/platform/postgres"
	orderactivities "github.com/Apurer/restaurant-ordering-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/restaurant-ordering-api/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "restaurant-ordering-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
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
	if db == nil {
		logger.Error("worker requires POSTGRES_DSN; the API runs order commands inline without it")
		return
	}
	repos := api.BuildRepositories(db)

	carts := cartapp.NewService(repos.Carts, cartcatalog.NewLookup(catalogapp.NewService(repos.Catalog)))
	orderService := orderobs.New(
		orderapp.NewService(repos.Orders, checkout.NewCart(carts),
			orderapp.WithIdempotencyStore(repos.Idempotency),
			orderapp.WithEventPublisher(orderevents.NewLogPublisher(logger)),
		),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	activities := orderactivities.NewActivities(orderService, api.BuildDeliveryDispatcher(cfg, logger))

	cfg.TemporalDisabled = false
	temporalClient, err := api.ConnectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderProcessingTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.SubmissionWorkflow, workflow.RegisterOptions{Name: orderworkflows.SubmissionWorkflowName})
	w.RegisterWorkflowWithOptions(orderworkflows.ResolutionWorkflow, workflow.RegisterOptions{Name: orderworkflows.ResolutionWorkflowName})
	w.RegisterActivityWithOptions(activities.SubmitOrder, activity.RegisterOptions{Name: orderactivities.SubmitOrderActivityName})
	w.RegisterActivityWithOptions(activities.ResolveOrder, activity.RegisterOptions{Name: orderactivities.ResolveOrderActivityName})
	w.RegisterActivityWithOptions(activities.DispatchDelivery, activity.RegisterOptions{Name: orderactivities.DispatchDeliveryActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderProcessingTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
