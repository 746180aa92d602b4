package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ecom-labs/storefront/internal/api"
	"github.com/ecom-labs/storefront/internal/cache"
	"github.com/ecom-labs/storefront/internal/config"
	"github.com/ecom-labs/storefront/internal/dashboard"
	"github.com/ecom-labs/storefront/internal/logger"
	"github.com/ecom-labs/storefront/internal/model"
	"github.com/ecom-labs/storefront/internal/realtime"
	"github.com/ecom-labs/storefront/internal/session"
	"github.com/ecom-labs/storefront/internal/storage"
	"github.com/ecom-labs/storefront/internal/timeline"
	"github.com/ecom-labs/storefront/internal/tracking"
)

func main() {
	var (
		email         = flag.String("email", "", "log in with this email")
		password      = flag.String("password", "", "password for -email")
		orderID       = flag.String("order", "", "track this order until interrupted")
		showDashboard = flag.Bool("dashboard", false, "print the seller dashboard summary")
		logout        = flag.Bool("logout", false, "clear the stored session and exit")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	log := logger.New(cfg.Verbose)
	defer func() { _ = log.Sync() }()

	store := storage.NewFileStore(cfg.StorePath)
	orderCache := cache.NewOrderCache()

	// The 401 hook closes over the session store, which in turn needs
	// the client; the variable is bound before any request can fire.
	var sess *session.Store
	client := api.NewClient(cfg.APIBaseURL, api.StoreTokenSource{Store: store}, log,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithUnauthorizedHandler(func() {
			if sess != nil {
				sess.Logout()
			}
			log.Info("session expired, returning to login")
		}))

	conn, connCleanup := buildConnection(ctx, cfg, orderCache, log)
	defer connCleanup()

	var opts []session.Option
	if cfg.DemoMode {
		opts = append(opts, session.WithDemoMode())
	}
	sess = session.New(client, store, conn, log, opts...)

	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, log)
	}

	if *logout {
		sess.Logout()
		fmt.Println("session cleared")
		return
	}

	if *email != "" {
		if _, err := sess.Login(ctx, model.Credentials{Email: *email, Password: *password}); err != nil {
			fmt.Printf("login failed: %s\n", sess.State().Err)
			return
		}
		fmt.Printf("logged in as %s\n", sess.State().User.Email)
	} else if state := sess.State(); state.Authenticated {
		fmt.Printf("using stored session for %s\n", state.User.Email)
	}

	if *showDashboard {
		svc := dashboard.NewService(client, orderCache, log)
		summary, err := svc.Load(ctx)
		if err != nil {
			log.Error("failed to load dashboard", zap.Error(err))
			return
		}
		printDashboard(summary)
	}

	if *orderID != "" {
		trackOrder(ctx, *orderID, client, orderCache, cfg.PollInterval, log)
	}
}

func buildConnection(ctx context.Context, cfg *config.Config, orderCache *cache.OrderCache, log *zap.Logger) (session.Connection, func()) {
	if cfg.KafkaBrokers == "" {
		return realtime.NoopConnection{}, func() {}
	}

	conn := realtime.NewKafkaConnection(
		strings.Split(cfg.KafkaBrokers, ","),
		cfg.OrderEventsTopic,
		"storefront-client",
		func(_ context.Context, event realtime.OrderEvent) {
			// Drop the stale copy; the next refresh re-fetches it.
			orderCache.Delete(event.OrderID)
			log.Info("order updated",
				zap.String("order_id", event.OrderID),
				zap.String("status", string(event.Status)))
		},
		log)
	go conn.Run(ctx)
	return conn, func() { _ = conn.Disconnect() }
}

func serveMetrics(addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info("metrics listener started", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn("metrics listener stopped", zap.Error(err))
	}
}

func trackOrder(ctx context.Context, orderID string, client *api.Client, orderCache *cache.OrderCache, interval time.Duration, log *zap.Logger) {
	ctrl := tracking.NewController(orderID, client, orderCache, interval, log)
	ctrl.Start(ctx)
	defer ctrl.Close()

	printSnapshot(ctrl.Snapshot())

	ticker := time.NewTicker(5 * interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			printSnapshot(ctrl.Snapshot())
		case <-ctx.Done():
			return
		}
	}
}

func printSnapshot(snap tracking.Snapshot) {
	if snap.LastErr != nil {
		fmt.Printf("refresh failed: %v (showing last known state)\n", snap.LastErr)
	}
	if snap.Timeline.Cancelled != nil {
		fmt.Printf("order cancelled at %s\n", snap.Timeline.Cancelled.At.Format(time.RFC3339))
		return
	}
	for _, step := range snap.Timeline.Steps {
		marker := " "
		switch step.State {
		case timeline.StepCompleted:
			marker = "x"
		case timeline.StepCurrent:
			marker = ">"
		}
		when := ""
		if step.Timestamp != nil {
			when = step.Timestamp.Format("2006-01-02 15:04")
		}
		fmt.Printf("  [%s] %-10s %s\n", marker, step.Status, when)
	}
	if snap.Timeline.EstimatedDelivery != nil {
		fmt.Printf("  estimated delivery: %s\n", snap.Timeline.EstimatedDelivery.Format("2006-01-02"))
	}
	fmt.Printf("  next refresh in %d ticks\n", snap.Countdown)
}

func printDashboard(summary *dashboard.Summary) {
	fmt.Printf("orders: %d, revenue: %.2f\n", len(summary.Orders), summary.Revenue)
	for _, status := range []model.Status{
		model.StatusPending, model.StatusProcessing, model.StatusShipped,
		model.StatusDelivered, model.StatusCancelled,
	} {
		if n := summary.OrdersByStatus[status]; n > 0 {
			fmt.Printf("  %-10s %d\n", status, n)
		}
	}
	if len(summary.LowStock) > 0 {
		fmt.Println("low stock:")
		for _, product := range summary.LowStock {
			fmt.Printf("  %s (%d left)\n", product.Name, product.Stock)
		}
	}
}
