package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"agrimarket/internal/catalog"
	"agrimarket/internal/config"
	"agrimarket/internal/httpx"
	kafkax "agrimarket/internal/kafka"
	"agrimarket/internal/orders"
	"agrimarket/internal/postgres"
	"agrimarket/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	placed := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024)
	placed.Start(ctx)
	status := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatus, 1024)
	status.Start(ctx)
	tracking := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicLogisticsUpdated, 1024)
	tracking.Start(ctx)

	router := httpx.NewRouter()
	(&httpx.OrdersHandler{
		Checkout: &orders.Checkout{DB: db, CommissionRate: cfg.CommissionRatePct},
		Ledger:   &orders.Ledger{DB: db},
		Catalog:  &catalog.Repo{DB: db},
		Placed:   placed,
		Redis:    rdb,
		Service:  cfg.ServiceName,
		Log:      log,
	}).Register(router)
	(&httpx.FulfillmentHandler{
		FSM:      &orders.Fulfillment{DB: db},
		Status:   status,
		Tracking: tracking,
		Redis:    rdb,
		Service:  cfg.ServiceName,
		Log:      log,
	}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	placed.Close()
	status.Close()
	tracking.Close()
	placed.WaitClosed()
	status.WaitClosed()
	tracking.WaitClosed()
}
