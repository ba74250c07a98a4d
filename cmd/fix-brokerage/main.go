package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantclip/fix-brokerage/internal/app/brokerage"
	"github.com/quantclip/fix-brokerage/internal/app/instance"
	fixv1 "github.com/quantclip/fix-brokerage/internal/domain/fix/v1"
	orderv1 "github.com/quantclip/fix-brokerage/internal/domain/order/v1"
	"github.com/quantclip/fix-brokerage/internal/pkg/symbols"
	"github.com/quantclip/fix-brokerage/internal/usecase/broker"
	"github.com/quantclip/fix-brokerage/internal/usecase/dispatch"
	"github.com/quantclip/fix-brokerage/internal/usecase/events"
	"github.com/quantclip/fix-brokerage/internal/usecase/orderrouter"
	"github.com/quantclip/fix-brokerage/internal/usecase/orderstore"
	"github.com/quantclip/fix-brokerage/pkg/config"
	"github.com/quantclip/fix-brokerage/pkg/logger"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(err)
	}

	log, err = logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		panic(err)
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	store := orderstore.NewStore()
	controller := broker.NewController(log)
	mapper := symbols.NewMapper(cfg.FIX.DefaultExchange)

	newHandler := func(sender fixv1.Sender) fixv1.OrderHandler {
		return orderrouter.New(sender, mapper, cfg.FIX.Account, cfg.FIX.OnBehalfOfCompID, log)
	}
	dispatcher := dispatch.New(controller, newHandler, log)
	engine := instance.New(cfg.FIX, dispatcher, log)

	var publisher brokerage.EventPublisher
	var kafkaPublisher *events.Publisher
	if cfg.EventKafka.Enabled {
		kafkaPublisher = events.NewPublisher(cfg.EventKafka, log)
		publisher = kafkaPublisher
	}

	adapter := brokerage.New(engine, controller, store, publisher, log)
	adapter.SubscribeOrderEvents(func(event *orderv1.Event) {
		log.Info("order event",
			logger.Field{Key: "orderID", Value: event.OrderID},
			logger.Field{Key: "status", Value: event.Status},
			logger.Field{Key: "fillQuantity", Value: event.FillQuantity},
		)
	})
	adapter.SubscribeDiagnostics(func(diagnostic *orderv1.Diagnostic) {
		log.Warn("broker diagnostic",
			logger.Field{Key: "orderID", Value: diagnostic.OrderID},
			logger.Field{Key: "message", Value: diagnostic.Message},
		)
	})

	if err := adapter.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_session",
		})
		return
	}

	log.Info("brokerage adapter started", logger.Field{
		Key:   "target",
		Value: cfg.FIX.TargetCompID,
	})

	sig := <-sigChan
	log.Info("received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	cancel()
	adapter.Disconnect()

	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error(err, logger.Field{
				Key:   "action",
				Value: "close_event_publisher",
			})
		}
	}

	log.Info("brokerage adapter shutdown complete")
	_ = log.Sync()
}
