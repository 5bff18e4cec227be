package main

import (
	"log"
	"time"

	"go-transacao/internal/config"
	"go-transacao/internal/observability"
	"go-transacao/pkg/kafka"
	"go-transacao/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	observability.InitLogger(cfg.Logging.Level)
	logger := observability.GetLogger()

	tx := models.New(
		models.TypeDeposito,
		500.0,
		"111111-1",
		"222222-2",
		time.Now().Format("2006-01-02T15:04:05"),
	)
	if err := tx.Validate(); err != nil {
		log.Fatal(err)
	}

	payload, err := tx.Marshal()
	if err != nil {
		log.Fatal(err)
	}

	outcomes := make(chan kafka.DeliveryOutcome, 1)
	gateway, err := kafka.Open(kafka.GatewayConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		Acks:    cfg.Kafka.Acks,
		OnDelivery: func(outcome kafka.DeliveryOutcome) {
			outcomes <- outcome
		},
		Logger: logger,
	})
	if err != nil {
		log.Fatal(err)
	}

	correlationKey := uuid.NewString()
	gateway.Send(correlationKey, payload)

	outcome := <-outcomes
	if outcome.Delivered() {
		logger.WithFields(logrus.Fields{
			"key":          correlationKey,
			"id_transacao": tx.ID,
			"elapsed":      outcome.Elapsed,
		}).Info("Transaction sent")
	} else {
		logger.WithError(outcome.Err).Error("Transaction delivery failed")
	}

	if err := gateway.Close(5 * time.Second); err != nil {
		logger.WithError(err).Warn("Gateway close reported an error")
	}
}
