package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"go-transacao/internal/config"
	"go-transacao/internal/observability"
	"go-transacao/internal/service"
	"go-transacao/pkg/kafka"
)

func main() {
	key := flag.String("key", "", "correlation key to wait for")
	timeout := flag.Duration("timeout", 0, "overall wait budget (defaults to AWAIT_TIMEOUT)")
	poll := flag.Duration("poll", 0, "per-poll interval (defaults to AWAIT_POLL_INTERVAL)")
	flag.Parse()

	if *key == "" {
		log.Fatal("-key is required")
	}

	cfg := config.Load()
	observability.InitLogger(cfg.Logging.Level)

	if *timeout == 0 {
		*timeout = cfg.Await.Timeout
	}
	if *poll == 0 {
		*poll = cfg.Await.PollInterval
	}

	prober, err := kafka.OpenProber(kafka.ProberConfig{
		Brokers:     cfg.Kafka.Brokers,
		Topic:       cfg.Kafka.Topic,
		GroupID:     cfg.Kafka.GroupID,
		StartOffset: cfg.Kafka.AutoOffsetReset,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer prober.Close()

	matcher := service.NewMatcher(nil, nil)
	msg, err := prober.AwaitMatch(context.Background(), matcher.KeyOnly(*key), *timeout, *poll)
	if err != nil {
		log.Fatalf("Await failed: %v", err)
	}

	var pretty any
	if jsonErr := json.Unmarshal(msg.Value, &pretty); jsonErr == nil {
		formatted, _ := json.MarshalIndent(pretty, "", "  ")
		fmt.Printf("Found record on topic %s\nKey: %s\nValue:\n%s\n", msg.Topic, msg.Key, formatted)
		return
	}
	fmt.Printf("Found record on topic %s\nKey: %s\nRaw value: %s\n", msg.Topic, msg.Key, msg.Value)
}
