package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"
)

type Config struct {
	Kafka   KafkaConfig
	Logging LoggingConfig
	Await   AwaitConfig
}

type KafkaConfig struct {
	Brokers         []string
	Topic           string
	GroupID         string
	AutoOffsetReset int64 // kafka start offset: earliest or latest
	Acks            kafkago.RequiredAcks
}

type LoggingConfig struct {
	Level string
}

type AwaitConfig struct {
	Timeout      time.Duration
	PollInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	return &Config{
		Kafka: KafkaConfig{
			Brokers:         parseBrokers(getEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:           getEnv("KAFKA_TOPIC", "transacoes"),
			GroupID:         getEnv("KAFKA_GROUP_ID", "transacao-prober-group"),
			AutoOffsetReset: parseOffsetReset(getEnv("KAFKA_AUTO_OFFSET_RESET", "earliest")),
			Acks:            parseAcks(getEnv("KAFKA_ACKS", "all")),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Await: AwaitConfig{
			Timeout:      getEnvDuration("AWAIT_TIMEOUT", 30*time.Second),
			PollInterval: getEnvDuration("AWAIT_POLL_INTERVAL", 500*time.Millisecond),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	result := make([]string, 0, len(parts))
	for _, broker := range parts {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseOffsetReset(policy string) int64 {
	switch strings.ToLower(policy) {
	case "latest":
		return kafkago.LastOffset
	case "earliest":
		return kafkago.FirstOffset
	default:
		return kafkago.FirstOffset // default to earliest
	}
}

func parseAcks(acks string) kafkago.RequiredAcks {
	switch strings.ToLower(acks) {
	case "all", "-1":
		return kafkago.RequireAll
	case "none", "0":
		return kafkago.RequireNone
	case "leader", "1":
		return kafkago.RequireOne
	default:
		return kafkago.RequireAll // default to all
	}
}
