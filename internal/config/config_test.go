package config

import (
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"KAFKA_BROKERS", "KAFKA_TOPIC", "KAFKA_GROUP_ID",
		"KAFKA_AUTO_OFFSET_RESET", "KAFKA_ACKS",
		"AWAIT_TIMEOUT", "AWAIT_POLL_INTERVAL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "transacoes", cfg.Kafka.Topic)
	assert.Equal(t, "transacao-prober-group", cfg.Kafka.GroupID)
	assert.Equal(t, kafkago.FirstOffset, cfg.Kafka.AutoOffsetReset)
	assert.Equal(t, kafkago.RequireAll, cfg.Kafka.Acks)
	assert.Equal(t, 30*time.Second, cfg.Await.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Await.PollInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "b1:9092, b2:9092 ,")
	t.Setenv("KAFKA_TOPIC", "pagamentos")
	t.Setenv("KAFKA_GROUP_ID", "verifier")
	t.Setenv("KAFKA_AUTO_OFFSET_RESET", "latest")
	t.Setenv("KAFKA_ACKS", "leader")
	t.Setenv("AWAIT_TIMEOUT", "2s")
	t.Setenv("AWAIT_POLL_INTERVAL", "250ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "pagamentos", cfg.Kafka.Topic)
	assert.Equal(t, "verifier", cfg.Kafka.GroupID)
	assert.Equal(t, kafkago.LastOffset, cfg.Kafka.AutoOffsetReset)
	assert.Equal(t, kafkago.RequireOne, cfg.Kafka.Acks)
	assert.Equal(t, 2*time.Second, cfg.Await.Timeout)
	assert.Equal(t, 250*time.Millisecond, cfg.Await.PollInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestParseAcks(t *testing.T) {
	assert.Equal(t, kafkago.RequireAll, parseAcks("all"))
	assert.Equal(t, kafkago.RequireAll, parseAcks("-1"))
	assert.Equal(t, kafkago.RequireOne, parseAcks("1"))
	assert.Equal(t, kafkago.RequireNone, parseAcks("none"))
	assert.Equal(t, kafkago.RequireNone, parseAcks("0"))
	assert.Equal(t, kafkago.RequireAll, parseAcks("bogus"))
}

func TestParseOffsetReset(t *testing.T) {
	assert.Equal(t, kafkago.FirstOffset, parseOffsetReset("earliest"))
	assert.Equal(t, kafkago.LastOffset, parseOffsetReset("latest"))
	assert.Equal(t, kafkago.FirstOffset, parseOffsetReset("EARLIEST"))
	assert.Equal(t, kafkago.FirstOffset, parseOffsetReset("bogus"))
}

func TestGetEnvDuration_PlainSeconds(t *testing.T) {
	t.Setenv("AWAIT_TIMEOUT", "45")
	cfg := Load()
	assert.Equal(t, 45*time.Second, cfg.Await.Timeout)
}
