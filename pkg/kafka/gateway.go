package kafka

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"go-transacao/internal/observability"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

// ErrGatewayClosed is reported through the delivery callback when Send is
// called after Close.
var ErrGatewayClosed = errors.New("gateway is closed")

type GatewayConfig struct {
	Brokers            []string
	Topic              string
	Acks               kafkago.RequiredAcks
	Balancer           kafkago.Balancer
	Compression        kafkago.Compression
	WriteTimeout       time.Duration
	MaxRetries         int
	BaseBackoff        time.Duration
	HealthCheckTimeout time.Duration
	OnDelivery         DeliveryCallback
	Metrics            observability.MetricsCollector
	Logger             *logrus.Logger
}

// Gateway publishes records to a fixed topic. Send never blocks on broker
// acknowledgment; outcomes arrive through the configured callback.
type Gateway struct {
	writer      MessageWriter
	topic       string
	logger      *logrus.Logger
	metrics     observability.MetricsCollector
	onDelivery  DeliveryCallback
	maxRetries  int
	baseBackoff time.Duration
	sendBudget  time.Duration

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// Open validates the configuration, verifies broker connectivity and
// returns a ready Gateway. Configuration and connectivity problems are the
// only errors Send's caller ever sees, and they surface here.
func Open(cfg GatewayConfig) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &PermanentError{Err: err}
	}
	applyGatewayDefaults(&cfg)

	if err := healthCheckWithTimeout(cfg.Brokers, cfg.HealthCheckTimeout); err != nil {
		return nil, err
	}

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     cfg.Balancer,
		WriteTimeout: cfg.WriteTimeout,
		ReadTimeout:  cfg.WriteTimeout,
		RequiredAcks: cfg.Acks,
		Compression:  cfg.Compression,
	}

	return newGateway(cfg, writer), nil
}

func applyGatewayDefaults(cfg *GatewayConfig) {
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.Acks == 0 {
		cfg.Acks = kafkago.RequireAll
	}
	if cfg.Balancer == nil {
		cfg.Balancer = &kafkago.LeastBytes{}
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseBackoff == 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}
	if cfg.HealthCheckTimeout == 0 {
		cfg.HealthCheckTimeout = 10 * time.Second
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NewInMemoryMetrics()
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.GetLogger()
	}
}

// newGateway wires a gateway around an already constructed writer. Tests
// inject a mock writer here.
func newGateway(cfg GatewayConfig, writer MessageWriter) *Gateway {
	applyGatewayDefaults(&cfg)
	return &Gateway{
		writer:      writer,
		topic:       cfg.Topic,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		onDelivery:  cfg.OnDelivery,
		maxRetries:  cfg.MaxRetries,
		baseBackoff: cfg.BaseBackoff,
		sendBudget:  cfg.WriteTimeout * time.Duration(cfg.MaxRetries+1),
	}
}

// Send submits a record for asynchronous delivery and returns immediately.
// Delivery success or failure is reported through the callback on a
// gateway-managed goroutine; failures are logged, never raised here.
func (g *Gateway) Send(key string, payload []byte) {
	msg := kafkago.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now(),
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		g.report(DeliveryOutcome{
			Topic:     g.topic,
			Key:       key,
			Partition: -1,
			Offset:    -1,
			Err:       ErrGatewayClosed,
		})
		return
	}
	g.inflight.Add(1)
	g.mu.Unlock()

	go g.deliver(key, msg)
}

func (g *Gateway) deliver(key string, msg kafkago.Message) {
	defer g.inflight.Done()

	start := time.Now()
	attempts := 0

	ctx, cancel := context.WithTimeout(context.Background(), g.sendBudget)
	defer cancel()

	backoff := retry.WithMaxRetries(uint64(g.maxRetries), retry.NewExponential(g.baseBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		writeErr := g.writer.WriteMessages(ctx, msg)
		if writeErr == nil {
			return nil
		}
		if isTransientWrite(writeErr) {
			return retry.RetryableError(writeErr)
		}
		return writeErr
	})

	g.report(DeliveryOutcome{
		Topic:     g.topic,
		Key:       key,
		Attempts:  attempts,
		Elapsed:   time.Since(start),
		Partition: -1,
		Offset:    -1,
		Err:       err,
	})
}

// report logs the outcome and hands it to the callback, if any.
func (g *Gateway) report(outcome DeliveryOutcome) {
	fields := logrus.Fields{
		"topic":    outcome.Topic,
		"key":      outcome.Key,
		"attempts": outcome.Attempts,
		"elapsed":  outcome.Elapsed,
	}
	if outcome.Err != nil {
		g.metrics.IncPublishFailed()
		g.logger.WithFields(fields).WithError(outcome.Err).Error("Delivery failed")
	} else {
		g.metrics.IncPublished()
		g.logger.WithFields(fields).Info("Record delivered")
	}

	if g.onDelivery != nil {
		g.onDelivery(outcome)
	}
}

// Close flushes outstanding sends, waiting up to timeout, then releases
// the connection. Callers must invoke it exactly once.
func (g *Gateway) Close(timeout time.Duration) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrGatewayClosed
	}
	g.closed = true
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		g.inflight.Wait()
		close(done)
	}()

	var flushErr error
	select {
	case <-done:
	case <-time.After(timeout):
		g.logger.Warn("Timed out waiting for in-flight sends")
		flushErr = context.DeadlineExceeded
	}

	if err := g.writer.Close(); err != nil {
		return err
	}
	return flushErr
}

// isTransientWrite classifies write errors for the retry loop. Context
// expiry and protocol-permanent failures are not retried.
func isTransientWrite(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var kerr kafkago.Error
	if errors.As(err, &kerr) {
		return kerr.Temporary()
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}
	return false
}
