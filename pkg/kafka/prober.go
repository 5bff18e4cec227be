package kafka

import (
	"context"
	"errors"
	"io"
	"time"

	"go-transacao/internal/observability"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type ProberConfig struct {
	Brokers            []string
	Topic              string
	GroupID            string
	StartOffset        int64 // kafkago.FirstOffset unless set
	MinBytes           int
	MaxBytes           int
	HealthCheckTimeout time.Duration
	Metrics            observability.MetricsCollector
	Logger             *logrus.Logger
}

// Prober bridges synchronous assertions with asynchronous, unordered
// message visibility: it polls a topic until a predicate matches one
// observed record or a deadline expires.
type Prober struct {
	fetcher MessageFetcher
	topic   string
	broker  string
	logger  *logrus.Logger
	metrics observability.MetricsCollector
}

// probeState drives the AwaitMatch loop.
type probeState int

const (
	statePolling probeState = iota
	stateMatched
	stateTimedOut
	stateFatal
)

// OpenProber subscribes to the topic. The subscription starts at the
// earliest retained offset so records published moments before the prober
// was constructed are still visible.
func OpenProber(cfg ProberConfig) (*Prober, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &PermanentError{Err: err}
	}
	applyProberDefaults(&cfg)

	if err := healthCheckWithTimeout(cfg.Brokers, cfg.HealthCheckTimeout); err != nil {
		return nil, err
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		GroupID:     cfg.GroupID,
		MinBytes:    cfg.MinBytes,
		MaxBytes:    cfg.MaxBytes,
		MaxWait:     time.Second,
		StartOffset: cfg.StartOffset,
	})

	return newProber(cfg, reader), nil
}

func applyProberDefaults(cfg *ProberConfig) {
	if cfg.StartOffset == 0 {
		cfg.StartOffset = kafkago.FirstOffset
	}
	if cfg.MinBytes == 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10e6
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

// newProber wires a prober around an already constructed fetcher. Tests
// inject a scripted fetcher here.
func newProber(cfg ProberConfig, fetcher MessageFetcher) *Prober {
	applyProberDefaults(&cfg)
	broker := ""
	if len(cfg.Brokers) > 0 {
		broker = cfg.Brokers[0]
	}
	return &Prober{
		fetcher: fetcher,
		topic:   cfg.Topic,
		broker:  broker,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// AwaitMatch blocks until a polled record satisfies the predicate or the
// timeout expires. The deadline is computed once at entry and re-checked
// before each poll; each poll is bounded by pollInterval, and an in-flight
// poll is never interrupted once the deadline passes mid-call.
//
// Transient fetch errors are retried within the same budget. Connectivity
// failures abort immediately. On expiry the returned error carries the
// last mismatch reason the predicate reported.
func (p *Prober) AwaitMatch(ctx context.Context, predicate Predicate, timeout, pollInterval time.Duration) (Message, error) {
	if predicate == nil {
		return Message{}, &PermanentError{Err: errors.New("predicate cannot be nil")}
	}
	if timeout <= 0 || pollInterval <= 0 {
		return Message{}, &PermanentError{Err: errors.New("timeout and pollInterval must be positive")}
	}

	deadline := time.Now().Add(timeout)
	state := statePolling

	var (
		matched    Message
		fatalErr   error
		lastReason string
		polls      int
	)

	for state == statePolling {
		if err := ctx.Err(); err != nil {
			state = stateFatal
			fatalErr = err
			break
		}
		if !time.Now().Before(deadline) {
			state = stateTimedOut
			break
		}

		polls++
		p.metrics.IncPolled()

		pollCtx, cancel := context.WithTimeout(ctx, pollInterval)
		raw, err := p.fetcher.FetchMessage(pollCtx)
		cancel()

		if err != nil {
			switch {
			case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
				// Empty poll; the fetch already consumed the interval.
			case errors.Is(err, context.Canceled):
				state = stateFatal
				fatalErr = err
			case isFatalFetch(err):
				state = stateFatal
				fatalErr = &ConnectivityError{Broker: p.broker, Err: err}
			default:
				p.logger.WithError(err).Warn("Poll failed, retrying within budget")
				p.pause(ctx, pollInterval)
			}
			continue
		}

		msg := toMessage(raw)
		ok, reason := predicate(msg)
		if ok {
			state = stateMatched
			matched = msg
			continue
		}

		p.metrics.IncMismatched()
		if reason != "" {
			lastReason = reason
		}
		p.logger.WithFields(logrus.Fields{
			"topic":  msg.Topic,
			"key":    msg.Key,
			"offset": msg.Offset,
			"reason": reason,
		}).Debug("Record did not match")
		// A poll that produced a record retries immediately.
	}

	switch state {
	case stateMatched:
		p.metrics.IncMatched()
		p.logger.WithFields(logrus.Fields{
			"topic":  matched.Topic,
			"key":    matched.Key,
			"offset": matched.Offset,
			"polls":  polls,
		}).Info("Matching record found")
		return matched, nil
	case stateTimedOut:
		p.metrics.IncTimedOut()
		return Message{}, &TimeoutExceededError{
			Timeout:    timeout,
			Polls:      polls,
			LastReason: lastReason,
		}
	default:
		return Message{}, fatalErr
	}
}

// pause releases control between polls when the fetch returned without
// consuming its interval, keeping the loop off a tight CPU spin.
func (p *Prober) pause(ctx context.Context, interval time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(interval):
	}
}

// Close releases the subscription.
func (p *Prober) Close() error {
	return p.fetcher.Close()
}

func toMessage(raw kafkago.Message) Message {
	return Message{
		Topic:     raw.Topic,
		Key:       string(raw.Key),
		Value:     raw.Value,
		Partition: raw.Partition,
		Offset:    raw.Offset,
		Time:      raw.Time,
	}
}

// isFatalFetch classifies read errors that cannot recover within the wait:
// a closed reader or a permanent protocol failure.
func isFatalFetch(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
		return true
	}
	var kerr kafkago.Error
	if errors.As(err, &kerr) {
		return !kerr.Temporary()
	}
	return false
}
