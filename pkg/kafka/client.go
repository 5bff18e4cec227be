package kafka

import (
	"context"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// HealthCheck verifies connectivity to the first reachable broker by
// dialing it and fetching partition metadata. A failure is reported as a
// *ConnectivityError so callers can fail fast at construction time.
func HealthCheck(ctx context.Context, brokers []string) error {
	var lastErr *ConnectivityError
	for _, broker := range brokers {
		conn, err := kafkago.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = &ConnectivityError{Broker: broker, Err: err}
			continue
		}

		_, err = conn.ReadPartitions()
		conn.Close()
		if err != nil {
			lastErr = &ConnectivityError{Broker: broker, Err: err}
			continue
		}
		return nil
	}
	return lastErr
}

// healthCheckWithTimeout bounds the check so a dead broker cannot stall
// construction indefinitely.
func healthCheckWithTimeout(brokers []string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return HealthCheck(ctx, brokers)
}
