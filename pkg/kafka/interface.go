package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// ============================================================================
// Message and Outcome Structures
// ============================================================================

// Message is a record observed on a topic.
type Message struct {
	Topic     string    `json:"topic"`
	Key       string    `json:"key,omitempty"`
	Value     []byte    `json:"value"`
	Partition int       `json:"partition,omitempty"`
	Offset    int64     `json:"offset,omitempty"`
	Time      time.Time `json:"time,omitempty"`
}

// DeliveryOutcome reports the asynchronous result of a Send. Partition and
// Offset are -1 when the transport does not surface them; the outcome is
// diagnostic only.
type DeliveryOutcome struct {
	Topic     string
	Key       string
	Attempts  int
	Elapsed   time.Duration
	Partition int
	Offset    int64
	Err       error
}

// Delivered reports whether the broker acknowledged the record.
func (o DeliveryOutcome) Delivered() bool {
	return o.Err == nil
}

// DeliveryCallback receives delivery outcomes on a gateway-managed
// goroutine. It must not block for long and must not call back into the
// gateway.
type DeliveryCallback func(DeliveryOutcome)

// Predicate evaluates one observed record. When it does not match, the
// returned reason is kept as the best available diagnostic for a
// subsequent timeout.
type Predicate func(msg Message) (matched bool, reason string)

// ============================================================================
// Custom Error Types
// ============================================================================

// ConnectivityError indicates an unrecoverable broker connection failure.
type ConnectivityError struct {
	Broker string
	Err    error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("broker connectivity failure (%s): %v", e.Broker, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// TimeoutExceededError is returned when AwaitMatch exhausts its budget
// without a matching record. LastReason carries the most recent mismatch
// detail observed by the predicate, if any.
type TimeoutExceededError struct {
	Timeout    time.Duration
	Polls      int
	LastReason string
}

func (e *TimeoutExceededError) Error() string {
	if e.LastReason == "" {
		return fmt.Sprintf("no matching record within %s (%d polls)", e.Timeout, e.Polls)
	}
	return fmt.Sprintf("no matching record within %s (%d polls): %s", e.Timeout, e.Polls, e.LastReason)
}

// RetryableError indicates the operation should be retried.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// PermanentError indicates the operation should not be retried.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent error: %v", e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// IsConnectivity checks if error is a broker connectivity failure.
func IsConnectivity(err error) bool {
	var connErr *ConnectivityError
	return errors.As(err, &connErr)
}

// IsTimeout checks if error is a prober timeout.
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutExceededError
	return errors.As(err, &timeoutErr)
}

// IsRetryable checks if error is retryable.
func IsRetryable(err error) bool {
	var retryableErr *RetryableError
	return errors.As(err, &retryableErr)
}

// IsPermanent checks if error is permanent.
func IsPermanent(err error) bool {
	var permanentErr *PermanentError
	return errors.As(err, &permanentErr)
}

// ============================================================================
// Transport Interfaces for Testing
// ============================================================================

// MessageWriter is the write side of the transport. *kafkago.Writer
// satisfies it.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// MessageFetcher is the read side of the transport. *kafkago.Reader
// satisfies it.
type MessageFetcher interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	Close() error
}
