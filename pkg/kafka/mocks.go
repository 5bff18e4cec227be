package kafka

import (
	"context"
	"fmt"
	"io"
	"sync"

	kafkago "github.com/segmentio/kafka-go"
)

// MockWriter is a mock implementation of MessageWriter for testing
type MockWriter struct {
	mu              sync.RWMutex
	WrittenMessages []kafkago.Message
	WriteFunc       func(ctx context.Context, msgs ...kafkago.Message) error
	CloseFunc       func() error
	FailCount       int
	FailWith        error
	failureCounter  int
	closed          bool
}

func NewMockWriter() *MockWriter {
	return &MockWriter{
		WrittenMessages: make([]kafkago.Message, 0),
	}
}

func (m *MockWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, msgs...)
	}

	if m.closed {
		return io.ErrClosedPipe
	}

	// Simulate failures for testing retry logic
	if m.FailCount > 0 && m.failureCounter < m.FailCount {
		m.failureCounter++
		if m.FailWith != nil {
			return m.FailWith
		}
		return fmt.Errorf("simulated write failure %d", m.failureCounter)
	}

	m.WrittenMessages = append(m.WrittenMessages, msgs...)
	return nil
}

func (m *MockWriter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *MockWriter) GetWrittenMessages() []kafkago.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	messages := make([]kafkago.Message, len(m.WrittenMessages))
	copy(messages, m.WrittenMessages)
	return messages
}

// ScriptedFetcher is a mock implementation of MessageFetcher. It replays a
// scripted sequence of records and errors; once the script is exhausted it
// blocks until the poll context expires, like an idle topic.
type ScriptedFetcher struct {
	mu     sync.Mutex
	script []fetchStep
	closed bool
	polls  int
}

type fetchStep struct {
	msg kafkago.Message
	err error
}

func NewScriptedFetcher() *ScriptedFetcher {
	return &ScriptedFetcher{}
}

// Append enqueues records the fetcher will return in order.
func (f *ScriptedFetcher) Append(msgs ...kafkago.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, msg := range msgs {
		f.script = append(f.script, fetchStep{msg: msg})
	}
}

// Fail enqueues an error step.
func (f *ScriptedFetcher) Fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = append(f.script, fetchStep{err: err})
}

func (f *ScriptedFetcher) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	f.mu.Lock()
	f.polls++
	if f.closed {
		f.mu.Unlock()
		return kafkago.Message{}, io.EOF
	}
	if len(f.script) > 0 {
		step := f.script[0]
		f.script = f.script[1:]
		f.mu.Unlock()
		return step.msg, step.err
	}
	f.mu.Unlock()

	// Idle topic: block until the poll deadline.
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (f *ScriptedFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *ScriptedFetcher) Polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}
