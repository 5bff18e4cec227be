package service

import (
	"testing"

	"go-transacao/internal/observability"
	"go-transacao/pkg/kafka"
	"go-transacao/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTransaction() models.Transaction {
	return models.Transaction{
		ID:            "T1",
		Type:          models.TypeDeposito,
		Amount:        500.0,
		SourceAccount: "111111-1",
		TargetAccount: "222222-2",
		Timestamp:     "2024-01-01T00:00:00",
	}
}

func TestMatcher_Transaction_Match(t *testing.T) {
	want := sampleTransaction()
	payload, err := want.Marshal()
	require.NoError(t, err)

	predicate := MatchTransaction("K1", want)

	matched, reason := predicate(kafka.Message{Key: "K1", Value: payload})
	assert.True(t, matched)
	assert.Empty(t, reason)
}

func TestMatcher_Transaction_WrongKey(t *testing.T) {
	want := sampleTransaction()
	payload, err := want.Marshal()
	require.NoError(t, err)

	predicate := MatchTransaction("K1", want)

	// Identical payload under another key must never match.
	matched, reason := predicate(kafka.Message{Key: "K2", Value: payload})
	assert.False(t, matched)
	assert.Equal(t, "no matching key observed", reason)
}

func TestMatcher_Transaction_PayloadDiffers(t *testing.T) {
	want := sampleTransaction()
	other := want
	other.Amount = 499.99
	payload, err := other.Marshal()
	require.NoError(t, err)

	predicate := MatchTransaction("K1", want)

	matched, reason := predicate(kafka.Message{Key: "K1", Value: payload})
	assert.False(t, matched)
	assert.Equal(t, "key matched but payload differs", reason)
}

func TestMatcher_Transaction_MalformedPayload(t *testing.T) {
	metrics := observability.NewInMemoryMetrics()
	matcher := NewMatcher(metrics, nil)

	predicate := matcher.Transaction("K1", sampleTransaction())

	matched, reason := predicate(kafka.Message{Key: "K1", Value: []byte("{not json")})
	assert.False(t, matched)
	assert.Contains(t, reason, "malformed")
	assert.Equal(t, int64(1), metrics.GetDeserializeError())
}

func TestMatcher_KeyOnly(t *testing.T) {
	matcher := NewMatcher(nil, nil)
	predicate := matcher.KeyOnly("K1")

	matched, _ := predicate(kafka.Message{Key: "K1", Value: []byte("anything")})
	assert.True(t, matched)

	matched, reason := predicate(kafka.Message{Key: "K2"})
	assert.False(t, matched)
	assert.Equal(t, "no matching key observed", reason)
}
