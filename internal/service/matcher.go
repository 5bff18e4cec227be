package service

import (
	"fmt"

	"go-transacao/internal/observability"
	"go-transacao/pkg/kafka"
	"go-transacao/pkg/models"

	"github.com/sirupsen/logrus"
)

// Matcher builds predicates that locate one specific transaction among
// concurrent topic traffic.
type Matcher struct {
	logger  *logrus.Logger
	metrics observability.MetricsCollector
}

func NewMatcher(metrics observability.MetricsCollector, logger *logrus.Logger) *Matcher {
	if metrics == nil {
		metrics = observability.NewInMemoryMetrics()
	}
	if logger == nil {
		logger = observability.GetLogger()
	}
	return &Matcher{
		logger:  logger,
		metrics: metrics,
	}
}

// Transaction returns a predicate matching records carrying the given
// correlation key whose payload is field-wise equal to want. Records under
// other keys and payloads that fail to decode are non-matches; the reason
// string distinguishes the three mismatch classes.
func (m *Matcher) Transaction(key string, want models.Transaction) kafka.Predicate {
	return func(msg kafka.Message) (bool, string) {
		if msg.Key != key {
			return false, "no matching key observed"
		}

		got, err := models.Decode(msg.Value)
		if err != nil {
			m.metrics.IncDeserializeError()
			m.logger.WithFields(logrus.Fields{
				"key":    msg.Key,
				"offset": msg.Offset,
			}).WithError(err).Warn("Malformed payload, treating as non-match")
			return false, fmt.Sprintf("key matched but payload is malformed: %v", err)
		}

		if !got.Equal(want) {
			return false, "key matched but payload differs"
		}
		return true, ""
	}
}

// KeyOnly returns a predicate matching any record under the given
// correlation key, regardless of payload.
func (m *Matcher) KeyOnly(key string) kafka.Predicate {
	return func(msg kafka.Message) (bool, string) {
		if msg.Key != key {
			return false, "no matching key observed"
		}
		return true, ""
	}
}

// MatchTransaction is a convenience for the common case of default
// logging and metrics.
func MatchTransaction(key string, want models.Transaction) kafka.Predicate {
	return NewMatcher(nil, nil).Transaction(key, want)
}
