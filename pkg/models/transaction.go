package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// TransactionType enumerates the supported transaction categories.
type TransactionType string

const (
	TypeDeposito      TransactionType = "DEPOSITO"
	TypeSaque         TransactionType = "SAQUE"
	TypeTransferencia TransactionType = "TRANSFERENCIA"
)

// Valid reports whether the type is one of the known categories.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeDeposito, TypeSaque, TypeTransferencia:
		return true
	}
	return false
}

// Transaction is the domain record published to the broker.
// The JSON field names are the external contract and must not change.
type Transaction struct {
	ID            string          `json:"idTransacao"`
	Type          TransactionType `json:"tipo"`
	Amount        float64         `json:"valor"`
	SourceAccount string          `json:"contaOrigem"`
	TargetAccount string          `json:"contaDestino"`
	Timestamp     string          `json:"dataHora"`
}

// New builds a Transaction with a freshly generated unique id.
func New(txType TransactionType, amount float64, source, target, timestamp string) Transaction {
	return Transaction{
		ID:            uuid.NewString(),
		Type:          txType,
		Amount:        amount,
		SourceAccount: source,
		TargetAccount: target,
		Timestamp:     timestamp,
	}
}

// Validate checks the record before publishing.
func (t Transaction) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("transaction id cannot be empty")
	}
	if !t.Type.Valid() {
		return fmt.Errorf("unknown transaction type: %q", t.Type)
	}
	if t.SourceAccount == "" || t.TargetAccount == "" {
		return fmt.Errorf("source and target accounts cannot be empty")
	}
	return nil
}

// Equal reports full field-wise equality between two transactions.
func (t Transaction) Equal(other Transaction) bool {
	return t == other
}

// Marshal serializes the transaction as UTF-8 JSON.
func (t Transaction) Marshal() ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}
	return data, nil
}

// Decode parses a transaction from its JSON representation.
func Decode(data []byte) (Transaction, error) {
	var t Transaction
	if err := json.Unmarshal(data, &t); err != nil {
		return Transaction{}, fmt.Errorf("failed to decode transaction: %w", err)
	}
	return t, nil
}
