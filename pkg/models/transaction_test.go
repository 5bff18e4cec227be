package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_RoundTrip(t *testing.T) {
	original := Transaction{
		ID:            "T1",
		Type:          TypeDeposito,
		Amount:        500.0,
		SourceAccount: "111111-1",
		TargetAccount: "222222-2",
		Timestamp:     "2024-01-01T00:00:00",
	}

	data, err := original.Marshal()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	assert.True(t, original.Equal(decoded))
	assert.Equal(t, original, decoded)
}

func TestTransaction_JSONFieldContract(t *testing.T) {
	tx := Transaction{
		ID:            "T1",
		Type:          TypeTransferencia,
		Amount:        99.9,
		SourceAccount: "111111-1",
		TargetAccount: "222222-2",
		Timestamp:     "2024-01-01T00:00:00",
	}

	data, err := tx.Marshal()
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	// The externally visible field names are a fixed contract.
	for _, field := range []string{"idTransacao", "tipo", "valor", "contaOrigem", "contaDestino", "dataHora"} {
		assert.Contains(t, raw, field)
	}
	assert.Len(t, raw, 6)
}

func TestTransaction_EqualDistinguishesEveryField(t *testing.T) {
	base := Transaction{
		ID:            "T1",
		Type:          TypeDeposito,
		Amount:        500.0,
		SourceAccount: "111111-1",
		TargetAccount: "222222-2",
		Timestamp:     "2024-01-01T00:00:00",
	}

	variants := []func(tx *Transaction){
		func(tx *Transaction) { tx.ID = "T2" },
		func(tx *Transaction) { tx.Type = TypeSaque },
		func(tx *Transaction) { tx.Amount = 500.01 },
		func(tx *Transaction) { tx.SourceAccount = "333333-3" },
		func(tx *Transaction) { tx.TargetAccount = "444444-4" },
		func(tx *Transaction) { tx.Timestamp = "2024-01-02T00:00:00" },
	}

	for _, mutate := range variants {
		other := base
		mutate(&other)
		assert.False(t, base.Equal(other))
	}
	assert.True(t, base.Equal(base))
}

func TestNew_GeneratesUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tx := New(TypeDeposito, 10, "a", "b", "2024-01-01T00:00:00")
		require.NotEmpty(t, tx.ID)
		assert.False(t, seen[tx.ID], "id %s generated twice", tx.ID)
		seen[tx.ID] = true
	}
}

func TestTransaction_Validate(t *testing.T) {
	valid := New(TypeSaque, 50, "111111-1", "222222-2", "2024-01-01T00:00:00")
	assert.NoError(t, valid.Validate())

	noID := valid
	noID.ID = ""
	assert.Error(t, noID.Validate())

	badType := valid
	badType.Type = "ESTORNO"
	assert.Error(t, badType.Validate())

	noAccount := valid
	noAccount.TargetAccount = ""
	assert.Error(t, noAccount.Validate())
}

func TestDecode_MalformedPayload(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}
