package model

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amt(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestNewTransaction_Deposit(t *testing.T) {
	tx, err := NewTransaction(KindDeposit, 1, 7, amt("5.0"))
	require.NoError(t, err)

	assert.Equal(t, KindDeposit, tx.Kind)
	assert.Equal(t, uint16(1), tx.ClientID)
	assert.Equal(t, uint32(7), tx.TxID)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(5)))
}

func TestNewTransaction_DisputeWithoutAmount(t *testing.T) {
	tx, err := NewTransaction(KindDispute, 1, 7, nil)
	require.NoError(t, err)
	assert.True(t, tx.Amount.IsZero())
}

func TestNewTransaction_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		kind   TxKind
		amount *decimal.Decimal
	}{
		{"unknown kind", TxKind("transfer"), nil},
		{"deposit without amount", KindDeposit, nil},
		{"withdrawal without amount", KindWithdrawal, nil},
		{"dispute with amount", KindDispute, amt("1")},
		{"resolve with amount", KindResolve, amt("1")},
		{"chargeback with amount", KindChargeback, amt("1")},
		{"negative deposit", KindDeposit, amt("-5")},
		{"negative withdrawal", KindWithdrawal, amt("-0.01")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTransaction(tt.kind, 1, 1, tt.amount)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestNewTransaction_AmountOutOfRange(t *testing.T) {
	// Coefficient wider than 96 bits.
	coeff := new(big.Int).Lsh(big.NewInt(1), 97)
	huge := decimal.NewFromBigInt(coeff, 0)
	_, err := NewTransaction(KindDeposit, 1, 1, &huge)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	// More than 28 fractional digits.
	tiny := decimal.New(1, -29)
	_, err = NewTransaction(KindDeposit, 1, 1, &tiny)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestTxKind(t *testing.T) {
	for _, k := range []TxKind{KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback} {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, TxKind("refund").Valid())

	assert.True(t, KindDeposit.Funding())
	assert.True(t, KindWithdrawal.Funding())
	assert.False(t, KindDispute.Funding())
}
