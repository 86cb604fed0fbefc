package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// TxKind classifies the five transaction record types.
type TxKind string

const (
	KindDeposit    TxKind = "deposit"
	KindWithdrawal TxKind = "withdrawal"
	KindDispute    TxKind = "dispute"
	KindResolve    TxKind = "resolve"
	KindChargeback TxKind = "chargeback"
)

// Valid reports whether k is one of the five known kinds.
func (k TxKind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindDispute, KindResolve, KindChargeback:
		return true
	}
	return false
}

// Funding reports whether k carries an amount (deposit or withdrawal).
func (k TxKind) Funding() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// ErrMalformedRecord marks a structurally invalid transaction record.
// Such records are reported and skipped before reaching the engine.
var ErrMalformedRecord = errors.New("malformed record")

// Amount envelope: 96-bit coefficient, at most 28 fractional digits.
const (
	maxCoefficientBits = 96
	maxScale           = 28
)

// Transaction is one parsed input record. Deposit and withdrawal carry an
// amount; dispute, resolve, and chargeback reference an earlier tx by ID.
type Transaction struct {
	Kind     TxKind
	ClientID uint16
	TxID     uint32
	Amount   decimal.Decimal // zero unless Kind.Funding()
}

// NewTransaction validates and builds a Transaction. amount must be non-nil
// exactly when kind is deposit or withdrawal.
func NewTransaction(kind TxKind, clientID uint16, txID uint32, amount *decimal.Decimal) (Transaction, error) {
	if !kind.Valid() {
		return Transaction{}, fmt.Errorf("%w: unknown kind %q", ErrMalformedRecord, string(kind))
	}

	tx := Transaction{Kind: kind, ClientID: clientID, TxID: txID}

	if !kind.Funding() {
		if amount != nil {
			return Transaction{}, fmt.Errorf("%w: %s must not carry an amount", ErrMalformedRecord, kind)
		}
		return tx, nil
	}

	if amount == nil {
		return Transaction{}, fmt.Errorf("%w: %s requires an amount", ErrMalformedRecord, kind)
	}
	if err := validateAmount(*amount); err != nil {
		return Transaction{}, err
	}

	tx.Amount = *amount
	return tx, nil
}

// validateAmount rejects negative amounts and amounts outside the supported
// decimal envelope.
func validateAmount(amount decimal.Decimal) error {
	if amount.Sign() < 0 {
		return fmt.Errorf("%w: amount %s is negative", ErrMalformedRecord, amount)
	}
	if amount.Exponent() < -maxScale {
		return fmt.Errorf("%w: amount %s exceeds %d fractional digits", ErrMalformedRecord, amount, maxScale)
	}
	if amount.Coefficient().BitLen() > maxCoefficientBits {
		return fmt.Errorf("%w: amount %s out of range", ErrMalformedRecord, amount)
	}
	return nil
}
