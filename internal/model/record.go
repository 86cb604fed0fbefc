package model

import "github.com/shopspring/decimal"

// DisputeStatus is the lifecycle state of a stored funding transaction.
type DisputeStatus string

const (
	StatusUndisputed  DisputeStatus = "undisputed"
	StatusDisputed    DisputeStatus = "disputed"
	StatusResolved    DisputeStatus = "resolved"
	StatusChargedBack DisputeStatus = "charged-back"
)

// TxRecord is the stored form of a successfully applied deposit or
// withdrawal, looked up later by disputes, resolves, and chargebacks.
type TxRecord struct {
	Kind     TxKind
	ClientID uint16
	Amount   decimal.Decimal
	Status   DisputeStatus
}
