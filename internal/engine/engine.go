package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/account"
	"github.com/settled-dev/settled/internal/model"
)

// ErrUnknownTransaction rejects a dispute, resolve, or chargeback that
// references a tx ID never seen in history.
var ErrUnknownTransaction = errors.New("unknown transaction")

// ErrClientMismatch rejects a reference to a historical transaction owned by
// a different client.
var ErrClientMismatch = errors.New("client mismatch")

// ErrNotDisputable rejects a dispute against a withdrawal; only deposits may
// enter the dispute lifecycle.
var ErrNotDisputable = errors.New("transaction not disputable")

// ErrInvalidDisputeState rejects a dispute, resolve, or chargeback applied in
// the wrong lifecycle state for the referenced transaction.
var ErrInvalidDisputeState = errors.New("invalid dispute state")

// Snapshot is one account's final state at a point in time.
type Snapshot struct {
	ClientID  uint16
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// Engine routes transactions to per-client accounts and tracks the history
// of applied funding transactions for the dispute lifecycle. Not safe for
// concurrent use; callers apply transactions strictly in order.
type Engine struct {
	accounts map[uint16]*account.Account
	history  map[uint32]*model.TxRecord
}

// New creates an empty engine.
func New() *Engine {
	return &Engine{
		accounts: make(map[uint16]*account.Account),
		history:  make(map[uint32]*model.TxRecord),
	}
}

// Apply routes one transaction to its account. On failure the engine and all
// accounts are left exactly as they were; the caller reports the error and
// continues with the next transaction.
func (e *Engine) Apply(tx model.Transaction) error {
	acct := e.account(tx.ClientID)

	switch tx.Kind {
	case model.KindDeposit:
		return e.applyDeposit(acct, tx)
	case model.KindWithdrawal:
		return e.applyWithdrawal(acct, tx)
	case model.KindDispute:
		return e.applyDispute(acct, tx)
	case model.KindResolve:
		return e.applyResolve(acct, tx)
	case model.KindChargeback:
		return e.applyChargeback(acct, tx)
	default:
		return fmt.Errorf("%w: kind %q", model.ErrMalformedRecord, string(tx.Kind))
	}
}

// Snapshot returns the current state of every known account. Order is
// unspecified; callers needing determinism sort by client ID.
func (e *Engine) Snapshot() []Snapshot {
	out := make([]Snapshot, 0, len(e.accounts))
	for _, acct := range e.accounts {
		out = append(out, Snapshot{
			ClientID:  acct.ClientID(),
			Available: acct.Available(),
			Held:      acct.Held(),
			Total:     acct.Total(),
			Locked:    acct.Locked(),
		})
	}
	return out
}

// account returns the client's account, creating it on first reference.
func (e *Engine) account(clientID uint16) *account.Account {
	acct, ok := e.accounts[clientID]
	if !ok {
		acct = account.New(clientID)
		e.accounts[clientID] = acct
	}
	return acct
}

func (e *Engine) applyDeposit(acct *account.Account, tx model.Transaction) error {
	if err := acct.Deposit(tx.Amount); err != nil {
		return fmt.Errorf("deposit tx %d: %w", tx.TxID, err)
	}
	e.record(tx)
	return nil
}

func (e *Engine) applyWithdrawal(acct *account.Account, tx model.Transaction) error {
	if err := acct.Withdraw(tx.Amount); err != nil {
		return fmt.Errorf("withdrawal tx %d: %w", tx.TxID, err)
	}
	e.record(tx)
	return nil
}

func (e *Engine) applyDispute(acct *account.Account, tx model.Transaction) error {
	if acct.Locked() {
		return fmt.Errorf("dispute tx %d: %w", tx.TxID, account.ErrAccountLocked)
	}
	rec, err := e.lookup(tx)
	if err != nil {
		return fmt.Errorf("dispute tx %d: %w", tx.TxID, err)
	}
	if rec.Kind != model.KindDeposit {
		return fmt.Errorf("dispute tx %d: %w", tx.TxID, ErrNotDisputable)
	}
	if rec.Status != model.StatusUndisputed {
		return fmt.Errorf("dispute tx %d: %w: status %s", tx.TxID, ErrInvalidDisputeState, rec.Status)
	}
	if err := acct.Dispute(rec.Amount); err != nil {
		return fmt.Errorf("dispute tx %d: %w", tx.TxID, err)
	}
	rec.Status = model.StatusDisputed
	return nil
}

func (e *Engine) applyResolve(acct *account.Account, tx model.Transaction) error {
	if acct.Locked() {
		return fmt.Errorf("resolve tx %d: %w", tx.TxID, account.ErrAccountLocked)
	}
	rec, err := e.lookup(tx)
	if err != nil {
		return fmt.Errorf("resolve tx %d: %w", tx.TxID, err)
	}
	if rec.Status != model.StatusDisputed {
		return fmt.Errorf("resolve tx %d: %w: status %s", tx.TxID, ErrInvalidDisputeState, rec.Status)
	}
	if err := acct.Resolve(rec.Amount); err != nil {
		return fmt.Errorf("resolve tx %d: %w", tx.TxID, err)
	}
	rec.Status = model.StatusResolved
	return nil
}

func (e *Engine) applyChargeback(acct *account.Account, tx model.Transaction) error {
	if acct.Locked() {
		return fmt.Errorf("chargeback tx %d: %w", tx.TxID, account.ErrAccountLocked)
	}
	rec, err := e.lookup(tx)
	if err != nil {
		return fmt.Errorf("chargeback tx %d: %w", tx.TxID, err)
	}
	if rec.Status != model.StatusDisputed {
		return fmt.Errorf("chargeback tx %d: %w: status %s", tx.TxID, ErrInvalidDisputeState, rec.Status)
	}
	if err := acct.Chargeback(rec.Amount); err != nil {
		return fmt.Errorf("chargeback tx %d: %w", tx.TxID, err)
	}
	rec.Status = model.StatusChargedBack
	return nil
}

// record stores a successfully applied funding transaction in history as
// undisputed. tx IDs are unique by contract; a duplicate would overwrite.
func (e *Engine) record(tx model.Transaction) {
	e.history[tx.TxID] = &model.TxRecord{
		Kind:     tx.Kind,
		ClientID: tx.ClientID,
		Amount:   tx.Amount,
		Status:   model.StatusUndisputed,
	}
}

// lookup finds the historical record a dispute-lifecycle transaction
// references and checks client ownership.
func (e *Engine) lookup(tx model.Transaction) (*model.TxRecord, error) {
	rec, ok := e.history[tx.TxID]
	if !ok {
		return nil, ErrUnknownTransaction
	}
	if rec.ClientID != tx.ClientID {
		return nil, fmt.Errorf("%w: tx belongs to client %d, referenced by client %d", ErrClientMismatch, rec.ClientID, tx.ClientID)
	}
	return rec, nil
}
