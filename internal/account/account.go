package account

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrAccountLocked rejects any operation against a locked account.
var ErrAccountLocked = errors.New("account locked")

// ErrInsufficientFunds rejects a withdrawal or dispute that exceeds the
// available balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Account holds one client's balances and lock state. All mutation goes
// through the operation methods, each of which either fully applies or
// leaves the account untouched.
type Account struct {
	clientID  uint16
	available decimal.Decimal
	held      decimal.Decimal
	locked    bool
}

// New creates an empty, unlocked account for a client.
func New(clientID uint16) *Account {
	return &Account{clientID: clientID}
}

// ClientID returns the owning client's ID.
func (a *Account) ClientID() uint16 { return a.clientID }

// Available returns the withdrawable balance.
func (a *Account) Available() decimal.Decimal { return a.available }

// Held returns the balance frozen under active disputes.
func (a *Account) Held() decimal.Decimal { return a.held }

// Total returns available + held.
func (a *Account) Total() decimal.Decimal { return a.available.Add(a.held) }

// Locked reports whether a chargeback has frozen the account.
func (a *Account) Locked() bool { return a.locked }

// Deposit credits amount to the available balance.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if err := a.checkLock(); err != nil {
		return err
	}
	a.available = a.available.Add(amount)
	return nil
}

// Withdraw debits amount from the available balance. Fails without mutation
// when available funds do not cover it.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if err := a.checkLock(); err != nil {
		return err
	}
	if a.available.LessThan(amount) {
		return fmt.Errorf("%w: available %s, requested %s", ErrInsufficientFunds, a.available, amount)
	}
	a.available = a.available.Sub(amount)
	return nil
}

// Dispute moves the disputed deposit's amount from available to held.
// Total is unchanged.
func (a *Account) Dispute(amount decimal.Decimal) error {
	if err := a.checkLock(); err != nil {
		return err
	}
	if a.available.LessThan(amount) {
		return fmt.Errorf("%w: available %s, disputed %s", ErrInsufficientFunds, a.available, amount)
	}
	a.available = a.available.Sub(amount)
	a.held = a.held.Add(amount)
	return nil
}

// Resolve releases a disputed amount back to available. The caller guards
// the dispute lifecycle; held always covers amount when it does.
func (a *Account) Resolve(amount decimal.Decimal) error {
	if err := a.checkLock(); err != nil {
		return err
	}
	if a.held.LessThan(amount) {
		return fmt.Errorf("%w: held %s, resolved %s", ErrInsufficientFunds, a.held, amount)
	}
	a.held = a.held.Sub(amount)
	a.available = a.available.Add(amount)
	return nil
}

// Chargeback withdraws a disputed amount from held funds and locks the
// account permanently.
func (a *Account) Chargeback(amount decimal.Decimal) error {
	if err := a.checkLock(); err != nil {
		return err
	}
	if a.held.LessThan(amount) {
		return fmt.Errorf("%w: held %s, charged back %s", ErrInsufficientFunds, a.held, amount)
	}
	a.held = a.held.Sub(amount)
	a.locked = true
	return nil
}

func (a *Account) checkLock() error {
	if a.locked {
		return fmt.Errorf("%w: client %d", ErrAccountLocked, a.clientID)
	}
	return nil
}
