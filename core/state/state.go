// Package state implements the account-state replay model: a deterministic
// fold of a chain path into a map of address -> (balance, nonce).
package state

import (
	"errors"
	"fmt"

	"github.com/2022148073/blockchain-simulator/core/types"
)

// Account is the per-address state: spendable balance and last-used nonce.
type Account struct {
	Balance uint64
	Nonce   uint64
}

// State maps addresses to their account state. Accounts default to the
// zero value (balance 0, nonce 0) when absent, per spec §3.
type State map[string]Account

// New returns an empty state.
func New() State { return make(State) }

// Get returns the account for addr, or the zero value if absent. It never
// mutates s, so callers needing to observe-then-write must assign back.
func (s State) Get(addr string) Account {
	return s[addr]
}

// Clone returns an independent copy of s, used whenever a scratch state is
// needed (validation, mempool cleanup, tx selection) without disturbing
// the authoritative state.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

var (
	// ErrInsufficientBalance is returned when sender.Balance < amount.
	ErrInsufficientBalance = errors.New("state: insufficient balance")
	// ErrNonceMismatch is returned when tx.Nonce != sender.Nonce+1.
	ErrNonceMismatch = errors.New("state: nonce mismatch")
	// ErrMultipleCoinbase is returned when a block carries >1 coinbase tx.
	ErrMultipleCoinbase = errors.New("state: multiple coinbase transactions in block")
	// ErrMissingCoinbase is returned when a block carries no coinbase tx.
	ErrMissingCoinbase = errors.New("state: missing coinbase transaction")
	// ErrWrongCoinbaseAmount is returned when a coinbase amount != reward.
	ErrWrongCoinbaseAmount = errors.New("state: coinbase amount mismatch")
	// ErrWrongCoinbaseRecipient is returned when a coinbase recipient != miner.
	ErrWrongCoinbaseRecipient = errors.New("state: coinbase recipient mismatch")
	// ErrBadSignature is returned when a regular tx's signature fails verification.
	ErrBadSignature = errors.New("state: invalid transaction signature")
)

// ApplyCoinbase credits amount to recipient unconditionally: the effect
// rule for the single allowed coinbase transaction in a block.
func (s State) ApplyCoinbase(recipient string, amount uint64) {
	acc := s[recipient]
	acc.Balance += amount
	s[recipient] = acc
}

// ApplyTransfer applies the regular-transaction effect rule: debit sender,
// bump its nonce to tx.Nonce, credit recipient. Callers must have already
// validated balance/nonce preconditions.
func (s State) ApplyTransfer(sender, recipient string, amount, nonce uint64) {
	senderAcc := s[sender]
	senderAcc.Balance -= amount
	senderAcc.Nonce = nonce
	s[sender] = senderAcc

	recipientAcc := s[recipient]
	recipientAcc.Balance += amount
	s[recipient] = recipientAcc
}

// ValidateAndApplyTransfer checks balance and nonce preconditions for a
// regular (non-coinbase) transaction and, if they hold, applies its effect
// to s. It does not check the signature; callers validate that separately
// since it does not depend on s.
func (s State) ValidateAndApplyTransfer(body types.TxBody) error {
	sender := s[body.Sender]
	if sender.Balance < body.Amount {
		return fmt.Errorf("%w: sender=%s need=%d have=%d", ErrInsufficientBalance, body.Sender, body.Amount, sender.Balance)
	}
	if body.Nonce != sender.Nonce+1 {
		return fmt.Errorf("%w: sender=%s want=%d got=%d", ErrNonceMismatch, body.Sender, sender.Nonce+1, body.Nonce)
	}
	s.ApplyTransfer(body.Sender, body.Recipient, body.Amount, body.Nonce)
	return nil
}

// TotalBalance sums every account's balance: the quantity the supply
// invariant (spec §8, I4) is stated over.
func (s State) TotalBalance() uint64 {
	var total uint64
	for _, acc := range s {
		total += acc.Balance
	}
	return total
}
