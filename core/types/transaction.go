// Package types defines the wire-level shapes of the consensus core:
// transaction bodies/envelopes and blocks, along with their canonical
// hashing rules.
package types

import (
	"errors"
	"fmt"

	"github.com/2022148073/blockchain-simulator/common"
)

// SystemSender is the sentinel sender address for coinbase transactions.
const SystemSender = "SYSTEM"

var (
	// ErrSelfSend is returned when sender == recipient.
	ErrSelfSend = errors.New("types: sender equals recipient")
	// ErrNonPositiveAmount is returned when amount <= 0.
	ErrNonPositiveAmount = errors.New("types: amount must be positive")
)

// TxBody is the signed portion of a transaction: everything except the
// detached signature and public key. txid is computed over exactly this
// struct's canonical encoding, independent of the signature.
type TxBody struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    uint64 `json:"amount"`
	Nonce     uint64 `json:"nonce"`
}

// IsCoinbase reports whether the body is the block's system reward tx.
func (b TxBody) IsCoinbase() bool { return b.Sender == SystemSender }

// Validate checks the structural invariants that hold regardless of
// coinbase/regular status: positive amount, distinct sender/recipient.
func (b TxBody) Validate() error {
	if b.Amount == 0 {
		return ErrNonPositiveAmount
	}
	if b.Sender == b.Recipient {
		return ErrSelfSend
	}
	return nil
}

// canonicalMap builds the sorted-key JSON shape hashed/signed for a body.
// A map (rather than the struct directly) is used because encoding/json
// sorts map keys on marshal, giving byte-for-byte canonical output without
// a bespoke encoder.
func (b TxBody) canonicalMap() map[string]interface{} {
	return map[string]interface{}{
		"sender":    b.Sender,
		"recipient": b.Recipient,
		"amount":    b.Amount,
		"nonce":     b.Nonce,
	}
}

// Canonical returns the canonical JSON encoding of the body: the exact
// byte string that is hashed for txid and signed by the sender.
func (b TxBody) Canonical() []byte {
	return common.MustCanonicalize(b.canonicalMap())
}

// Digest returns the raw SHA-256 digest of the canonical body, the
// message actually signed (see crypto.Sign).
func (b TxBody) Digest() [32]byte {
	return common.Sha256(b.Canonical())
}

// TxID returns the hex-encoded SHA-256 of the canonical body. It depends
// only on the body, never on the signature.
func (b TxBody) TxID() string {
	return common.Sha256Hex(b.Canonical())
}

// Transaction is the wire envelope: a body plus a detached signature and
// public key. Signature/PublicKey are nil only for coinbase transactions.
type Transaction struct {
	Body      TxBody `json:"body"`
	Signature []byte `json:"signature,omitempty"`
	PublicKey []byte `json:"public_key,omitempty"`
}

// TxID returns the canonical transaction identity, signature-independent.
func (tx *Transaction) TxID() string { return tx.Body.TxID() }

// Clone returns an independently-owned deep copy, the shape callers must
// hand across the receive-block/add-transaction boundary so no two nodes
// ever share mutable transaction state.
func (tx *Transaction) Clone() *Transaction {
	return &Transaction{
		Body:      tx.Body,
		Signature: common.CopyBytes(tx.Signature),
		PublicKey: common.CopyBytes(tx.PublicKey),
	}
}

// NewCoinbase builds the unsigned system reward transaction for a block
// mined by recipient.
func NewCoinbase(recipient string, reward uint64) *Transaction {
	return &Transaction{
		Body: TxBody{
			Sender:    SystemSender,
			Recipient: recipient,
			Amount:    reward,
			Nonce:     0,
		},
	}
}

// String gives a short debug representation.
func (tx *Transaction) String() string {
	return fmt.Sprintf("Tx(%s: %s->%s %d#%d)", tx.TxID()[:8], tx.Body.Sender, tx.Body.Recipient, tx.Body.Amount, tx.Body.Nonce)
}
