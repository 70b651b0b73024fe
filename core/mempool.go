package core

import (
	mapset "github.com/deckarep/golang-set"

	"github.com/2022148073/blockchain-simulator/core/state"
	"github.com/2022148073/blockchain-simulator/core/types"
	"github.com/2022148073/blockchain-simulator/internal/chainlog"
)

// defaultMempoolCapacity bounds the pool; beyond it, the oldest pending
// transaction is evicted to make room for a new one (spec §9 design note:
// the source leaves mempool sizing to the embedder).
const defaultMempoolCapacity = 10000

// Mempool is the insertion-ordered pool of not-yet-confirmed transactions.
// Identity for dedup/removal is txid-based (spec §9 open question 3),
// rather than full envelope value-equality, since it is simpler and
// already computed for every transaction regardless.
type Mempool struct {
	order    []*types.Transaction
	byTxID   map[string]int // txid -> index into order
	capacity int
}

// NewMempool returns an empty mempool with the default capacity.
func NewMempool() *Mempool {
	return &Mempool{byTxID: make(map[string]int), capacity: defaultMempoolCapacity}
}

// Add appends tx unconditionally (spec §4.9: add_transaction performs no
// upfront validation; that happens at mining time and at cleanup).
// Duplicate txids are ignored rather than double-queued.
func (m *Mempool) Add(tx *types.Transaction) {
	id := tx.TxID()
	if _, exists := m.byTxID[id]; exists {
		return
	}
	if len(m.order) >= m.capacity {
		evicted := m.order[0]
		m.removeAt(0)
		chainlog.Warn("mempool full, evicting oldest transaction", "evicted", shortHash(evicted.TxID()))
	}
	m.order = append(m.order, tx)
	m.byTxID[id] = len(m.order) - 1
}

// Contains reports whether a transaction with this txid is queued.
func (m *Mempool) Contains(txid string) bool {
	_, ok := m.byTxID[txid]
	return ok
}

// Remove drops the transaction with this txid, if present.
func (m *Mempool) Remove(txid string) {
	idx, ok := m.byTxID[txid]
	if !ok {
		return
	}
	m.removeAt(idx)
}

func (m *Mempool) removeAt(idx int) {
	m.order = append(m.order[:idx], m.order[idx+1:]...)
	m.reindex()
}

func (m *Mempool) reindex() {
	m.byTxID = make(map[string]int, len(m.order))
	for i, tx := range m.order {
		m.byTxID[tx.TxID()] = i
	}
}

// List returns the mempool's transactions in insertion order. The slice
// is the pool's own backing array; callers must not mutate it.
func (m *Mempool) List() []*types.Transaction { return m.order }

// Len returns the number of queued transactions.
func (m *Mempool) Len() int { return len(m.order) }

// Replace swaps the entire contents for kept, preserving its order.
func (m *Mempool) Replace(kept []*types.Transaction) {
	m.order = kept
	m.reindex()
}

// Clean implements clean_mempool (spec §4.9): drop any queued transaction
// that is already confirmed on the active chain, is a coinbase, fails
// signature verification, or fails a balance/nonce check against a
// scratch copy of currentState replayed in mempool order. Transactions
// that pass are applied to the scratch state so later, dependent
// transactions from the same sender see the correct running nonce.
func (m *Mempool) Clean(confirmed mapset.Set, currentState state.State) {
	scratch := currentState.Clone()
	kept := make([]*types.Transaction, 0, len(m.order))

	for _, tx := range m.order {
		id := tx.TxID()
		if confirmed.Contains(id) {
			continue
		}
		if tx.Body.IsCoinbase() {
			continue
		}
		if !types.VerifySignature(tx) {
			chainlog.Info("dropping mempool tx with invalid signature", "sender", tx.Body.Sender)
			continue
		}
		sender := scratch.Get(tx.Body.Sender)
		if sender.Balance < tx.Body.Amount {
			chainlog.Info("dropping mempool tx with insufficient balance",
				"sender", tx.Body.Sender, "have", sender.Balance, "need", tx.Body.Amount)
			continue
		}
		if tx.Body.Nonce != sender.Nonce+1 {
			chainlog.Info("dropping mempool tx with nonce mismatch",
				"sender", tx.Body.Sender, "want", sender.Nonce+1, "got", tx.Body.Nonce)
			continue
		}
		scratch.ApplyTransfer(tx.Body.Sender, tx.Body.Recipient, tx.Body.Amount, tx.Body.Nonce)
		kept = append(kept, tx)
	}

	m.Replace(kept)
}

// ConfirmedTxIDs collects the txid of every transaction in every block
// from genesis to tipHash (inclusive), used as the first cleanup filter.
func ConfirmedTxIDs(idx *BlockIndex, tipHash string) mapset.Set {
	confirmed := mapset.NewThreadUnsafeSet()
	curr, ok := idx.GetByHash(tipHash)
	for ok {
		for _, tx := range curr.Transactions {
			confirmed.Add(tx.TxID())
		}
		if curr.IsGenesis() {
			break
		}
		curr, ok = idx.GetByHash(curr.PreviousHash)
	}
	return confirmed
}
