// Package miner implements the block assembler: try_mine and its
// transaction-selection helper (spec §4.11), built over a core.Chain.
package miner

import (
	"github.com/2022148073/blockchain-simulator/consensus"
	"github.com/2022148073/blockchain-simulator/core"
	"github.com/2022148073/blockchain-simulator/core/types"
)

// Miner assembles and mines candidate blocks on behalf of a single node
// identity against a shared Chain.
type Miner struct {
	chain  *core.Chain
	nodeID string
}

// New returns a Miner that credits its own coinbase to nodeID.
func New(chain *core.Chain, nodeID string) *Miner {
	return &Miner{chain: chain, nodeID: nodeID}
}

// TryMine implements spec §4.11: build a coinbase, select mempool
// transactions against a scratch projection of the tip state, assemble a
// candidate block with the difficulty it is actually expected to carry,
// and grind its nonce until the candidate satisfies its own target. The
// caller owns feeding the result back through Chain.ReceiveBlock and
// broadcasting it.
func (m *Miner) TryMine(simTime int64) *types.Block {
	tip := m.chain.TipBlock()
	params := m.chain.Params()

	coinbase := types.NewCoinbase(m.nodeID, params.MiningReward)
	selected := m.selectTxsForBlock(params.MaxTxsPerBlock)

	txs := make([]*types.Transaction, 0, len(selected)+1)
	txs = append(txs, coinbase)
	txs = append(txs, selected...)

	b := types.NewBlock(tip.Index+1, simTime, txs, tip.Difficulty, tip.Hash, m.nodeID)
	b.Difficulty = consensus.ExpectedDifficulty(m.chain, params, b, tip)
	b.SetTotalWork(nil) // re-derives BlockWork; TotalWork is provisional until ReceiveBlock sets it from the parent.
	b.MineBlock()
	return b
}

// selectTxsForBlock implements select_txs_for_block: walk the mempool in
// insertion order over a scratch copy of the tip state, keeping a
// transaction iff it is non-coinbase, carries a valid signature, and its
// sender can afford it at the expected next nonce; apply its effect to the
// scratch state and stop once max is reached. Selected transactions are
// deep-copied so mining never shares mutable state with the mempool.
func (m *Miner) selectTxsForBlock(max int) []*types.Transaction {
	scratch := m.chain.State().Clone()
	selected := make([]*types.Transaction, 0, max)

	for _, tx := range m.chain.Mempool().List() {
		if len(selected) >= max {
			break
		}
		if tx.Body.IsCoinbase() {
			continue
		}
		if !types.VerifySignature(tx) {
			continue
		}
		sender := scratch.Get(tx.Body.Sender)
		if sender.Balance < tx.Body.Amount {
			continue
		}
		if tx.Body.Nonce != sender.Nonce+1 {
			continue
		}
		scratch.ApplyTransfer(tx.Body.Sender, tx.Body.Recipient, tx.Body.Amount, tx.Body.Nonce)
		selected = append(selected, tx.Clone())
	}
	return selected
}

