// Package node exposes the Node facade of spec §6.3: the single entry
// point the surrounding network/simulation layer drives.
package node

import (
	"github.com/2022148073/blockchain-simulator/chainparams"
	"github.com/2022148073/blockchain-simulator/core"
	"github.com/2022148073/blockchain-simulator/core/state"
	"github.com/2022148073/blockchain-simulator/core/types"
	"github.com/2022148073/blockchain-simulator/internal/chainlog"
	"github.com/2022148073/blockchain-simulator/miner"
)

// Node wires a Chain and a Miner behind the single interface the network
// layer drives: receive_block, add_transaction, try_mine, get_tip_block,
// and a read-only state projection.
type Node struct {
	ID    string
	chain *core.Chain
	miner *miner.Miner
}

// New builds a node identified by id, seeded with genesis and the given
// consensus tunables.
func New(id string, genesis *types.Block, p chainparams.Params) *Node {
	chain := core.NewChain(genesis, p)
	return &Node{
		ID:    id,
		chain: chain,
		miner: miner.New(chain, id),
	}
}

// ReceiveBlock admits an independently-owned block: validates, possibly
// reorgs, and resolves dependent orphans. It never returns an error to the
// caller (spec §7: rejection is a side-effect-free no-op, surfaced only
// through logs), matching the network-layer contract in spec §6.3.
func (n *Node) ReceiveBlock(b *types.Block, simTime int64) {
	if err := n.chain.ReceiveBlock(b, simTime); err != nil {
		chainlog.Info("rejected incoming block", "node", n.ID, "err", err)
	}
}

// AddTransaction appends tx to the mempool, unvalidated (spec §4.9).
func (n *Node) AddTransaction(tx *types.Transaction) {
	n.chain.AddTransaction(tx)
}

// TryMine produces a candidate block extending the current tip. The
// caller owns feeding it back through ReceiveBlock and broadcasting it.
func (n *Node) TryMine(simTime int64) *types.Block {
	return n.miner.TryMine(simTime)
}

// GetTipBlock returns the current heaviest-chain tip.
func (n *Node) GetTipBlock() *types.Block {
	return n.chain.TipBlock()
}

// State returns the account for addr at the current tip — the read-only
// projection observers use, with balance/nonce defaulting to zero for an
// address that has never appeared in any applied transaction.
func (n *Node) State(addr string) state.Account {
	return n.chain.State().Get(addr)
}

// MempoolLen reports the number of pending transactions, useful for test
// assertions and simulation instrumentation.
func (n *Node) MempoolLen() int {
	return n.chain.Mempool().Len()
}
