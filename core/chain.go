package core

import (
	"fmt"

	"github.com/2022148073/blockchain-simulator/chainparams"
	"github.com/2022148073/blockchain-simulator/consensus"
	"github.com/2022148073/blockchain-simulator/core/state"
	"github.com/2022148073/blockchain-simulator/core/types"
	"github.com/2022148073/blockchain-simulator/internal/chainlog"
)

// Chain ties the block index, orphan pool and mempool together into the
// receive-block pipeline of spec §4.7, and caches the account state at the
// current tip so callers do not have to replay on every read.
type Chain struct {
	idx     *BlockIndex
	orphans *OrphanPool
	mempool *Mempool
	params  chainparams.Params

	genesisHash string
	tipHash     string
	tipState    state.State
}

// NewChain seeds a chain from an already-mined genesis block. genesis is
// trusted as-is: it has no parent to validate against, matching the
// original implementation's treatment of genesis as a given rather than a
// received block.
func NewChain(genesis *types.Block, p chainparams.Params) *Chain {
	if genesis.Hash == "" {
		genesis.Hash = genesis.CalculateHash()
	}
	genesis.SetTotalWork(nil)

	idx := NewBlockIndex()
	idx.Insert(genesis)

	c := &Chain{
		idx:         idx,
		orphans:     NewOrphanPool(),
		mempool:     NewMempool(),
		params:      p,
		genesisHash: genesis.Hash,
		tipHash:     genesis.Hash,
	}
	c.rebuildTipState()
	return c
}

// GetByHash implements consensus.AncestorLookup, letting the miner reuse
// the same difficulty-retarget helper the receive pipeline uses.
func (c *Chain) GetByHash(hash string) (*types.Block, bool) { return c.idx.GetByHash(hash) }

// TipBlock returns the block the chain currently considers canonical.
func (c *Chain) TipBlock() *types.Block {
	b, _ := c.idx.GetByHash(c.tipHash)
	return b
}

// State returns the account state at the current tip. The returned map is
// the chain's own cache; callers must not mutate it.
func (c *Chain) State() state.State { return c.tipState }

// Mempool exposes the pending-transaction pool for miner/node callers.
func (c *Chain) Mempool() *Mempool { return c.mempool }

// Params returns the consensus tunables this chain was constructed with.
func (c *Chain) Params() chainparams.Params { return c.params }

// AddTransaction queues tx per spec §4.9: unconditional, no upfront check.
func (c *Chain) AddTransaction(tx *types.Transaction) {
	c.mempool.Add(tx)
}

// GetStateAt implements spec §4.6: walk b's ancestry to genesis and replay
// block effects in order. Returns the empty state if the walk cannot reach
// genesis (an unreachable/partial chain segment).
func (c *Chain) GetStateAt(hash string) state.State {
	path, ok := c.idx.PathToGenesis(hash)
	if !ok {
		return state.New()
	}
	s := state.New()
	for _, b := range path {
		for _, tx := range b.Transactions {
			if tx.Body.IsCoinbase() {
				s.ApplyCoinbase(tx.Body.Recipient, tx.Body.Amount)
				continue
			}
			s.ApplyTransfer(tx.Body.Sender, tx.Body.Recipient, tx.Body.Amount, tx.Body.Nonce)
		}
	}
	return s
}

func (c *Chain) rebuildTipState() {
	c.tipState = c.GetStateAt(c.tipHash)
}

// ReceiveBlock runs the full pipeline of spec §4.7/§4.10: duplicate and
// orphan handling, validation, chain-selection (extension or reorg), tip
// state rebuild, mempool cleanup, and recursive orphan retry. It is
// idempotent on a hash already present in the index.
func (c *Chain) ReceiveBlock(b *types.Block, simTime int64) error {
	if c.idx.Has(b.Hash) {
		return nil
	}

	parent, ok := c.idx.GetByHash(b.PreviousHash)
	if !ok {
		c.orphans.Add(b)
		return nil
	}

	parentState := c.GetStateAt(parent.Hash)
	if err := consensus.ValidateBlock(c.idx, c.params, b, parent, parentState, simTime); err != nil {
		return fmt.Errorf("core: reject block %s: %w", shortHash(b.Hash), err)
	}

	b.SetTotalWork(parent.TotalWork)
	c.idx.Insert(b)

	tip := c.TipBlock()
	if b.TotalWork.Cmp(tip.TotalWork) > 0 {
		if b.PreviousHash == tip.Hash {
			c.applyExtension(b)
		} else {
			c.applyReorg(tip, b)
		}
	}

	c.retryOrphans(b.Hash, simTime)
	return nil
}

// applyExtension is the common case: b directly extends the current tip.
func (c *Chain) applyExtension(b *types.Block) {
	for _, tx := range b.Transactions {
		if tx.Body.IsCoinbase() {
			continue
		}
		c.mempool.Remove(tx.TxID())
	}
	c.tipHash = b.Hash
	c.rebuildTipState()
	c.cleanMempool()
}

// applyReorg handles b.total_work beating the current tip T without
// directly extending it: find the common ancestor of the old and new
// chains, reinject discarded transactions into the mempool, remove newly
// adopted ones, and swing the tip over — per spec §4.7 step 3's reorg
// branch. If either side's ancestry cannot be walked to genesis, the reorg
// is aborted silently and the old tip is kept (b remains indexed).
func (c *Chain) applyReorg(oldTip, b *types.Block) {
	oldPath, ok := c.idx.PathToGenesis(oldTip.Hash)
	if !ok {
		chainlog.Warn("aborting reorg: old chain ancestry incomplete", "tip", shortHash(oldTip.Hash))
		return
	}
	newPath, ok := c.idx.PathToGenesis(b.Hash)
	if !ok {
		chainlog.Warn("aborting reorg: new chain ancestry incomplete", "candidate", shortHash(b.Hash))
		return
	}

	commonLen := 0
	for commonLen < len(oldPath) && commonLen < len(newPath) && oldPath[commonLen].Hash == newPath[commonLen].Hash {
		commonLen++
	}

	discarded := oldPath[commonLen:]
	adopted := newPath[commonLen:]

	for _, db := range discarded {
		for _, tx := range db.Transactions {
			if tx.Body.IsCoinbase() {
				continue
			}
			c.mempool.Add(tx)
		}
	}
	for _, ab := range adopted {
		for _, tx := range ab.Transactions {
			if tx.Body.IsCoinbase() {
				continue
			}
			c.mempool.Remove(tx.TxID())
		}
	}

	chainlog.Info("reorg", "from", shortHash(oldTip.Hash), "to", shortHash(b.Hash),
		"discarded", len(discarded), "adopted", len(adopted))

	c.tipHash = b.Hash
	c.rebuildTipState()
	c.cleanMempool()
}

func (c *Chain) cleanMempool() {
	confirmed := ConfirmedTxIDs(c.idx, c.tipHash)
	c.mempool.Clean(confirmed, c.tipState)
}

// retryOrphans resubmits every block buffered on parentHash through the
// full receive pipeline, recursively handling arbitrary-depth orphan
// chains (spec §4.10).
func (c *Chain) retryOrphans(parentHash string, simTime int64) {
	for _, child := range c.orphans.PopChildren(parentHash) {
		if err := c.ReceiveBlock(child, simTime); err != nil {
			chainlog.Info("discarding orphan that failed validation once its parent arrived",
				"hash", shortHash(child.Hash), "err", err)
		}
	}
}
