// Package core implements the block index, orphan pool, chain selector,
// reorg engine, and mempool discipline: the stateful heart of a Node.
package core

import (
	"github.com/2022148073/blockchain-simulator/core/types"
)

// BlockIndex stores every block known to a node, across every branch,
// keyed by hash. Once inserted a block is never mutated or removed —
// chain selection only changes which hash the tip points at.
type BlockIndex struct {
	blocks map[string]*types.Block
}

// NewBlockIndex returns an empty index.
func NewBlockIndex() *BlockIndex {
	return &BlockIndex{blocks: make(map[string]*types.Block)}
}

// GetByHash implements consensus.AncestorLookup.
func (bi *BlockIndex) GetByHash(hash string) (*types.Block, bool) {
	b, ok := bi.blocks[hash]
	return b, ok
}

// Has reports whether hash is already indexed.
func (bi *BlockIndex) Has(hash string) bool {
	_, ok := bi.blocks[hash]
	return ok
}

// Insert adds b to the index, keyed by its own hash. Callers must ensure
// b.Hash is populated and that b is not already present (see Has).
func (bi *BlockIndex) Insert(b *types.Block) {
	bi.blocks[b.Hash] = b
}

// Len returns the number of indexed blocks.
func (bi *BlockIndex) Len() int { return len(bi.blocks) }

// PathToGenesis walks parent links from hash back to the genesis sentinel
// ("0" previous-hash), returning the path genesis-first. It returns
// (nil, false) if the walk runs off the known index before reaching
// genesis.
func (bi *BlockIndex) PathToGenesis(hash string) ([]*types.Block, bool) {
	var reversed []*types.Block
	curr, ok := bi.GetByHash(hash)
	for ok {
		reversed = append(reversed, curr)
		if curr.IsGenesis() {
			path := make([]*types.Block, len(reversed))
			for i, b := range reversed {
				path[len(reversed)-1-i] = b
			}
			return path, true
		}
		curr, ok = bi.GetByHash(curr.PreviousHash)
	}
	return nil, false
}
