// Package consensus implements the difficulty retargeter and the
// block-level validation rules (spec §4.4, §4.8) that do not themselves
// require mutating any node state — they only read the block index.
package consensus

import (
	"github.com/2022148073/blockchain-simulator/chainparams"
	"github.com/2022148073/blockchain-simulator/core/types"
)

// AncestorLookup resolves a block by hash, the minimal read-only view the
// difficulty retargeter needs into the block index to walk ancestors.
type AncestorLookup interface {
	GetByHash(hash string) (*types.Block, bool)
}

// AncestorAtHeight walks parent links from block back to targetHeight,
// returning nil if the walk runs off the known index before reaching it.
// Mirrors the original implementation's get_ancestor helper.
func AncestorAtHeight(idx AncestorLookup, block *types.Block, targetHeight uint64) *types.Block {
	curr := block
	for curr != nil && curr.Index > targetHeight {
		parent, ok := idx.GetByHash(curr.PreviousHash)
		if !ok {
			return nil
		}
		curr = parent
	}
	return curr
}

// ExpectedDifficulty computes the difficulty newBlock must carry given its
// parent, per spec §4.8:
//
//   - height <= AdjustmentInterval: DefaultDifficulty.
//   - not on an adjustment boundary: parent's difficulty, unchanged.
//   - on a boundary: compare elapsed time over the interval's ancestor
//     window against the ideal window, stepping by at most MaxStep and
//     never dropping below DifficultyFloor.
func ExpectedDifficulty(idx AncestorLookup, p chainparams.Params, newBlock, parent *types.Block) uint8 {
	if newBlock.Index <= p.AdjustmentInterval {
		return p.DefaultDifficulty
	}
	if newBlock.Index%p.AdjustmentInterval != 0 {
		return parent.Difficulty
	}

	startIndex := newBlock.Index - p.AdjustmentInterval
	start := AncestorAtHeight(idx, parent, startIndex)
	if start == nil {
		return parent.Difficulty
	}

	elapsed := parent.Timestamp - start.Timestamp
	ideal := p.TargetBlockTime * int64(p.AdjustmentInterval)

	switch {
	case elapsed < ideal/2:
		return parent.Difficulty + p.MaxStep
	case elapsed > ideal*2:
		if int(parent.Difficulty)-int(p.MaxStep) < int(p.DifficultyFloor) {
			return p.DifficultyFloor
		}
		return parent.Difficulty - p.MaxStep
	default:
		return parent.Difficulty
	}
}
