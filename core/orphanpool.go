package core

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/2022148073/blockchain-simulator/core/types"
	"github.com/2022148073/blockchain-simulator/internal/chainlog"
)

// defaultOrphanPoolCapacity bounds the number of distinct parent hashes
// the orphan pool tracks; spec §9 flags mempool/orphan sizing as an
// embedder concern the source itself leaves unbounded, so this module
// supplies an eviction policy (least-recently-used parent hash first) via an LRU cache
// rather than growing without limit.
const defaultOrphanPoolCapacity = 4096

// OrphanPool buffers blocks whose parent is not yet known to the index,
// keyed by the parent hash they are waiting on.
type OrphanPool struct {
	waiting *lru.Cache // parent hash -> []*types.Block
}

// NewOrphanPool returns an empty orphan pool with the default capacity.
func NewOrphanPool() *OrphanPool {
	c, err := lru.New(defaultOrphanPoolCapacity)
	if err != nil {
		// Only returns an error for a non-positive size, which the
		// constant above never is.
		panic(err)
	}
	return &OrphanPool{waiting: c}
}

// Add buffers b under the parent hash it is waiting on.
func (op *OrphanPool) Add(b *types.Block) {
	var children []*types.Block
	if v, ok := op.waiting.Get(b.PreviousHash); ok {
		children = v.([]*types.Block)
	}
	children = append(children, b)
	op.waiting.Add(b.PreviousHash, children)
	chainlog.Info("buffered orphan block awaiting parent",
		"hash", shortHash(b.Hash), "awaiting", shortHash(b.PreviousHash))
}

// PopChildren removes and returns every block waiting on parentHash, if
// any. Callers are expected to resubmit each through the full receive
// pipeline (spec §4.10).
func (op *OrphanPool) PopChildren(parentHash string) []*types.Block {
	v, ok := op.waiting.Get(parentHash)
	if !ok {
		return nil
	}
	op.waiting.Remove(parentHash)
	return v.([]*types.Block)
}

// Len returns the number of distinct parent hashes with buffered children.
func (op *OrphanPool) Len() int { return op.waiting.Len() }

func shortHash(h string) string {
	if len(h) <= 8 {
		return h
	}
	return h[:8]
}
