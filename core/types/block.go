package types

import (
	"github.com/holiman/uint256"

	"github.com/2022148073/blockchain-simulator/common"
)

// GenesisPreviousHash is the sentinel previous-hash value for the genesis
// block, a literal "0" rather than the zero hash — matching the wire
// format the original implementation uses.
const GenesisPreviousHash = "0"

// Block is the immutable unit of the chain: a header of consensus fields
// plus its ordered transaction list. Hash, BlockWork and TotalWork are
// derived fields, not part of the hash preimage (TotalWork in particular
// is only meaningful once the block has been accepted into an index with
// a known parent).
type Block struct {
	Index        uint64         `json:"index"`
	Timestamp    int64          `json:"timestamp"`
	Transactions []*Transaction `json:"transactions"`
	Difficulty   uint8          `json:"difficulty"`
	PreviousHash string         `json:"previous_hash"`
	Nonce        uint64         `json:"nonce"`

	// Out-of-band derived fields: not part of the hash preimage.
	MinerID   string       `json:"miner_id"`
	Hash      string       `json:"-"`
	BlockWork *uint256.Int `json:"-"`
	TotalWork *uint256.Int `json:"-"`
}

// NewBlock constructs a block with its nonce at zero and BlockWork derived
// from difficulty; the caller still owes it a CalculateHash/MineBlock call.
func NewBlock(index uint64, timestamp int64, txs []*Transaction, difficulty uint8, previousHash, minerID string) *Block {
	return &Block{
		Index:        index,
		Timestamp:    timestamp,
		Transactions: txs,
		Difficulty:   difficulty,
		PreviousHash: previousHash,
		MinerID:      minerID,
		BlockWork:    blockWork(difficulty),
	}
}

// blockWork computes 1 << difficulty as a 256-bit integer, matching the
// spec's block_work definition; difficulty is bounded well below 128 by
// the ±1-per-step rule, so this never overflows in practice.
func blockWork(difficulty uint8) *uint256.Int {
	return new(uint256.Int).Lsh(uint256.NewInt(1), uint(difficulty))
}

// txCanonicalList renders the transaction list into the sorted-key map
// shape the hash preimage requires.
func txCanonicalList(txs []*Transaction) []map[string]interface{} {
	out := make([]map[string]interface{}, len(txs))
	for i, tx := range txs {
		entry := map[string]interface{}{
			"body": tx.Body.canonicalMap(),
		}
		if len(tx.Signature) > 0 {
			entry["signature"] = tx.Signature
		} else {
			entry["signature"] = nil
		}
		if len(tx.PublicKey) > 0 {
			entry["public_key"] = tx.PublicKey
		} else {
			entry["public_key"] = nil
		}
		out[i] = entry
	}
	return out
}

// canonicalMap builds the sorted-key preimage of (index, timestamp, txs,
// difficulty, previous_hash, nonce) — miner_id is deliberately excluded,
// per spec §6.2.
func (b *Block) canonicalMap() map[string]interface{} {
	return map[string]interface{}{
		"index":         b.Index,
		"timestamp":     b.Timestamp,
		"transactions":  txCanonicalList(b.Transactions),
		"difficulty":    b.Difficulty,
		"previous_hash": b.PreviousHash,
		"nonce":         b.Nonce,
	}
}

// CalculateHash returns the hex-encoded SHA-256 of the canonical preimage.
func (b *Block) CalculateHash() string {
	return common.Sha256Hex(common.MustCanonicalize(b.canonicalMap()))
}

// leadingZeroHexChars reports whether hash starts with n literal '0'
// hex characters.
func leadingZeroHexChars(hash string, n uint8) bool {
	if int(n) > len(hash) {
		return false
	}
	for i := uint8(0); i < n; i++ {
		if hash[i] != '0' {
			return false
		}
	}
	return true
}

// MeetsTarget reports whether b.Hash satisfies b.Difficulty leading zeros.
func (b *Block) MeetsTarget() bool {
	return leadingZeroHexChars(b.Hash, b.Difficulty)
}

// MineBlock grinds Nonce upward from zero until CalculateHash satisfies
// the difficulty target, setting Hash as a side effect. Single-threaded,
// as the consensus core never parallelizes mining (spec §5).
func (b *Block) MineBlock() {
	b.Nonce = 0
	for {
		b.Hash = b.CalculateHash()
		if b.MeetsTarget() {
			return
		}
		b.Nonce++
	}
}

// SetTotalWork sets BlockWork/TotalWork for a block whose parent's total
// work is known: genesis (parent == nil) is simply its own block work.
func (b *Block) SetTotalWork(parentTotalWork *uint256.Int) {
	b.BlockWork = blockWork(b.Difficulty)
	if parentTotalWork == nil {
		b.TotalWork = new(uint256.Int).Set(b.BlockWork)
		return
	}
	b.TotalWork = new(uint256.Int).Add(parentTotalWork, b.BlockWork)
}

// IsGenesis reports whether b is a genesis block (previous_hash sentinel).
func (b *Block) IsGenesis() bool { return b.PreviousHash == GenesisPreviousHash }

// Clone returns an independently-owned deep copy, including cloned
// transactions, matching the deep-copy-on-hand-off discipline required at
// the ReceiveBlock boundary.
func (b *Block) Clone() *Block {
	txs := make([]*Transaction, len(b.Transactions))
	for i, tx := range b.Transactions {
		txs[i] = tx.Clone()
	}
	cpy := &Block{
		Index:        b.Index,
		Timestamp:    b.Timestamp,
		Transactions: txs,
		Difficulty:   b.Difficulty,
		PreviousHash: b.PreviousHash,
		Nonce:        b.Nonce,
		MinerID:      b.MinerID,
		Hash:         b.Hash,
	}
	if b.BlockWork != nil {
		cpy.BlockWork = new(uint256.Int).Set(b.BlockWork)
	}
	if b.TotalWork != nil {
		cpy.TotalWork = new(uint256.Int).Set(b.TotalWork)
	}
	return cpy
}
