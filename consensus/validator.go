package consensus

import (
	"errors"
	"fmt"

	"github.com/2022148073/blockchain-simulator/chainparams"
	"github.com/2022148073/blockchain-simulator/core/state"
	"github.com/2022148073/blockchain-simulator/core/types"
	"github.com/2022148073/blockchain-simulator/internal/chainlog"
)

// Per-branch validation errors, kept distinct (rather than one generic
// "invalid block" error) so callers and logs can tell which of the nine
// validator steps in spec §4.4 failed — the original implementation
// prints a distinct message per branch, which this preserves as a
// distinct sentinel per branch instead of an undifferentiated bool.
var (
	ErrHashMismatch         = errors.New("consensus: block hash does not match its contents")
	ErrWrongParent          = errors.New("consensus: previous_hash does not match parent")
	ErrPoWNotMet            = errors.New("consensus: hash does not meet the difficulty target")
	ErrWrongDifficulty      = errors.New("consensus: difficulty does not match the expected value")
	ErrNonMonotonicTime     = errors.New("consensus: timestamp does not advance past parent")
	ErrFutureBlock          = errors.New("consensus: timestamp is beyond the allowed future drift")
	ErrDifficultyStepTooBig = errors.New("consensus: difficulty changed by more than the allowed step")
)

// ValidateBlock runs the nine ordered checks of spec §4.4 against block b
// with known parent, using parentState, the state as of parent (computed
// by the caller via state replay). idx resolves ancestors for the
// difficulty retarget, p supplies the tunables, and simTime is the current
// SIM_TIME reading used for the future-drift check.
//
// Validation is all-or-nothing: on any failure, no state is mutated and a
// single error identifying the first failing check is returned.
func ValidateBlock(idx AncestorLookup, p chainparams.Params, b, parent *types.Block, parentState state.State, simTime int64) error {
	if b.Hash != b.CalculateHash() {
		return ErrHashMismatch
	}
	if b.PreviousHash != parent.Hash {
		return ErrWrongParent
	}
	if !b.MeetsTarget() {
		return fmt.Errorf("%w: difficulty=%d hash=%s", ErrPoWNotMet, b.Difficulty, b.Hash)
	}
	expected := ExpectedDifficulty(idx, p, b, parent)
	if b.Difficulty != expected {
		return fmt.Errorf("%w: expected=%d got=%d", ErrWrongDifficulty, expected, b.Difficulty)
	}
	if b.Timestamp <= parent.Timestamp {
		return ErrNonMonotonicTime
	}
	if b.Timestamp > simTime+p.FutureDrift {
		return fmt.Errorf("%w: timestamp=%d limit=%d", ErrFutureBlock, b.Timestamp, simTime+p.FutureDrift)
	}
	if absDiffUint8(b.Difficulty, parent.Difficulty) > p.MaxStep {
		return fmt.Errorf("%w: parent=%d new=%d", ErrDifficultyStepTooBig, parent.Difficulty, b.Difficulty)
	}
	if b.Timestamp-parent.Timestamp > p.MaxTimeJump {
		// Advisory only per spec §4.4 step 8 / §9 open question 1: logged,
		// not rejected.
		chainlog.Warn("large timestamp jump between consecutive blocks",
			"parent_ts", parent.Timestamp, "block_ts", b.Timestamp, "limit", p.MaxTimeJump)
	}

	return ValidateTransactions(b, parentState, p.MiningReward)
}

func absDiffUint8(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

// ValidateTransactions implements spec §4.5: it applies b.Transactions in
// listed order to a working copy of parentState, enforcing the coinbase
// and regular-transaction effect rules, and requires exactly one
// coinbase. It never mutates parentState.
func ValidateTransactions(b *types.Block, parentState state.State, miningReward uint64) error {
	working := parentState.Clone()
	coinbaseCount := 0

	for _, tx := range b.Transactions {
		if err := tx.Body.Validate(); err != nil {
			return err
		}

		if tx.Body.IsCoinbase() {
			coinbaseCount++
			if coinbaseCount > 1 {
				return state.ErrMultipleCoinbase
			}
			if tx.Body.Amount != miningReward {
				return fmt.Errorf("%w: got=%d want=%d", state.ErrWrongCoinbaseAmount, tx.Body.Amount, miningReward)
			}
			if tx.Body.Recipient != b.MinerID {
				return fmt.Errorf("%w: got=%s want=%s", state.ErrWrongCoinbaseRecipient, tx.Body.Recipient, b.MinerID)
			}
			working.ApplyCoinbase(tx.Body.Recipient, tx.Body.Amount)
			continue
		}

		if !types.VerifySignature(tx) {
			return fmt.Errorf("%w: sender=%s", state.ErrBadSignature, tx.Body.Sender)
		}
		if err := working.ValidateAndApplyTransfer(tx.Body); err != nil {
			return err
		}
	}

	if coinbaseCount == 0 {
		return state.ErrMissingCoinbase
	}
	return nil
}
