// Package chainparams holds the consensus tunables (spec §6.4) and an
// optional TOML overlay, in the same config-loading style the teacher
// project uses for its own node configuration.
package chainparams

import (
	"fmt"
	"os"

	"github.com/naoina/toml"
)

// Params bundles every consensus tunable. Zero-value Params is invalid;
// always start from Default().
type Params struct {
	// AdjustmentInterval is the fixed block-count interval between
	// difficulty retarget checks.
	AdjustmentInterval uint64 `toml:"adjustment_interval"`
	// TargetBlockTime is the ideal per-block time, in seconds.
	TargetBlockTime int64 `toml:"target_block_time"`
	// MaxStep bounds how far difficulty can move in one retarget.
	MaxStep uint8 `toml:"max_step"`
	// FutureDrift bounds how far into the future (relative to SIM_TIME) a
	// block's timestamp may sit before being rejected.
	FutureDrift int64 `toml:"future_drift"`
	// MaxTimeJump is the warn-only threshold for a suspiciously large
	// parent-to-child timestamp delta.
	MaxTimeJump int64 `toml:"max_time_jump"`
	// MiningReward is the fixed coinbase amount.
	MiningReward uint64 `toml:"mining_reward"`
	// DefaultDifficulty is used for the first AdjustmentInterval blocks.
	DefaultDifficulty uint8 `toml:"default_difficulty"`
	// MaxTxsPerBlock bounds miner tx selection.
	MaxTxsPerBlock int `toml:"max_txs_per_block"`
	// DifficultyFloor is the minimum difficulty a retarget may reach.
	DifficultyFloor uint8 `toml:"difficulty_floor"`
}

// Default returns the literal tunables from spec §6.4.
func Default() Params {
	return Params{
		AdjustmentInterval: 3,
		TargetBlockTime:    2,
		MaxStep:            1,
		FutureDrift:        36,
		MaxTimeJump:        6,
		MiningReward:       50,
		DefaultDifficulty:  2,
		MaxTxsPerBlock:     5,
		DifficultyFloor:    1,
	}
}

// Load overlays a TOML file's fields onto the default tunables — useful
// for test fixtures that want a faster adjustment interval or smaller
// reward without touching code.
func Load(path string) (Params, error) {
	p := Default()
	f, err := os.Open(path)
	if err != nil {
		return p, fmt.Errorf("chainparams: open %s: %w", path, err)
	}
	defer f.Close()
	if err := toml.NewDecoder(f).Decode(&p); err != nil {
		return p, fmt.Errorf("chainparams: decode %s: %w", path, err)
	}
	return p, nil
}
