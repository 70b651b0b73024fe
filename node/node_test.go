package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2022148073/blockchain-simulator/chainparams"
	"github.com/2022148073/blockchain-simulator/core/types"
	"github.com/2022148073/blockchain-simulator/crypto"
)

func newTestNode(t *testing.T, id string) *Node {
	t.Helper()
	p := chainparams.Default()
	coinbase := types.NewCoinbase("genesis-miner", p.MiningReward)
	genesis := types.NewBlock(0, 0, []*types.Transaction{coinbase}, p.DefaultDifficulty, types.GenesisPreviousHash, "genesis-miner")
	genesis.MineBlock()
	return New(id, genesis, p)
}

func TestNodeMineAndObserveState(t *testing.T) {
	n := newTestNode(t, "alice")

	b := n.TryMine(1)
	n.ReceiveBlock(b, 1)

	assert.Equal(t, b.Hash, n.GetTipBlock().Hash)
	assert.Equal(t, uint64(50), n.State("alice").Balance)
}

func TestNodeAddTransactionQueuesInMempool(t *testing.T) {
	n := newTestNode(t, "alice")
	signer, err := crypto.NewSigner()
	require.NoError(t, err)

	body := types.TxBody{Sender: signer.Address.Hex(), Recipient: "bob", Amount: 1, Nonce: 1}
	tx := &types.Transaction{Body: body, Signature: signer.SignDigest(body.Digest()), PublicKey: signer.Pub.SerializeUncompressed()}

	n.AddTransaction(tx)

	assert.Equal(t, 1, n.MempoolLen())
}

func TestNodeReceiveBlockSilentlyDropsInvalidBlock(t *testing.T) {
	n := newTestNode(t, "alice")
	tip := n.GetTipBlock()

	bad := types.NewBlock(1, 1, nil, tip.Difficulty, tip.Hash, "mallory") // no coinbase
	bad.MineBlock()

	n.ReceiveBlock(bad, 1)

	assert.Equal(t, tip.Hash, n.GetTipBlock().Hash, "rejected block must not move the tip")
}

func TestNodeMinesTwoBlocksInSequence(t *testing.T) {
	n := newTestNode(t, "alice")

	b1 := n.TryMine(1)
	n.ReceiveBlock(b1, 1)
	b2 := n.TryMine(2)
	n.ReceiveBlock(b2, 2)

	assert.Equal(t, uint64(2), n.GetTipBlock().Index)
	assert.Equal(t, uint64(100), n.State("alice").Balance)
}
