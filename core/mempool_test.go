package core

import (
	"testing"

	mapset "github.com/deckarep/golang-set"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2022148073/blockchain-simulator/core/state"
	"github.com/2022148073/blockchain-simulator/core/types"
	"github.com/2022148073/blockchain-simulator/crypto"
)

func signedTx(t *testing.T, signer *crypto.Signer, recipient string, amount, nonce uint64) *types.Transaction {
	t.Helper()
	body := types.TxBody{Sender: signer.Address.Hex(), Recipient: recipient, Amount: amount, Nonce: nonce}
	return &types.Transaction{
		Body:      body,
		Signature: signer.SignDigest(body.Digest()),
		PublicKey: signer.Pub.SerializeUncompressed(),
	}
}

func TestMempoolAddPreservesOrder(t *testing.T) {
	signer, err := crypto.NewSigner()
	require.NoError(t, err)

	m := NewMempool()
	tx1 := signedTx(t, signer, "bob", 10, 1)
	tx2 := signedTx(t, signer, "carol", 5, 2)
	m.Add(tx1)
	m.Add(tx2)

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, tx1.TxID(), list[0].TxID())
	assert.Equal(t, tx2.TxID(), list[1].TxID())
}

func TestMempoolAddDeduplicatesByTxID(t *testing.T) {
	signer, err := crypto.NewSigner()
	require.NoError(t, err)

	m := NewMempool()
	tx := signedTx(t, signer, "bob", 10, 1)
	m.Add(tx)
	m.Add(tx)

	assert.Equal(t, 1, m.Len())
}

func TestMempoolRemove(t *testing.T) {
	signer, err := crypto.NewSigner()
	require.NoError(t, err)

	m := NewMempool()
	tx := signedTx(t, signer, "bob", 10, 1)
	m.Add(tx)
	m.Remove(tx.TxID())

	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Contains(tx.TxID()))
}

func TestMempoolCleanDropsConfirmedAndInvalid(t *testing.T) {
	signer, err := crypto.NewSigner()
	require.NoError(t, err)

	s := state.New()
	s.ApplyCoinbase(signer.Address.Hex(), 100)

	confirmedTx := signedTx(t, signer, "bob", 10, 1)
	validTx := signedTx(t, signer, "carol", 10, 1)
	staleTx := signedTx(t, signer, "dave", 10, 7) // wrong nonce
	tooExpensive := signedTx(t, signer, "eve", 1000, 1)

	m := NewMempool()
	m.Add(confirmedTx)
	m.Add(validTx)
	m.Add(staleTx)
	m.Add(tooExpensive)

	confirmed := mapset.NewThreadUnsafeSet()
	confirmed.Add(confirmedTx.TxID())

	m.Clean(confirmed, s)

	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, validTx.TxID(), list[0].TxID())
}

func TestMempoolCleanAppliesEffectsInOrderForDependentTxs(t *testing.T) {
	signer, err := crypto.NewSigner()
	require.NoError(t, err)

	s := state.New()
	s.ApplyCoinbase(signer.Address.Hex(), 20)

	tx1 := signedTx(t, signer, "bob", 15, 1)
	tx2 := signedTx(t, signer, "carol", 10, 2) // affordable against the initial 20, not against the balance left after tx1

	m := NewMempool()
	m.Add(tx1)
	m.Add(tx2)

	m.Clean(mapset.NewThreadUnsafeSet(), s)

	// tx1 leaves 5 remaining, too little for tx2's amount of 10: tx2 drops.
	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, tx1.TxID(), list[0].TxID())
}

func TestConfirmedTxIDsWalksToGenesis(t *testing.T) {
	idx := NewBlockIndex()
	genesis := mineTestGenesis()
	idx.Insert(genesis)
	child := mineTestChild(genesis, "m1", 1, 1)
	idx.Insert(child)

	confirmed := ConfirmedTxIDs(idx, child.Hash)

	assert.True(t, confirmed.Contains(genesis.Transactions[0].TxID()))
	assert.True(t, confirmed.Contains(child.Transactions[0].TxID()))
}
