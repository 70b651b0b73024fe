package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2022148073/blockchain-simulator/crypto"
)

func signedTransfer(t *testing.T, signer *crypto.Signer, recipient string, amount, nonce uint64) *Transaction {
	t.Helper()
	body := TxBody{Sender: signer.Address.Hex(), Recipient: recipient, Amount: amount, Nonce: nonce}
	sig := signer.SignDigest(body.Digest())
	return &Transaction{Body: body, Signature: sig, PublicKey: signer.Pub.SerializeUncompressed()}
}

func TestTxIDIgnoresSignature(t *testing.T) {
	signerA, err := crypto.NewSigner()
	require.NoError(t, err)
	signerB, err := crypto.NewSigner()
	require.NoError(t, err)

	recipient := "bob"
	tx1 := signedTransfer(t, signerA, recipient, 10, 1)
	tx2 := &Transaction{Body: tx1.Body, Signature: signerB.SignDigest(tx1.Body.Digest()), PublicKey: signerB.Pub.SerializeUncompressed()}

	assert.Equal(t, tx1.TxID(), tx2.TxID(), "txid must depend only on the body")
}

func TestTxBodyValidate(t *testing.T) {
	cases := []struct {
		name string
		body TxBody
		err  error
	}{
		{"ok", TxBody{Sender: "a", Recipient: "b", Amount: 1, Nonce: 1}, nil},
		{"zero amount", TxBody{Sender: "a", Recipient: "b", Amount: 0, Nonce: 1}, ErrNonPositiveAmount},
		{"self send", TxBody{Sender: "a", Recipient: "a", Amount: 1, Nonce: 1}, ErrSelfSend},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.body.Validate()
			if c.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestCoinbaseIsCoinbase(t *testing.T) {
	tx := NewCoinbase("miner-1", 50)
	assert.True(t, tx.Body.IsCoinbase())
	assert.Empty(t, tx.Signature)
	assert.Empty(t, tx.PublicKey)
}

func TestCloneIsIndependent(t *testing.T) {
	signer, err := crypto.NewSigner()
	require.NoError(t, err)
	tx := signedTransfer(t, signer, "bob", 5, 1)

	cpy := tx.Clone()
	cpy.Signature[0] ^= 0xFF

	assert.NotEqual(t, tx.Signature[0], cpy.Signature[0])
	assert.Equal(t, tx.TxID(), cpy.TxID())
}
