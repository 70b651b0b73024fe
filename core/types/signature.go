package types

import (
	"github.com/2022148073/blockchain-simulator/crypto"
)

// VerifySignature implements the signature layer (spec §4.3): coinbase
// transactions bypass the check entirely; regular transactions must carry
// a signature and public key whose derived address matches the sender,
// and the signature must verify over the canonical body digest.
func VerifySignature(tx *Transaction) bool {
	if tx.Body.IsCoinbase() {
		return true
	}
	if len(tx.Signature) == 0 || len(tx.PublicKey) == 0 {
		return false
	}
	pub, err := crypto.UnmarshalPublicKey(tx.PublicKey)
	if err != nil {
		return false
	}
	if crypto.Address(pub).Hex() != tx.Body.Sender {
		return false
	}
	return crypto.Verify(pub, tx.Body.Digest(), tx.Signature)
}
