// Package crypto wraps secp256k1 key generation, ECDSA signing/verification
// and address derivation for the consensus core. Keys are the same curve
// Bitcoin uses; verification fails closed on any malformed input.
package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/2022148073/blockchain-simulator/common"
)

var (
	// ErrInvalidPublicKey is returned when a serialized public key cannot
	// be parsed back into a curve point.
	ErrInvalidPublicKey = errors.New("crypto: invalid public key")
	// ErrInvalidSignature is returned when a serialized signature cannot
	// be parsed.
	ErrInvalidSignature = errors.New("crypto: invalid signature")
)

// PrivateKey is a secp256k1 private key.
type PrivateKey struct {
	key *btcec.PrivateKey
}

// PublicKey is a secp256k1 public key.
type PublicKey struct {
	key *btcec.PublicKey
}

// GenerateKey creates a new random secp256k1 keypair.
func GenerateKey() (*PrivateKey, error) {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("crypto: generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// Public returns the public key paired with priv.
func (priv *PrivateKey) Public() *PublicKey {
	return &PublicKey{key: priv.key.PubKey()}
}

// Bytes returns the raw 32-byte scalar encoding of the private key.
// Exported only for tests and wallet-style fixtures; never serialized to
// the wire by consensus code.
func (priv *PrivateKey) Bytes() []byte {
	return priv.key.Serialize()
}

// PrivateKeyFromBytes restores a private key from its raw scalar encoding.
func PrivateKeyFromBytes(b []byte) *PrivateKey {
	key, _ := btcec.PrivKeyFromBytes(b)
	return &PrivateKey{key: key}
}

// SerializeUncompressed returns the 65-byte uncompressed point encoding
// (0x04 || X || Y) used as the canonical public-key serialization for
// address derivation and signature verification throughout this module.
func (pub *PublicKey) SerializeUncompressed() []byte {
	return pub.key.SerializeUncompressed()
}

// UnmarshalPublicKey parses the uncompressed point encoding produced by
// SerializeUncompressed.
func UnmarshalPublicKey(b []byte) (*PublicKey, error) {
	key, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}
	return &PublicKey{key: key}, nil
}

// Address derives the 40-hex-character account address from pub: the
// first 20 bytes of SHA256(SHA256(serialize(pub))).
func Address(pub *PublicKey) common.Address {
	digest := common.DoubleSha256(pub.SerializeUncompressed())
	return common.BytesToAddress(digest[:common.AddressLength])
}

// Sign signs a 32-byte digest (the SHA-256 of a canonical message) and
// returns the DER-encoded signature.
func Sign(priv *PrivateKey, digest [32]byte) []byte {
	sig := btcecdsa.Sign(priv.key, digest[:])
	return sig.Serialize()
}

// Verify reports whether sig is a valid ECDSA signature over digest under
// pub. It fails closed: any parse error is treated as an invalid signature.
func Verify(pub *PublicKey, digest [32]byte, sig []byte) bool {
	parsed, err := btcecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	return parsed.Verify(digest[:], pub.key)
}

// Signer bundles a keypair with its derived address, the minimal
// wallet-shaped helper used by tests to build realistically signed
// transactions without repeating the sign/serialize dance inline. The
// interactive wallet CLI itself is out of this module's scope.
type Signer struct {
	Priv    *PrivateKey
	Pub     *PublicKey
	Address common.Address
}

// NewSigner generates a fresh keypair and its address.
func NewSigner() (*Signer, error) {
	priv, err := GenerateKey()
	if err != nil {
		return nil, err
	}
	pub := priv.Public()
	return &Signer{Priv: priv, Pub: pub, Address: Address(pub)}, nil
}

// SignDigest signs a precomputed 32-byte digest.
func (s *Signer) SignDigest(digest [32]byte) []byte {
	return Sign(s.Priv, digest)
}

// RandomDigest is a test helper producing 32 random bytes, useful for
// property tests that only need "some distinct digest".
func RandomDigest() ([32]byte, error) {
	var d [32]byte
	_, err := rand.Read(d[:])
	return d, err
}
