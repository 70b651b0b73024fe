package common

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Canonicalize serializes v as JSON with lexicographically sorted object
// keys and no insignificant whitespace. Go's encoding/json already sorts
// map keys on marshal, so feeding it a map (rather than a struct, whose
// field order would otherwise leak) is sufficient to satisfy the
// canonicalization rule every hash preimage and signed message must obey.
//
// v must already be shaped as the plain map/slice/scalar tree that is to
// be hashed or signed — callers are responsible for building that shape
// (see core/types for the transaction body and block preimage builders).
func Canonicalize(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// MustCanonicalize panics on a marshal error; only safe for v shapes built
// entirely from maps, slices and JSON-safe scalars, which never fail to
// marshal.
func MustCanonicalize(v interface{}) []byte {
	b, err := Canonicalize(v)
	if err != nil {
		panic(err)
	}
	return b
}

// Sha256 returns the raw SHA-256 digest of data.
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Sha256Hex returns the hex-encoded SHA-256 digest of data.
func Sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DoubleSha256 returns SHA-256(SHA-256(data)), used for address derivation.
func DoubleSha256(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}
