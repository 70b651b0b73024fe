// Package common holds the address type and the canonical hashing helpers
// shared across the consensus core, mirroring the fixed-width byte-array
// convention used throughout the chain packages this module is built from.
package common

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is 20 bytes: the first 20 bytes of the double-SHA-256
// of a serialized public key, per the account-address derivation rule.
const AddressLength = 20

// Address is a 20-byte account identifier, hex-encoded at the edges.
type Address [AddressLength]byte

// BytesToAddress keeps the last AddressLength bytes of b, or left-pads a
// shorter b with zeros.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// HexToAddress decodes a "0x"-optional hex string into an Address.
func HexToAddress(s string) Address {
	return BytesToAddress(FromHex(s))
}

// Hex returns the lowercase hex encoding without a "0x" prefix, matching
// the 40-hex-character address format the spec defines.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

func (a Address) String() string { return a.Hex() }

// Bytes returns a copy of the underlying bytes.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressLength)
	copy(out, a[:])
	return out
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool { return a == Address{} }

// FromHex decodes s, stripping an optional "0x"/"0X" prefix. Invalid hex
// yields an empty slice rather than panicking — callers that need a hard
// error should use DecodeHex instead.
func FromHex(s string) []byte {
	b, err := DecodeHex(s)
	if err != nil {
		return nil
	}
	return b
}

// DecodeHex decodes s (optionally "0x"-prefixed) into bytes.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("common: invalid hex string %q: %w", s, err)
	}
	return b, nil
}

// CopyBytes returns an independent copy of b.
func CopyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
