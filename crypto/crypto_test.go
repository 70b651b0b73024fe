package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressDerivationIsDeterministic(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	pub := priv.Public()

	addr1 := Address(pub)
	addr2 := Address(pub)

	assert.Equal(t, addr1, addr2)
	assert.Len(t, addr1.Hex(), 40)
}

func TestAddressDerivationDiffersAcrossKeys(t *testing.T) {
	priv1, err := GenerateKey()
	require.NoError(t, err)
	priv2, err := GenerateKey()
	require.NoError(t, err)

	assert.NotEqual(t, Address(priv1.Public()), Address(priv2.Public()))
}

func TestSignVerifyRoundTrip(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	pub := priv.Public()
	digest, err := RandomDigest()
	require.NoError(t, err)

	sig := Sign(priv, digest)

	assert.True(t, Verify(pub, digest, sig))
}

func TestVerifyRejectsWrongDigest(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	pub := priv.Public()
	digest, err := RandomDigest()
	require.NoError(t, err)
	other, err := RandomDigest()
	require.NoError(t, err)

	sig := Sign(priv, digest)

	assert.False(t, Verify(pub, other, sig))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	other, err := GenerateKey()
	require.NoError(t, err)
	digest, err := RandomDigest()
	require.NoError(t, err)

	sig := Sign(priv, digest)

	assert.False(t, Verify(other.Public(), digest, sig))
}

func TestVerifyRejectsGarbageSignature(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	digest, err := RandomDigest()
	require.NoError(t, err)

	assert.False(t, Verify(priv.Public(), digest, []byte("not a signature")))
}

func TestUnmarshalPublicKeyRoundTrip(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)
	pub := priv.Public()

	parsed, err := UnmarshalPublicKey(pub.SerializeUncompressed())
	require.NoError(t, err)

	assert.Equal(t, Address(pub), Address(parsed))
}

func TestUnmarshalPublicKeyRejectsMalformedInput(t *testing.T) {
	_, err := UnmarshalPublicKey([]byte{0x01, 0x02, 0x03})

	assert.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestPrivateKeyFromBytesRoundTrip(t *testing.T) {
	priv, err := GenerateKey()
	require.NoError(t, err)

	restored := PrivateKeyFromBytes(priv.Bytes())

	assert.Equal(t, priv.Bytes(), restored.Bytes())
	assert.Equal(t, Address(priv.Public()), Address(restored.Public()))
}

func TestNewSignerAddressMatchesDerivedPublicKey(t *testing.T) {
	signer, err := NewSigner()
	require.NoError(t, err)

	assert.Equal(t, Address(signer.Pub), signer.Address)
}

func TestSignDigestVerifiesUnderSignerKey(t *testing.T) {
	signer, err := NewSigner()
	require.NoError(t, err)
	digest, err := RandomDigest()
	require.NoError(t, err)

	sig := signer.SignDigest(digest)

	assert.True(t, Verify(signer.Pub, digest, sig))
}
