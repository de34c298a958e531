package sign

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) *ecdsa.PrivateKey {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func TestSignAndVerifyRoundTrips(t *testing.T) {
	key := generateKey(t)

	raw, err := Sign(key, 100, 200, 1700000000, nil)
	require.NoError(t, err)

	err = Verify(raw, &key.PublicKey, 100, 200, nil)
	assert.NoError(t, err)
}

func TestVerifyRejectsMismatchedRoots(t *testing.T) {
	key := generateKey(t)

	raw, err := Sign(key, 100, 200, 1700000000, nil)
	require.NoError(t, err)

	err = Verify(raw, &key.PublicKey, 100, 999, nil)
	assert.ErrorIs(t, err, ErrRootMismatch)
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	key := generateKey(t)
	other := generateKey(t)

	raw, err := Sign(key, 100, 200, 1700000000, nil)
	require.NoError(t, err)

	err = Verify(raw, &other.PublicKey, 100, 200, nil)
	assert.Error(t, err)
}

func TestVerifyRejectsTamperedExternal(t *testing.T) {
	key := generateKey(t)

	raw, err := Sign(key, 100, 200, 1700000000, []byte("trace-identity-v1"))
	require.NoError(t, err)

	err = Verify(raw, &key.PublicKey, 100, 200, []byte("trace-identity-v2"))
	assert.Error(t, err)
}

func TestRootDigestIsStableAndSensitiveToInputs(t *testing.T) {
	a := RootDigest(1, 2)
	b := RootDigest(1, 2)
	c := RootDigest(2, 1)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
