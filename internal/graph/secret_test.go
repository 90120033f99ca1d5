package graph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSaltedHashDeterministic(t *testing.T) {
	salt, err := randomSalt()
	require.NoError(t, err)
	secret := []byte("correct horse battery staple")

	h1, err := saltedHash(salt, nil, secret)
	require.NoError(t, err)
	h2, err := saltedHash(salt, nil, secret)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestSaltedHashDiffersBySalt(t *testing.T) {
	secret := []byte("correct horse battery staple")
	salt1, err := randomSalt()
	require.NoError(t, err)
	salt2, err := randomSalt()
	require.NoError(t, err)
	require.NotEqual(t, salt1, salt2)

	h1, err := saltedHash(salt1, nil, secret)
	require.NoError(t, err)
	h2, err := saltedHash(salt2, nil, secret)
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestSaltedHashDiffersByPepper(t *testing.T) {
	salt, err := randomSalt()
	require.NoError(t, err)
	secret := []byte("correct horse battery staple")

	withoutPepper, err := saltedHash(salt, nil, secret)
	require.NoError(t, err)
	withPepper, err := saltedHash(salt, []byte("pepper"), secret)
	require.NoError(t, err)
	require.NotEqual(t, withoutPepper, withPepper)
}

func TestRandomSecretIsURLSafe(t *testing.T) {
	raw, text, err := randomSecret()
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	require.NotContains(t, text, "+")
	require.NotContains(t, text, "/")
}
