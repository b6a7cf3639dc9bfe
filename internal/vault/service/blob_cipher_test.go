package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/meditrack/trustcore/internal/errors"
)

func testCipher(t *testing.T) *AESBlobCipher {
	t.Helper()
	cipher, err := NewPassphraseCipher("unit-test-passphrase")
	require.NoError(t, err)
	return cipher
}

func TestNewAESBlobCipher_RejectsBadKeySize(t *testing.T) {
	_, err := NewAESBlobCipher(make([]byte, 16))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrEncryption))
}

func TestAESBlobCipher_RoundTrip(t *testing.T) {
	cipher := testCipher(t)
	ctx := context.Background()

	plaintexts := []string{
		"",
		"Hello, World!",
		`{"database":{"host":"localhost"}}`,
		"unicode: aspirin 500mg — ação ünïcode ✓",
	}

	for _, plaintext := range plaintexts {
		blob, err := cipher.Encrypt(ctx, plaintext)
		require.NoError(t, err)

		decrypted, err := cipher.Decrypt(ctx, blob)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestAESBlobCipher_NonceDistinctness(t *testing.T) {
	cipher := testCipher(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		blob, err := cipher.Encrypt(ctx, "same plaintext")
		require.NoError(t, err)
		assert.False(t, seen[blob], "encrypting the same plaintext twice produced the same blob")
		seen[blob] = true
	}
}

func TestAESBlobCipher_TamperDetection(t *testing.T) {
	cipher := testCipher(t)
	ctx := context.Background()

	blob, err := cipher.Encrypt(ctx, "sensitive settings payload")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	// Flip one byte at every position: nonce, ciphertext and tag alike.
	for i := range raw {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[i] ^= 0x01

		_, err := cipher.Decrypt(ctx, base64.StdEncoding.EncodeToString(tampered))
		require.Error(t, err, "tampered byte %d decrypted successfully", i)
		assert.True(t, apperrors.Is(err, apperrors.ErrDecryption))
	}
}

func TestAESBlobCipher_DecryptFailsClosed(t *testing.T) {
	cipher := testCipher(t)
	ctx := context.Background()

	t.Run("InvalidBase64", func(t *testing.T) {
		_, err := cipher.Decrypt(ctx, "not-valid-base64!!!")
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrDecryption))
	})

	t.Run("ShorterThanNonce", func(t *testing.T) {
		short := base64.StdEncoding.EncodeToString([]byte("tiny"))
		_, err := cipher.Decrypt(ctx, short)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrDecryption))
	})

	t.Run("WrongKey", func(t *testing.T) {
		blob, err := cipher.Encrypt(ctx, "payload")
		require.NoError(t, err)

		other, err := NewPassphraseCipher("a different passphrase")
		require.NoError(t, err)

		_, err = other.Decrypt(ctx, blob)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrDecryption))
	})
}

func TestNewMachineBoundCipher(t *testing.T) {
	provider := &stubIdentity{identity: "pharmacy-front-desk:alice"}
	ctx := context.Background()

	first, err := NewMachineBoundCipher(provider)
	require.NoError(t, err)
	second, err := NewMachineBoundCipher(provider)
	require.NoError(t, err)

	// Same machine identity: blobs are interchangeable between instances.
	blob, err := first.Encrypt(ctx, "bound to this machine")
	require.NoError(t, err)
	decrypted, err := second.Decrypt(ctx, blob)
	require.NoError(t, err)
	assert.Equal(t, "bound to this machine", decrypted)

	// A different machine cannot decrypt.
	elsewhere, err := NewMachineBoundCipher(&stubIdentity{identity: "other-host:mallory"})
	require.NoError(t, err)
	_, err = elsewhere.Decrypt(ctx, blob)
	assert.Error(t, err)
}
