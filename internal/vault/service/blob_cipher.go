package service

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"

	apperrors "github.com/meditrack/trustcore/internal/errors"
	vaultDomain "github.com/meditrack/trustcore/internal/vault/domain"
)

// nonceSize is the AES-GCM nonce length in bytes.
const nonceSize = 12

// AESBlobCipher implements BlobCipher using AES-256-GCM.
//
// The blob format is base64std(nonce || ciphertext+tag): no header and no
// version byte, so format migration must be handled out of band by callers.
// A fresh random nonce is generated per encryption, which makes identical
// plaintexts produce different blobs.
//
// The cipher instance is stateless after construction and safe for concurrent
// use from multiple goroutines.
type AESBlobCipher struct {
	aead cipher.AEAD
}

// NewAESBlobCipher creates a cipher from a 32-byte key. The caller's key slice
// is no longer needed after construction and is zeroed here: the cipher is the
// sole owner of the key material for its lifetime.
func NewAESBlobCipher(key []byte) (*AESBlobCipher, error) {
	if len(key) != KeySize {
		return nil, apperrors.Wrap(apperrors.ErrEncryption, "key must be exactly 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEncryption, err.Error())
	}
	vaultDomain.Zero(key)

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEncryption, err.Error())
	}

	return &AESBlobCipher{aead: aead}, nil
}

// NewMachineBoundCipher creates a cipher keyed to the local machine identity.
func NewMachineBoundCipher(provider MachineIdentityProvider) (*AESBlobCipher, error) {
	key, err := MachineBoundKey(provider)
	if err != nil {
		return nil, err
	}
	return NewAESBlobCipher(key)
}

// NewPassphraseCipher creates a cipher keyed from an operator passphrase.
func NewPassphraseCipher(passphrase string) (*AESBlobCipher, error) {
	return NewAESBlobCipher(DeriveFromPassphrase(passphrase))
}

// Encrypt encrypts plaintext and returns base64std(nonce || ciphertext).
func (c *AESBlobCipher) Encrypt(_ context.Context, plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", apperrors.Wrap(apperrors.ErrEncryption, "failed to generate nonce")
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt decrypts a blob produced by Encrypt. Fails closed on malformed
// base64, blobs shorter than the nonce, and authentication-tag mismatches.
func (c *AESBlobCipher) Decrypt(_ context.Context, blob string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrDecryption, "invalid base64")
	}

	if len(data) < nonceSize {
		return "", vaultDomain.ErrCiphertextTooShort
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrDecryption, "authentication failed")
	}

	return string(plaintext), nil
}

var _ BlobCipher = (*AESBlobCipher)(nil)
