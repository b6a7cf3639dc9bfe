package service

import (
	"context"
	"encoding/base64"

	"gocloud.dev/secrets"

	apperrors "github.com/meditrack/trustcore/internal/errors"

	// Register KMS provider drivers for keeper URIs.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KeeperCipher implements BlobCipher over an external KMS keeper. Used when
// the vault runs in keeper mode: the settings blob is wrapped by the keeper
// instead of a locally derived key, so the binding follows the keeper's
// access policy rather than the machine identity.
//
// The blob format is keeper-specific ciphertext in standard base64; it is not
// interchangeable with AESBlobCipher blobs.
type KeeperCipher struct {
	keeper *secrets.Keeper
}

// OpenKeeperCipher opens a keeper for the given URI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func OpenKeeperCipher(ctx context.Context, keyURI string) (*KeeperCipher, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEncryption, err.Error())
	}
	return &KeeperCipher{keeper: keeper}, nil
}

// Encrypt wraps plaintext through the keeper and base64-encodes the result.
func (k *KeeperCipher) Encrypt(ctx context.Context, plaintext string) (string, error) {
	ciphertext, err := k.keeper.Encrypt(ctx, []byte(plaintext))
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrEncryption, err.Error())
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt unwraps a blob produced by Encrypt. Fails closed.
func (k *KeeperCipher) Decrypt(ctx context.Context, blob string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrDecryption, "invalid base64")
	}

	plaintext, err := k.keeper.Decrypt(ctx, data)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrDecryption, err.Error())
	}
	return string(plaintext), nil
}

// Close releases the keeper connection.
func (k *KeeperCipher) Close() error {
	return k.keeper.Close()
}

var _ BlobCipher = (*KeeperCipher)(nil)
