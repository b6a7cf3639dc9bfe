// Package service provides the cryptographic services behind the settings
// vault: Argon2id key derivation, AEAD blob encryption and the encrypted
// settings store.
package service

import (
	"context"
)

// BlobCipher encrypts and decrypts opaque string payloads. Implementations are
// stateless with respect to callers and safe for concurrent use; the context
// only matters for implementations that talk to a remote keeper.
type BlobCipher interface {
	// Encrypt encrypts plaintext and returns an opaque blob string.
	// Encrypting the same plaintext twice yields different blobs.
	Encrypt(ctx context.Context, plaintext string) (string, error)

	// Decrypt decrypts a blob produced by Encrypt. It fails closed: any
	// malformation or authentication failure returns an error and never
	// partial plaintext.
	Decrypt(ctx context.Context, blob string) (string, error)
}

// MachineIdentityProvider supplies the machine identity string used to bind a
// settings file to one machine. It is abstracted so tests can stub it without
// touching the OS.
type MachineIdentityProvider interface {
	MachineIdentity() (string, error)
}
