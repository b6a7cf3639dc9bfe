package service

import (
	"os"

	"golang.org/x/crypto/argon2"

	apperrors "github.com/meditrack/trustcore/internal/errors"
)

// Argon2id parameters. These follow the interactive profile recommended for
// x/crypto/argon2 and are fixed: the derivation must stay reproducible across
// releases or every encrypted settings file becomes unreadable.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4

	// KeySize is the derived key length in bytes (AES-256 / HMAC-SHA256).
	KeySize = 32

	// saltSize is the mixed salt length for passphrase-mode derivation.
	saltSize = 16
)

// machineBoundSalt is the fixed salt for machine-bound derivation. The value
// is load-bearing: changing it orphans every settings file encrypted so far.
var machineBoundSalt = []byte("helloworldsalt")

// Derive turns a low-entropy secret into a 32-byte key using Argon2id.
// Deterministic: the same secret and salt always yield the same key, so a
// passphrase typed twice or a machine identity queried twice produces a
// reusable key without persisting it anywhere.
func Derive(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, argonTime, argonMemory, argonThreads, KeySize)
}

// DeriveFromPassphrase derives a key from an operator passphrase using a salt
// mixed deterministically from the passphrase itself.
//
// This deliberately forgoes salt randomization: there is exactly one operator
// per install and no multi-tenant rainbow-table exposure, and a random salt
// would have to be stored alongside the ciphertext to make the key
// reproducible. The trade-off is inherited behavior; changing it breaks every
// existing encrypted file and signing key.
func DeriveFromPassphrase(passphrase string) []byte {
	salt := MixSalt(passphrase)
	return Derive([]byte(passphrase), salt[:])
}

// MixSalt derives a deterministic 16-byte salt from a secret by XOR-folding
// the secret bytes and then adding a position-dependent constant.
func MixSalt(secret string) [saltSize]byte {
	var salt [saltSize]byte

	for i := 0; i < len(secret); i++ {
		salt[i%saltSize] ^= secret[i]
	}
	for i := range salt {
		salt[i] += byte(i) * 17
	}

	return salt
}

// MachineBoundKey derives a key from the local machine identity and the fixed
// machine salt. The binding is only as strong as the identity string's
// secrecy; it keeps a copied settings file useless on another machine but is
// not a cryptographic guarantee against a local attacker.
func MachineBoundKey(provider MachineIdentityProvider) ([]byte, error) {
	identity, err := provider.MachineIdentity()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrEncryption, err.Error())
	}
	return Derive([]byte(identity), machineBoundSalt), nil
}

// osMachineIdentity reads the machine identity from the operating system.
type osMachineIdentity struct{}

// NewOSMachineIdentity returns the default MachineIdentityProvider built from
// hostname and OS username.
func NewOSMachineIdentity() MachineIdentityProvider {
	return &osMachineIdentity{}
}

// MachineIdentity returns "hostname:username". The username falls back to
// "default" when neither USER nor USERNAME is set.
func (o *osMachineIdentity) MachineIdentity() (string, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return "", err
	}

	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME")
	}
	if username == "" {
		username = "default"
	}

	return hostname + ":" + username, nil
}
