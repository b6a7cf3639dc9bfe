package app

import (
	"context"
	"fmt"

	"github.com/meditrack/trustcore/internal/config"
	vaultDomain "github.com/meditrack/trustcore/internal/vault/domain"
	vaultService "github.com/meditrack/trustcore/internal/vault/service"
)

// SetPassphrase provides the operator passphrase used to unlock the vault when
// VAULT_MODE is "passphrase". It must be called before the vault cipher is
// first accessed.
func (c *Container) SetPassphrase(passphrase string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.passphrase = passphrase
}

// VaultCipher returns the blob cipher selected by the vault mode.
func (c *Container) VaultCipher() (vaultService.BlobCipher, error) {
	var err error
	c.vaultCipherInit.Do(func() {
		c.vaultCipher, err = c.initVaultCipher()
		if err != nil {
			c.initErrors["vaultCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultCipher"]; exists {
		return nil, storedErr
	}
	return c.vaultCipher, nil
}

// VaultStore returns the encrypted settings store.
func (c *Container) VaultStore() (*vaultService.Store, error) {
	var err error
	c.vaultStoreInit.Do(func() {
		c.vaultStore, err = c.initVaultStore()
		if err != nil {
			c.initErrors["vaultStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["vaultStore"]; exists {
		return nil, storedErr
	}
	return c.vaultStore, nil
}

// Settings returns the decrypted settings document, loading it once on first
// access. A missing or unreadable settings file yields the compiled-in
// defaults.
func (c *Container) Settings() (*vaultDomain.Settings, error) {
	var err error
	c.settingsInit.Do(func() {
		c.settings, err = c.initSettings()
		if err != nil {
			c.initErrors["settings"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["settings"]; exists {
		return nil, storedErr
	}
	return c.settings, nil
}

// initVaultCipher creates the blob cipher selected by the vault mode.
func (c *Container) initVaultCipher() (vaultService.BlobCipher, error) {
	switch c.config.VaultMode {
	case config.VaultModeMachine:
		cipher, err := vaultService.NewMachineBoundCipher(vaultService.NewOSMachineIdentity())
		if err != nil {
			return nil, fmt.Errorf("failed to create machine-bound cipher: %w", err)
		}
		return cipher, nil
	case config.VaultModePassphrase:
		c.mu.Lock()
		passphrase := c.passphrase
		c.mu.Unlock()
		if passphrase == "" {
			return nil, fmt.Errorf("vault mode %q requires a passphrase, call SetPassphrase first", c.config.VaultMode)
		}
		cipher, err := vaultService.NewPassphraseCipher(passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to create passphrase cipher: %w", err)
		}
		return cipher, nil
	case config.VaultModeKeeper:
		if c.config.VaultKeeperURI == "" {
			return nil, fmt.Errorf("vault mode %q requires VAULT_KEEPER_URI", c.config.VaultMode)
		}
		cipher, err := vaultService.OpenKeeperCipher(context.Background(), c.config.VaultKeeperURI)
		if err != nil {
			return nil, fmt.Errorf("failed to open keeper cipher: %w", err)
		}
		c.keeperCloser = cipher
		return cipher, nil
	default:
		return nil, fmt.Errorf("unsupported vault mode: %s", c.config.VaultMode)
	}
}

// initVaultStore creates the encrypted settings store.
func (c *Container) initVaultStore() (*vaultService.Store, error) {
	cipher, err := c.VaultCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get cipher for vault store: %w", err)
	}
	return vaultService.NewStore(c.config.VaultDir, cipher, c.Logger()), nil
}

// initSettings loads the settings document once.
func (c *Container) initSettings() (*vaultDomain.Settings, error) {
	store, err := c.VaultStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get vault store for settings: %w", err)
	}
	return store.LoadOrDefault(context.Background()), nil
}
