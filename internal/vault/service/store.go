package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "github.com/meditrack/trustcore/internal/errors"
	vaultDomain "github.com/meditrack/trustcore/internal/vault/domain"
)

// settingsFileName is the encrypted settings file inside the vault directory.
const settingsFileName = "config.enc"

// Store persists the settings document as a single encrypted blob on disk.
//
// Every operation touches exactly one file path per instance. The store does
// not lock the file: concurrent saves against the same path from independent
// processes must be avoided by the caller (single-writer discipline).
type Store struct {
	dir    string
	cipher BlobCipher
	logger *slog.Logger
}

// NewStore creates a settings store rooted at dir using the given cipher.
func NewStore(dir string, cipher BlobCipher, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, cipher: cipher, logger: logger}
}

// Path returns the settings file path, or ErrVaultDirNotSet when the store
// was built without a directory.
func (s *Store) Path() (string, error) {
	if s.dir == "" {
		return "", vaultDomain.ErrVaultDirNotSet
	}
	return filepath.Join(s.dir, settingsFileName), nil
}

// Exists reports whether a settings file is present.
func (s *Store) Exists() bool {
	path, err := s.Path()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads, decrypts and deserializes the settings file.
// Returns ErrSettingsNotFound when no file exists; callers are expected to
// recover from that one case by substituting defaults.
func (s *Store) Load(ctx context.Context) (*vaultDomain.Settings, error) {
	path, err := s.Path()
	if err != nil {
		return nil, err
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, vaultDomain.ErrSettingsNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrIO, err.Error())
	}

	plaintext, err := s.cipher.Decrypt(ctx, string(blob))
	if err != nil {
		return nil, err
	}

	var settings vaultDomain.Settings
	if err := json.Unmarshal([]byte(plaintext), &settings); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSerialization, err.Error())
	}

	s.logger.Debug("loaded settings", slog.String("path", path))
	return &settings, nil
}

// Save serializes the settings, encrypts the whole document as one blob and
// writes it in a single call, creating the vault directory as needed. The
// previous file, if any, is overwritten; there is no partial write.
func (s *Store) Save(ctx context.Context, settings *vaultDomain.Settings) error {
	path, err := s.Path()
	if err != nil {
		return err
	}

	plaintext, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrSerialization, err.Error())
	}

	blob, err := s.cipher.Encrypt(ctx, string(plaintext))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return apperrors.Wrap(apperrors.ErrIO, err.Error())
	}
	if err := os.WriteFile(path, []byte(blob), 0o600); err != nil {
		return apperrors.Wrap(apperrors.ErrIO, err.Error())
	}

	return nil
}

// Delete removes the settings file if present. Idempotent.
func (s *Store) Delete(_ context.Context) error {
	path, err := s.Path()
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return apperrors.Wrap(apperrors.ErrIO, err.Error())
	}

	s.logger.Info("deleted settings", slog.String("path", path))
	return nil
}

// ExportPlain writes an unencrypted copy of the current settings to path, for
// migration and debugging. The exported file is plaintext JSON; handle with care.
func (s *Store) ExportPlain(ctx context.Context, path string) error {
	settings, err := s.Load(ctx)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrSerialization, err.Error())
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return apperrors.Wrap(apperrors.ErrIO, err.Error())
	}

	s.logger.Info("exported settings", slog.String("path", path))
	return nil
}

// Import reads an unencrypted settings file and persists it through the
// normal Save path, so the imported data gets the same machine or passphrase
// binding as any other save.
func (s *Store) Import(ctx context.Context, path string) (*vaultDomain.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrIO, err.Error())
	}

	var settings vaultDomain.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrSerialization, err.Error())
	}

	if err := s.Save(ctx, &settings); err != nil {
		return nil, err
	}

	s.logger.Info("imported settings", slog.String("path", path))
	return &settings, nil
}

// LoadOrDefault loads the settings, falling back to compiled-in defaults on a
// missing or undecodable file. On a fresh install the defaults are persisted
// best-effort for next time; a failed save is logged and otherwise ignored
// because the in-memory defaults are already usable. This is the only place a
// security-relevant failure is converted to a fallback.
func (s *Store) LoadOrDefault(ctx context.Context) *vaultDomain.Settings {
	settings, err := s.Load(ctx)
	if err == nil {
		return settings
	}

	if apperrors.Is(err, apperrors.ErrNotFound) {
		s.logger.Info("settings not found, creating defaults")
		defaults := vaultDomain.DefaultSettings()
		if saveErr := s.Save(ctx, defaults); saveErr != nil {
			s.logger.Warn("failed to save default settings", slog.Any("error", saveErr))
		}
		return defaults
	}

	s.logger.Warn("failed to load settings, using defaults", slog.Any("error", err))
	return vaultDomain.DefaultSettings()
}
