// Package config provides process bootstrap configuration through environment
// variables. This is distinct from the encrypted settings document managed by
// the vault: env vars only describe how to reach the vault and how the
// operational shell (metrics, sweeper, migrations) behaves.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Vault cipher modes.
const (
	// VaultModeMachine binds the settings file to the local machine identity.
	VaultModeMachine = "machine"
	// VaultModePassphrase derives the vault key from an operator passphrase.
	VaultModePassphrase = "passphrase"
	// VaultModeKeeper delegates blob wrapping to an external KMS keeper URI.
	VaultModeKeeper = "keeper"
)

// Config holds all bootstrap configuration.
type Config struct {
	// VaultDir is the directory holding the encrypted settings file.
	VaultDir string
	// VaultMode selects the vault cipher: "machine", "passphrase" or "keeper".
	VaultMode string
	// VaultKeeperURI is the KMS keeper URI used when VaultMode is "keeper"
	// (e.g. "hashivault://keyname", "base64key://...").
	VaultKeeperURI string

	// DBDriver is the database driver to use ("postgres" or "mysql").
	DBDriver string
	// DBConnectionString overrides the connection string built from the
	// decrypted settings. Empty means "use the settings document".
	DBConnectionString string

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsHost is the bind address for the metrics server.
	MetricsHost string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int

	// SessionSweepInterval is how often the worker deletes expired sessions.
	SessionSweepInterval time.Duration

	// LockoutMaxAttempts is the maximum number of failed login attempts before a lockout.
	LockoutMaxAttempts int
	// LockoutDuration is the window over which failed attempts are counted.
	LockoutDuration time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Vault configuration
		VaultDir:       env.GetString("VAULT_DIR", defaultVaultDir()),
		VaultMode:      env.GetString("VAULT_MODE", VaultModeMachine),
		VaultKeeperURI: env.GetString("VAULT_KEEPER_URI", ""),

		// Database configuration
		DBDriver:           env.GetString("DB_DRIVER", "postgres"),
		DBConnectionString: env.GetString("DB_CONNECTION_STRING", ""),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "meditrack"),
		MetricsHost:      env.GetString("METRICS_HOST", "127.0.0.1"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),

		// Session sweeper
		SessionSweepInterval: env.GetDuration("SESSION_SWEEP_INTERVAL_MINUTES", 15, time.Minute),

		// Account Lockout
		LockoutMaxAttempts: env.GetInt("LOCKOUT_MAX_ATTEMPTS", 10),
		LockoutDuration:    env.GetDuration("LOCKOUT_DURATION_MINUTES", 30, time.Minute),
	}
}

// defaultVaultDir places the settings file under the OS user config directory.
func defaultVaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "meditrack"
	}
	return filepath.Join(base, "meditrack")
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
