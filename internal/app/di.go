// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	authService "github.com/meditrack/trustcore/internal/auth/service"
	authUsecase "github.com/meditrack/trustcore/internal/auth/usecase"
	"github.com/meditrack/trustcore/internal/config"
	"github.com/meditrack/trustcore/internal/database"
	appHTTP "github.com/meditrack/trustcore/internal/http"
	"github.com/meditrack/trustcore/internal/metrics"
	vaultDomain "github.com/meditrack/trustcore/internal/vault/domain"
	vaultService "github.com/meditrack/trustcore/internal/vault/service"
	"github.com/meditrack/trustcore/internal/worker"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger *slog.Logger
	db     *sql.DB

	// Managers
	txManager database.TxManager

	// Vault
	passphrase   string
	vaultCipher  vaultService.BlobCipher
	keeperCloser io.Closer
	vaultStore   *vaultService.Store
	settings     *vaultDomain.Settings

	// Services
	claimsService     authService.ClaimsService
	bearerService     authService.BearerService
	credentialService authService.CredentialService

	// Repositories
	sessionRepo authUsecase.SessionRepository

	// Use Cases
	staffDirectory authUsecase.StaffDirectory
	sessionUseCase authUsecase.SessionUseCase
	loginUseCase   authUsecase.LoginUseCase

	// Metrics
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Servers and Workers
	metricsServer *appHTTP.MetricsServer
	sweeper       *worker.Sweeper

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	dbInit                sync.Once
	txManagerInit         sync.Once
	vaultCipherInit       sync.Once
	vaultStoreInit        sync.Once
	settingsInit          sync.Once
	claimsServiceInit     sync.Once
	bearerServiceInit     sync.Once
	credentialServiceInit sync.Once
	sessionRepoInit       sync.Once
	sessionUseCaseInit    sync.Once
	loginUseCaseInit      sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	metricsServerInit     sync.Once
	sweeperInit           sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown metrics server if initialized
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Shutdown metrics provider if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close the remote keeper connection if one was opened
	if c.keeperCloser != nil {
		if err := c.keeperCloser.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("keeper close: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection. The connection string
// comes from the decrypted settings document unless DB_CONNECTION_STRING
// overrides it.
func (c *Container) initDB() (*sql.DB, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings for database: %w", err)
	}

	connectionString := c.config.DBConnectionString
	if connectionString == "" {
		if c.config.DBDriver != "postgres" {
			return nil, fmt.Errorf(
				"driver %q requires DB_CONNECTION_STRING, settings only describe a PostgreSQL database",
				c.config.DBDriver,
			)
		}
		connectionString = settings.Database.ConnectionURL()
	}

	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   connectionString,
		MaxOpenConnections: settings.Database.MaxConnections,
		MaxIdleConnections: settings.Database.MinConnections,
		ConnMaxLifetime:    settings.Database.IdleTimeoutDuration(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}
