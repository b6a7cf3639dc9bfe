package app

import (
	"fmt"
	"time"

	authRepository "github.com/meditrack/trustcore/internal/auth/repository"
	authService "github.com/meditrack/trustcore/internal/auth/service"
	authUsecase "github.com/meditrack/trustcore/internal/auth/usecase"
	appHTTP "github.com/meditrack/trustcore/internal/http"
	"github.com/meditrack/trustcore/internal/metrics"
	"github.com/meditrack/trustcore/internal/worker"
)

// SetStaffDirectory provides the staff lookup collaborator required by the
// login use case. The directory lives outside this module; it must be set
// before LoginUseCase is first accessed.
func (c *Container) SetStaffDirectory(directory authUsecase.StaffDirectory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.staffDirectory = directory
}

// ClaimsService returns the signed-token service configured from the settings
// document.
func (c *Container) ClaimsService() (authService.ClaimsService, error) {
	var err error
	c.claimsServiceInit.Do(func() {
		c.claimsService, err = c.initClaimsService()
		if err != nil {
			c.initErrors["claimsService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["claimsService"]; exists {
		return nil, storedErr
	}
	return c.claimsService, nil
}

// BearerService returns the session token generator.
func (c *Container) BearerService() authService.BearerService {
	c.bearerServiceInit.Do(func() {
		c.bearerService = authService.NewBearerService()
	})
	return c.bearerService
}

// CredentialService returns the password hashing service.
func (c *Container) CredentialService() authService.CredentialService {
	c.credentialServiceInit.Do(func() {
		c.credentialService = authService.NewCredentialService()
	})
	return c.credentialService
}

// SessionRepository returns the session repository instance.
func (c *Container) SessionRepository() (authUsecase.SessionRepository, error) {
	var err error
	c.sessionRepoInit.Do(func() {
		c.sessionRepo, err = c.initSessionRepository()
		if err != nil {
			c.initErrors["sessionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionRepo"]; exists {
		return nil, storedErr
	}
	return c.sessionRepo, nil
}

// SessionUseCase returns the session use case instance.
func (c *Container) SessionUseCase() (authUsecase.SessionUseCase, error) {
	var err error
	c.sessionUseCaseInit.Do(func() {
		c.sessionUseCase, err = c.initSessionUseCase()
		if err != nil {
			c.initErrors["sessionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionUseCase"]; exists {
		return nil, storedErr
	}
	return c.sessionUseCase, nil
}

// LoginUseCase returns the login use case instance.
func (c *Container) LoginUseCase() (authUsecase.LoginUseCase, error) {
	var err error
	c.loginUseCaseInit.Do(func() {
		c.loginUseCase, err = c.initLoginUseCase()
		if err != nil {
			c.initErrors["loginUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["loginUseCase"]; exists {
		return nil, storedErr
	}
	return c.loginUseCase, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are
// disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// MetricsServer returns the metrics HTTP server instance.
func (c *Container) MetricsServer() (*appHTTP.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Sweeper returns the expired session sweeper instance.
func (c *Container) Sweeper() (*worker.Sweeper, error) {
	var err error
	c.sweeperInit.Do(func() {
		c.sweeper, err = c.initSweeper()
		if err != nil {
			c.initErrors["sweeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sweeper"]; exists {
		return nil, storedErr
	}
	return c.sweeper, nil
}

// initClaimsService creates the claims service from the token settings.
func (c *Container) initClaimsService() (authService.ClaimsService, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings for claims service: %w", err)
	}

	return authService.NewClaimsService(
		settings.JWT.Secret,
		settings.JWT.Issuer,
		settings.JWT.Audience,
		time.Duration(settings.JWT.ExpirationHours)*time.Hour,
	), nil
}

// initSessionRepository creates the session repository instance.
func (c *Container) initSessionRepository() (authUsecase.SessionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for session repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return authRepository.NewMySQLSessionRepository(db), nil
	case "postgres":
		return authRepository.NewPostgreSQLSessionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	return businessMetrics, nil
}

// initSessionUseCase creates the session use case with all its dependencies.
func (c *Container) initSessionUseCase() (authUsecase.SessionUseCase, error) {
	sessionRepo, err := c.SessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get session repository for session use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for session use case: %w", err)
	}

	useCase := authUsecase.NewSessionUseCase(sessionRepo, c.BearerService(), c.Logger())
	return authUsecase.NewSessionUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initLoginUseCase creates the login use case with all its dependencies.
func (c *Container) initLoginUseCase() (authUsecase.LoginUseCase, error) {
	c.mu.Lock()
	staffDirectory := c.staffDirectory
	c.mu.Unlock()
	if staffDirectory == nil {
		return nil, fmt.Errorf("staff directory is not set, call SetStaffDirectory first")
	}

	claimsService, err := c.ClaimsService()
	if err != nil {
		return nil, fmt.Errorf("failed to get claims service for login use case: %w", err)
	}

	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for login use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for login use case: %w", err)
	}

	useCase := authUsecase.NewLoginUseCase(
		staffDirectory,
		c.CredentialService(),
		claimsService,
		sessionUseCase,
		c.config.LockoutMaxAttempts,
		c.config.LockoutDuration,
		c.Logger(),
	)
	return authUsecase.NewLoginUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initMetricsServer creates the metrics HTTP server with all its dependencies.
func (c *Container) initMetricsServer() (*appHTTP.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	server := appHTTP.NewMetricsServer(
		c.config.MetricsHost,
		c.config.MetricsPort,
		c.Logger(),
		provider,
	)

	return server, nil
}

// initSweeper creates the expired session sweeper with all its dependencies.
func (c *Container) initSweeper() (*worker.Sweeper, error) {
	sessionUseCase, err := c.SessionUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get session use case for sweeper: %w", err)
	}

	return worker.NewSweeper(sessionUseCase, c.config.SessionSweepInterval, c.Logger()), nil
}
