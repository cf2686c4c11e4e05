package app

import (
	"fmt"

	authRepository "github.com/allisson/passvault/internal/auth/repository"
	authService "github.com/allisson/passvault/internal/auth/service"
	authUseCase "github.com/allisson/passvault/internal/auth/usecase"
	cryptoService "github.com/allisson/passvault/internal/crypto/service"
	"github.com/allisson/passvault/internal/database"
	"github.com/allisson/passvault/internal/metrics"
)

// SessionManager returns the process-local session manager. A process serving
// AccountUseCase runs its Start method to evict idle sessions.
func (c *Container) SessionManager() (*authService.SessionManager, error) {
	var err error
	c.sessionManagerInit.Do(func() {
		c.sessionManager, err = c.initSessionManager()
		if err != nil {
			c.initErrors["sessionManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionManager"]; exists {
		return nil, storedErr
	}
	return c.sessionManager, nil
}

// UserRepository returns the user repository based on database driver.
func (c *Container) UserRepository() (authUseCase.UserRepository, error) {
	var err error
	c.userRepositoryInit.Do(func() {
		c.userRepository, err = c.initUserRepository()
		if err != nil {
			c.initErrors["userRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["userRepository"]; exists {
		return nil, storedErr
	}
	return c.userRepository, nil
}

// RecoveryKeyRepository returns the recovery key repository based on database driver.
func (c *Container) RecoveryKeyRepository() (authUseCase.RecoveryKeyRepository, error) {
	var err error
	c.recoveryKeyRepositoryInit.Do(func() {
		c.recoveryKeyRepository, err = c.initRecoveryKeyRepository()
		if err != nil {
			c.initErrors["recoveryKeyRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recoveryKeyRepository"]; exists {
		return nil, storedErr
	}
	return c.recoveryKeyRepository, nil
}

// AccountUseCase returns the account use case.
func (c *Container) AccountUseCase() (authUseCase.AccountUseCase, error) {
	var err error
	c.accountUseCaseInit.Do(func() {
		c.accountUseCase, err = c.initAccountUseCase()
		if err != nil {
			c.initErrors["accountUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["accountUseCase"]; exists {
		return nil, storedErr
	}
	return c.accountUseCase, nil
}

// initSessionManager creates the session manager and exports its size as a gauge
// when metrics are enabled.
func (c *Container) initSessionManager() (*authService.SessionManager, error) {
	manager := authService.NewSessionManager(authService.SessionConfig{
		IdleTimeout:   c.config.SessionIdleTimeout,
		SweepInterval: c.config.SessionSweepInterval,
		MaxActive:     c.config.SessionMaxActive,
	}, c.Logger())

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for session manager: %w", err)
	}
	if provider != nil {
		if err := metrics.RegisterActiveSessionsGauge(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
			manager.Count,
		); err != nil {
			return nil, err
		}
	}

	return manager, nil
}

// initUserRepository creates the user repository based on the database driver.
func (c *Container) initUserRepository() (authUseCase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	if database.IsPostgres(c.config.DBDriver) {
		return authRepository.NewPostgreSQLUserRepository(db), nil
	}
	return authRepository.NewMySQLUserRepository(db), nil
}

// initRecoveryKeyRepository creates the recovery key repository based on the database driver.
func (c *Container) initRecoveryKeyRepository() (authUseCase.RecoveryKeyRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for recovery key repository: %w", err)
	}

	if database.IsPostgres(c.config.DBDriver) {
		return authRepository.NewPostgreSQLRecoveryKeyRepository(db), nil
	}
	return authRepository.NewMySQLRecoveryKeyRepository(db), nil
}

// initAccountUseCase creates the account use case with all its dependencies.
func (c *Container) initAccountUseCase() (authUseCase.AccountUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for account use case: %w", err)
	}

	userRepository, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for account use case: %w", err)
	}

	recoveryKeyRepository, err := c.RecoveryKeyRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get recovery key repository for account use case: %w", err)
	}

	sessionManager, err := c.SessionManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get session manager for account use case: %w", err)
	}

	baseUseCase := authUseCase.NewAccountUseCase(
		txManager,
		userRepository,
		recoveryKeyRepository,
		sessionManager,
		cryptoService.NewPasswordHasher(),
		cryptoService.NewVaultKeyManager(),
		cryptoService.NewRecoveryKeyHasher(),
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for account use case: %w", err)
		}
		return authUseCase.NewAccountUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
