package app

import (
	"fmt"

	breachRepository "github.com/allisson/passvault/internal/breach/repository"
	breachService "github.com/allisson/passvault/internal/breach/service"
	breachUseCase "github.com/allisson/passvault/internal/breach/usecase"
	"github.com/allisson/passvault/internal/database"
)

// BreachAlertRepository returns the breach alert repository based on database driver.
func (c *Container) BreachAlertRepository() (breachUseCase.BreachAlertRepository, error) {
	var err error
	c.breachAlertRepositoryInit.Do(func() {
		c.breachAlertRepository, err = c.initBreachAlertRepository()
		if err != nil {
			c.initErrors["breachAlertRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["breachAlertRepository"]; exists {
		return nil, storedErr
	}
	return c.breachAlertRepository, nil
}

// BreachProvider returns the breach corpus provider.
func (c *Container) BreachProvider() breachService.Provider {
	c.breachProviderInit.Do(func() {
		c.breachProvider = breachService.NewHIBPProvider(breachService.HIBPConfig{
			BaseURL:   c.config.BreachProviderURL,
			APIKey:    c.config.BreachProviderAPIKey,
			UserAgent: c.config.BreachProviderUserAgent,
			Timeout:   c.config.BreachProviderTimeout,
		})
	})
	return c.breachProvider
}

// BreachUseCase returns the breach synchronizer use case.
func (c *Container) BreachUseCase() (breachUseCase.BreachUseCase, error) {
	var err error
	c.breachUseCaseInit.Do(func() {
		c.breachUseCase, err = c.initBreachUseCase()
		if err != nil {
			c.initErrors["breachUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["breachUseCase"]; exists {
		return nil, storedErr
	}
	return c.breachUseCase, nil
}

// BreachScheduler returns the periodic batch breach sync.
func (c *Container) BreachScheduler() (*breachUseCase.Scheduler, error) {
	var err error
	c.breachSchedulerInit.Do(func() {
		c.breachScheduler, err = c.initBreachScheduler()
		if err != nil {
			c.initErrors["breachScheduler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["breachScheduler"]; exists {
		return nil, storedErr
	}
	return c.breachScheduler, nil
}

// initBreachAlertRepository creates the breach alert repository based on the database driver.
func (c *Container) initBreachAlertRepository() (breachUseCase.BreachAlertRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for breach alert repository: %w", err)
	}

	if database.IsPostgres(c.config.DBDriver) {
		return breachRepository.NewPostgreSQLBreachAlertRepository(db), nil
	}
	return breachRepository.NewMySQLBreachAlertRepository(db), nil
}

// initBreachUseCase creates the breach use case with all its dependencies.
func (c *Container) initBreachUseCase() (breachUseCase.BreachUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for breach use case: %w", err)
	}

	alertRepository, err := c.BreachAlertRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get breach alert repository for breach use case: %w", err)
	}

	credentialRepository, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for breach use case: %w", err)
	}

	userRepository, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for breach use case: %w", err)
	}

	baseUseCase := breachUseCase.NewBreachUseCase(
		txManager,
		alertRepository,
		credentialRepository,
		userRepository,
		c.BreachProvider(),
		breachUseCase.SyncConfig{
			CredentialDelay: c.config.BreachCredentialDelay,
			UserDelay:       c.config.BreachUserDelay,
		},
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for breach use case: %w", err)
		}
		return breachUseCase.NewBreachUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initBreachScheduler creates the scheduler driving CheckAllUsersBreaches.
func (c *Container) initBreachScheduler() (*breachUseCase.Scheduler, error) {
	useCase, err := c.BreachUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get breach use case for scheduler: %w", err)
	}
	return breachUseCase.NewScheduler(useCase, c.config.BreachSyncInterval, c.Logger()), nil
}
