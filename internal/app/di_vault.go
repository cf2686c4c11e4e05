package app

import (
	"fmt"

	cryptoService "github.com/allisson/passvault/internal/crypto/service"
	"github.com/allisson/passvault/internal/database"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
	vaultRepository "github.com/allisson/passvault/internal/vault/repository"
	vaultService "github.com/allisson/passvault/internal/vault/service"
	vaultUseCase "github.com/allisson/passvault/internal/vault/usecase"
)

// CredentialRepository returns the credential repository based on database driver.
func (c *Container) CredentialRepository() (vaultUseCase.CredentialRepository, error) {
	var err error
	c.credentialRepositoryInit.Do(func() {
		c.credentialRepository, err = c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialRepository"]; exists {
		return nil, storedErr
	}
	return c.credentialRepository, nil
}

// TotpRepository returns the TOTP secret repository based on database driver.
func (c *Container) TotpRepository() (vaultUseCase.TotpRepository, error) {
	var err error
	c.totpRepositoryInit.Do(func() {
		c.totpRepository, err = c.initTotpRepository()
		if err != nil {
			c.initErrors["totpRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["totpRepository"]; exists {
		return nil, storedErr
	}
	return c.totpRepository, nil
}

// Classifier returns the credential classifier.
func (c *Container) Classifier() (*vaultService.Classifier, error) {
	var err error
	c.classifierInit.Do(func() {
		c.classifier, err = c.initClassifier()
		if err != nil {
			c.initErrors["classifier"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["classifier"]; exists {
		return nil, storedErr
	}
	return c.classifier, nil
}

// CredentialUseCase returns the credential use case.
func (c *Container) CredentialUseCase() (vaultUseCase.CredentialUseCase, error) {
	var err error
	c.credentialUseCaseInit.Do(func() {
		c.credentialUseCase, err = c.initCredentialUseCase()
		if err != nil {
			c.initErrors["credentialUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

// TotpUseCase returns the TOTP use case.
func (c *Container) TotpUseCase() (vaultUseCase.TotpUseCase, error) {
	var err error
	c.totpUseCaseInit.Do(func() {
		c.totpUseCase, err = c.initTotpUseCase()
		if err != nil {
			c.initErrors["totpUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["totpUseCase"]; exists {
		return nil, storedErr
	}
	return c.totpUseCase, nil
}

// ScoreUseCase returns the security score use case.
func (c *Container) ScoreUseCase() (vaultUseCase.ScoreUseCase, error) {
	var err error
	c.scoreUseCaseInit.Do(func() {
		c.scoreUseCase, err = c.initScoreUseCase()
		if err != nil {
			c.initErrors["scoreUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["scoreUseCase"]; exists {
		return nil, storedErr
	}
	return c.scoreUseCase, nil
}

// ScoreOptions returns the configured security score weights and thresholds.
func (c *Container) ScoreOptions() vaultDomain.ScoreOptions {
	return vaultDomain.ScoreOptions{
		Weights: vaultDomain.ScoreWeights{
			Compromised: c.config.ScoreWeightCompromised,
			Reused:      c.config.ScoreWeightReused,
			Missing2FA:  c.config.ScoreWeightMissing2FA,
			OldPassword: c.config.ScoreWeightOldPassword,
		},
		WeakThreshold:  c.config.ScoreWeakThreshold,
		OldPasswordAge: c.config.ScoreOldPasswordAge,
	}
}

// initCredentialRepository creates the credential repository based on the database driver.
func (c *Container) initCredentialRepository() (vaultUseCase.CredentialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
	}

	if database.IsPostgres(c.config.DBDriver) {
		return vaultRepository.NewPostgreSQLCredentialRepository(db), nil
	}
	return vaultRepository.NewMySQLCredentialRepository(db), nil
}

// initTotpRepository creates the TOTP secret repository based on the database driver.
func (c *Container) initTotpRepository() (vaultUseCase.TotpRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for totp repository: %w", err)
	}

	if database.IsPostgres(c.config.DBDriver) {
		return vaultRepository.NewPostgreSQLTotpRepository(db), nil
	}
	return vaultRepository.NewMySQLTotpRepository(db), nil
}

// initClassifier creates the classifier backed by the credential repository.
func (c *Container) initClassifier() (*vaultService.Classifier, error) {
	credentialRepository, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for classifier: %w", err)
	}
	return vaultService.NewClassifier(credentialRepository, vaultService.DefaultMissingFieldPolicy, c.Logger()), nil
}

// initCredentialUseCase creates the credential use case with all its dependencies.
func (c *Container) initCredentialUseCase() (vaultUseCase.CredentialUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for credential use case: %w", err)
	}

	credentialRepository, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for credential use case: %w", err)
	}

	classifier, err := c.Classifier()
	if err != nil {
		return nil, fmt.Errorf("failed to get classifier for credential use case: %w", err)
	}

	baseUseCase := vaultUseCase.NewCredentialUseCase(txManager, credentialRepository, classifier, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
		}
		return vaultUseCase.NewCredentialUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initTotpUseCase creates the TOTP use case with all its dependencies.
func (c *Container) initTotpUseCase() (vaultUseCase.TotpUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for totp use case: %w", err)
	}

	credentialRepository, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for totp use case: %w", err)
	}

	totpRepository, err := c.TotpRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get totp repository for totp use case: %w", err)
	}

	baseUseCase := vaultUseCase.NewTotpUseCase(
		txManager,
		credentialRepository,
		totpRepository,
		cryptoService.NewTotpCipher(),
		c.Logger(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for totp use case: %w", err)
		}
		return vaultUseCase.NewTotpUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initScoreUseCase creates the security score use case.
func (c *Container) initScoreUseCase() (vaultUseCase.ScoreUseCase, error) {
	credentialRepository, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for score use case: %w", err)
	}

	baseUseCase := vaultUseCase.NewScoreUseCase(credentialRepository, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for score use case: %w", err)
		}
		return vaultUseCase.NewScoreUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
