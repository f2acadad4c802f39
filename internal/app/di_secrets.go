package app

import (
	"fmt"

	cryptoDomain "github.com/allisson/secretlink/internal/crypto/domain"
	cryptoService "github.com/allisson/secretlink/internal/crypto/service"
	"github.com/allisson/secretlink/internal/database"
	secretsHTTP "github.com/allisson/secretlink/internal/secrets/http"
	"github.com/allisson/secretlink/internal/secrets/http/dto"
	secretsRepository "github.com/allisson/secretlink/internal/secrets/repository"
	secretsService "github.com/allisson/secretlink/internal/secrets/service"
	secretsUseCase "github.com/allisson/secretlink/internal/secrets/usecase"
	secretsWorker "github.com/allisson/secretlink/internal/secrets/worker"
)

// secretStore is satisfied by both dialect repositories.
type secretStore interface {
	secretsUseCase.SecretRepository
	secretsService.SecretLocker
}

// AEADManager returns the cipher factory.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// CipherAlgorithm returns the configured AEAD algorithm.
func (c *Container) CipherAlgorithm() (cryptoDomain.Algorithm, error) {
	return cryptoDomain.ParseAlgorithm(c.config.CipherAlgorithm)
}

// SecretRepository returns the secret repository for the configured driver.
func (c *Container) SecretRepository() (secretsUseCase.SecretRepository, error) {
	return c.secretRepository()
}

func (c *Container) secretRepository() (secretStore, error) {
	c.secretStoreInit.Do(func() {
		var err error
		c.secretStore, err = c.initSecretRepository()
		c.setInitError("secretRepository", err)
	})
	return c.secretStore, c.initError("secretRepository")
}

// DisclosureService returns the service that decrypts and burns secrets.
func (c *Container) DisclosureService() (*secretsService.DisclosureService, error) {
	c.disclosureServiceInit.Do(func() {
		var err error
		c.disclosureService, err = c.initDisclosureService()
		c.setInitError("disclosureService", err)
	})
	return c.disclosureService, c.initError("disclosureService")
}

// SecretUseCase returns the secret use case, decorated with metrics.
func (c *Container) SecretUseCase() (secretsUseCase.SecretUseCase, error) {
	c.secretUseCaseInit.Do(func() {
		var err error
		c.secretUseCase, err = c.initSecretUseCase()
		c.setInitError("secretUseCase", err)
	})
	return c.secretUseCase, c.initError("secretUseCase")
}

// SecretHandler returns the HTTP handler for the secret routes.
func (c *Container) SecretHandler() (*secretsHTTP.SecretHandler, error) {
	c.secretHandlerInit.Do(func() {
		useCase, err := c.SecretUseCase()
		if err != nil {
			c.setInitError("secretHandler", fmt.Errorf("failed to get secret use case for secret handler: %w", err))
			return
		}
		limits := dto.Limits{
			MaxExpirySeconds:    uint32(c.config.MaxExpirySeconds),
			MaxCiphertextLength: c.config.MaxCiphertextLength,
		}
		c.secretHandler = secretsHTTP.NewSecretHandler(useCase, limits, c.config.PublicBaseURL, c.Logger())
	})
	return c.secretHandler, c.initError("secretHandler")
}

// PurgeWorker returns the retention worker.
func (c *Container) PurgeWorker() (*secretsWorker.PurgeWorker, error) {
	c.purgeWorkerInit.Do(func() {
		useCase, err := c.SecretUseCase()
		if err != nil {
			c.setInitError("purgeWorker", fmt.Errorf("failed to get secret use case for purge worker: %w", err))
			return
		}
		c.purgeWorker = secretsWorker.NewPurgeWorker(secretsWorker.Config{
			Interval:  c.config.PurgeInterval,
			Retention: c.config.PurgeRetention,
		}, useCase, c.Logger())
	})
	return c.purgeWorker, c.initError("purgeWorker")
}

func (c *Container) initSecretRepository() (secretStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for secret repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return secretsRepository.NewMySQLSecretRepository(db), nil
	case database.DriverPostgres:
		return secretsRepository.NewPostgreSQLSecretRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initDisclosureService() (*secretsService.DisclosureService, error) {
	alg, err := c.CipherAlgorithm()
	if err != nil {
		return nil, err
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for disclosure service: %w", err)
	}

	store, err := c.secretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for disclosure service: %w", err)
	}

	return secretsService.NewDisclosureService(txManager, store, c.AEADManager(), alg), nil
}

func (c *Container) initSecretUseCase() (secretsUseCase.SecretUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for secret use case: %w", err)
	}

	store, err := c.secretRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret repository for secret use case: %w", err)
	}

	discloser, err := c.DisclosureService()
	if err != nil {
		return nil, fmt.Errorf("failed to get disclosure service for secret use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for secret use case: %w", err)
	}

	useCase := secretsUseCase.NewSecretUseCase(txManager, store, discloser)
	return secretsUseCase.NewSecretUseCaseWithMetrics(useCase, businessMetrics), nil
}
