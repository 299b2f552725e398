package service

import (
	"api"
	"api/internal/api/models"
	"api/internal/api/repo"
	"api/internal/engine"
	"api/pkg"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// readinessMu serializes readiness reconciliation across concurrent
// chat runs: one run's read -> reconcile -> persist finishes before
// the next one looks at the flag.
var readinessMu sync.Mutex

type StoreService struct {
	storeRepo *repo.StoreRepository
	logger    zerolog.Logger
}

func NewStoreService() *StoreService {
	return &StoreService{
		storeRepo: repo.NewStoreRepository(),
		logger:    api.Logger,
	}
}

// FindAll retrieves all knowledge stores
func (slf *StoreService) FindAll() ([]models.KnowledgeStore, error) {
	stores, err := slf.storeRepo.FindAll()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error getting knowledge stores")
		return nil, err
	}
	return stores, nil
}

// FindByID retrieves a knowledge store by ID
func (slf *StoreService) FindByID(id uint) (*models.KnowledgeStore, error) {
	store, err := slf.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("knowledge store not found")
		}
		slf.logger.Error().Err(err).Uint("storeId", id).Msg("Error getting knowledge store")
		return nil, err
	}
	return &store, nil
}

// Create creates a new knowledge store. A store always starts not
// ready; only a completed execution flips the flag.
func (slf *StoreService) Create(store models.KnowledgeStore) (*models.KnowledgeStore, error) {
	store.Ready = false
	if err := slf.storeRepo.Create(&store); err != nil {
		slf.logger.Error().Err(err).Msg("Error creating knowledge store")
		return nil, err
	}
	return &store, nil
}

// Update patches name/description. The readiness flag is out of reach
// here on purpose: it only moves through ReconcileAfterRun.
func (slf *StoreService) Update(id uint, name, description *string) (*models.KnowledgeStore, error) {
	store, err := slf.storeRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		store.Name = *name
	}
	if description != nil {
		store.Description = *description
	}
	if err := slf.storeRepo.Update(&store); err != nil {
		slf.logger.Error().Err(err).Uint("storeId", id).Msg("Error updating knowledge store")
		return nil, err
	}
	return &store, nil
}

// Delete removes a knowledge store
func (slf *StoreService) Delete(id uint) error {
	if err := slf.storeRepo.Delete(id); err != nil {
		slf.logger.Error().Err(err).Uint("storeId", id).Msg("Error deleting knowledge store")
		return err
	}
	if err := pkg.RedisDelete(readinessCacheKey(id)); err != nil {
		slf.logger.Warn().Err(err).Uint("storeId", id).Msg("Failed to drop readiness cache entry")
	}
	return nil
}

// IsReady reads the readiness flag, preferring the redis cache
func (slf *StoreService) IsReady(id uint) (bool, error) {
	var cached bool
	if err := pkg.RedisGet(readinessCacheKey(id), &cached); err == nil {
		return cached, nil
	} else if !pkg.IsRedisNil(err) {
		slf.logger.Warn().Err(err).Uint("storeId", id).Msg("Readiness cache read failed, falling back to database")
	}

	store, err := slf.storeRepo.FindByID(id)
	if err != nil {
		return false, err
	}
	return store.Ready, nil
}

// ReconcileAfterRun applies the readiness transition for a finished
// execution and persists it when it changed. Serialized by a single
// writer lock so two concurrent runs cannot interleave their
// read/persist pairs. Returns the flag value after reconciliation.
func (slf *StoreService) ReconcileAfterRun(storeID uint, result engine.ExecutionResult) (bool, error) {
	readinessMu.Lock()
	defer readinessMu.Unlock()

	store, err := slf.storeRepo.FindByID(storeID)
	if err != nil {
		return false, fmt.Errorf("load store %d: %w", storeID, err)
	}

	transition := engine.ReconcileReadiness(store.Ready, result)
	if !transition.Changed {
		return transition.Ready, nil
	}

	if err := slf.storeRepo.MarkReady(storeID); err != nil {
		slf.logger.Error().Err(err).Uint("storeId", storeID).Msg("Failed to persist readiness flag")
		return store.Ready, err
	}
	if err := pkg.RedisSet(readinessCacheKey(storeID), true, 24*time.Hour); err != nil {
		slf.logger.Warn().Err(err).Uint("storeId", storeID).Msg("Failed to cache readiness flag")
	}

	slf.logger.Info().Uint("storeId", storeID).Msg("Knowledge store marked ready")
	return transition.Ready, nil
}

func readinessCacheKey(storeID uint) string {
	return fmt.Sprintf("store:%d:ready", storeID)
}
