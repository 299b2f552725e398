package repo

import (
	"api"
	"api/internal/api/models"

	"gorm.io/gorm"
)

type StoreRepository struct {
	Db *gorm.DB
}

func NewStoreRepository() *StoreRepository {
	return &StoreRepository{Db: api.DB}
}

// FindByID retrieves a knowledge store by ID
func (slf *StoreRepository) FindByID(id uint) (models.KnowledgeStore, error) {
	var store models.KnowledgeStore
	err := slf.Db.First(&store, id).Error
	return store, err
}

// FindAll retrieves all knowledge stores
func (slf *StoreRepository) FindAll() ([]models.KnowledgeStore, error) {
	var stores []models.KnowledgeStore
	err := slf.Db.Order("created_at DESC").Find(&stores).Error
	return stores, err
}

// Create creates a new knowledge store
func (slf *StoreRepository) Create(store *models.KnowledgeStore) error {
	return slf.Db.Create(store).Error
}

// Update updates an existing knowledge store
func (slf *StoreRepository) Update(store *models.KnowledgeStore) error {
	return slf.Db.Save(store).Error
}

// MarkReady flips the readiness flag. The WHERE clause keeps the flag
// monotonic even if two executions race on it.
func (slf *StoreRepository) MarkReady(id uint) error {
	return slf.Db.Model(&models.KnowledgeStore{}).
		Where("id = ? AND ready = ?", id, false).
		Update("ready", true).Error
}

// Delete removes a knowledge store
func (slf *StoreRepository) Delete(id uint) error {
	return slf.Db.Delete(&models.KnowledgeStore{}, id).Error
}
