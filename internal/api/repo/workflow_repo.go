package repo

import (
	"api"
	"api/internal/api/models"

	"gorm.io/gorm"
)

type WorkflowRepository struct {
	Db *gorm.DB
}

func NewWorkflowRepository() *WorkflowRepository {
	return &WorkflowRepository{Db: api.DB}
}

// FindByID retrieves a workflow with its full graph and linked store
func (slf *WorkflowRepository) FindByID(id uint) (models.Workflow, error) {
	var workflow models.Workflow
	err := slf.Db.
		Preload("Nodes").
		Preload("Edges").
		Preload("Store").
		First(&workflow, id).Error
	return workflow, err
}

// FindByIDSimple retrieves a workflow without preloading
func (slf *WorkflowRepository) FindByIDSimple(id uint) (models.Workflow, error) {
	var workflow models.Workflow
	err := slf.Db.First(&workflow, id).Error
	return workflow, err
}

// FindAll retrieves all workflows, newest first
func (slf *WorkflowRepository) FindAll() ([]models.Workflow, error) {
	var workflows []models.Workflow
	err := slf.Db.
		Order("created_at DESC").
		Find(&workflows).Error
	return workflows, err
}

// Create creates a new workflow with its graph
func (slf *WorkflowRepository) Create(workflow *models.Workflow) error {
	return slf.Db.Create(workflow).Error
}

// UpdateFields patches workflow columns (not the graph)
func (slf *WorkflowRepository) UpdateFields(id uint, patch map[string]any) error {
	return slf.Db.Model(&models.Workflow{}).
		Where("id = ?", id).
		Updates(patch).Error
}

// Delete removes a workflow and its graph
func (slf *WorkflowRepository) Delete(id uint) error {
	tx := slf.Db.Begin()
	if err := tx.Where("workflow_id = ?", id).Delete(&models.Edge{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Where("workflow_id = ?", id).Delete(&models.Node{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.Workflow{}, id).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
