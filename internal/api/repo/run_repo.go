package repo

import (
	"api"
	"api/internal/api/models"

	"gorm.io/gorm"
)

type RunRepository struct {
	Db *gorm.DB
}

func NewRunRepository() *RunRepository {
	return &RunRepository{Db: api.DB}
}

// Create creates a new run record
func (slf *RunRepository) Create(run *models.WorkflowRun) error {
	return slf.Db.Create(run).Error
}

// Update updates an existing run record
func (slf *RunRepository) Update(run *models.WorkflowRun) error {
	return slf.Db.Save(run).Error
}

// FindByID retrieves a run by ID
func (slf *RunRepository) FindByID(id uint) (models.WorkflowRun, error) {
	var run models.WorkflowRun
	err := slf.Db.First(&run, id).Error
	return run, err
}

// FindByWorkflow retrieves recent runs for a workflow
func (slf *RunRepository) FindByWorkflow(workflowID uint, limit int) ([]models.WorkflowRun, error) {
	var runs []models.WorkflowRun
	err := slf.Db.
		Where("workflow_id = ?", workflowID).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
