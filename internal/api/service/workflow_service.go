package service

import (
	"api"
	"api/internal/api/models"
	"api/internal/api/repo"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type WorkflowService struct {
	workflowRepo *repo.WorkflowRepository
	logger       zerolog.Logger
}

func NewWorkflowService() *WorkflowService {
	return &WorkflowService{
		workflowRepo: repo.NewWorkflowRepository(),
		logger:       api.Logger,
	}
}

// FindAll retrieves all workflows
func (slf *WorkflowService) FindAll() ([]models.Workflow, error) {
	workflows, err := slf.workflowRepo.FindAll()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error getting workflows")
		return nil, err
	}
	return workflows, nil
}

// FindByID retrieves a workflow by ID with its graph
func (slf *WorkflowService) FindByID(id uint) (*models.Workflow, error) {
	workflow, err := slf.workflowRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			slf.logger.Error().Uint("workflowId", id).Msg("Workflow not found")
			return nil, errors.New("workflow not found")
		}
		slf.logger.Error().Err(err).Uint("workflowId", id).Msg("Error getting workflow")
		return nil, err
	}
	return &workflow, nil
}

// Create creates a new workflow with its graph
func (slf *WorkflowService) Create(workflow models.Workflow) (*models.Workflow, error) {
	if err := validateGraph(workflow.Nodes, workflow.Edges); err != nil {
		return nil, err
	}
	if err := slf.workflowRepo.Create(&workflow); err != nil {
		slf.logger.Error().Err(err).Msg("Error creating workflow")
		return nil, err
	}
	return &workflow, nil
}

// UpdateWithGraph updates a workflow and upserts its graph. Nodes are
// matched by their canvas ref so saved nodes keep their database ids;
// edges are replaced wholesale since they only carry refs.
func (slf *WorkflowService) UpdateWithGraph(id uint, patch map[string]any, nodes []models.Node, edges []models.Edge) (*models.Workflow, error) {
	if err := validateGraph(nodes, edges); err != nil {
		return nil, err
	}

	tx := slf.workflowRepo.Db.Begin()

	if len(patch) > 0 {
		if err := tx.Model(&models.Workflow{}).Where("id = ?", id).Updates(patch).Error; err != nil {
			tx.Rollback()
			slf.logger.Error().Err(err).Uint("workflowId", id).Msg("Error updating workflow")
			return nil, err
		}
	}

	// Existing nodes by ref
	var existing []models.Node
	if err := tx.Where("workflow_id = ?", id).Find(&existing).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	existingByRef := make(map[string]models.Node, len(existing))
	for _, node := range existing {
		existingByRef[node.Ref] = node
	}

	keepRefs := make(map[string]bool, len(nodes))
	for i := range nodes {
		nodes[i].WorkflowID = id
		keepRefs[nodes[i].Ref] = true

		if current, ok := existingByRef[nodes[i].Ref]; ok {
			// Update in place — preserves the ID
			if err := tx.Model(&models.Node{}).Where("id = ?", current.ID).Updates(map[string]any{
				"kind":   nodes[i].Kind,
				"name":   nodes[i].Name,
				"xpos":   nodes[i].Xpos,
				"ypos":   nodes[i].Ypos,
				"params": nodes[i].Params,
			}).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
			nodes[i].ID = current.ID
		} else {
			nodes[i].ID = 0
			if err := tx.Create(&nodes[i]).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	// Delete nodes removed by the user
	var removeIDs []int
	for ref, node := range existingByRef {
		if !keepRefs[ref] {
			removeIDs = append(removeIDs, node.ID)
		}
	}
	if len(removeIDs) > 0 {
		if err := tx.Where("id IN ?", removeIDs).Delete(&models.Node{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	// Replace all edges
	if err := tx.Where("workflow_id = ?", id).Delete(&models.Edge{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if len(edges) > 0 {
		for i := range edges {
			edges[i].ID = 0
			edges[i].WorkflowID = id
		}
		if err := tx.Create(&edges).Error; err != nil {
			tx.Rollback()
			slf.logger.Error().Err(err).Uint("workflowId", id).Msg("Error creating edges")
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		slf.logger.Error().Err(err).Uint("workflowId", id).Msg("Error committing transaction")
		return nil, err
	}

	return slf.FindByID(id)
}

// Delete removes a workflow and its graph
func (slf *WorkflowService) Delete(id uint) error {
	if err := slf.workflowRepo.Delete(id); err != nil {
		slf.logger.Error().Err(err).Uint("workflowId", id).Msg("Error deleting workflow")
		return err
	}
	return nil
}

// validateGraph checks what the studio owns: refs are unique and
// edges reference existing nodes. Everything deeper (cycles, node
// typing) belongs to the engine.
func validateGraph(nodes []models.Node, edges []models.Edge) error {
	refs := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		if err := node.Validate(); err != nil {
			return err
		}
		if refs[node.Ref] {
			return fmt.Errorf("duplicate node ref %q", node.Ref)
		}
		refs[node.Ref] = true
	}
	for _, edge := range edges {
		if !refs[edge.SourceRef] {
			return fmt.Errorf("edge %q references unknown source node %q", edge.Ref, edge.SourceRef)
		}
		if !refs[edge.TargetRef] {
			return fmt.Errorf("edge %q references unknown target node %q", edge.Ref, edge.TargetRef)
		}
	}
	return nil
}
