package endpoints

import (
	"api"
	"api/internal/api/handler/mapper"
	"api/internal/api/handler/request"
	"api/internal/api/handler/response"
	"api/internal/api/service"
	"api/pkg"
	"net/http"
	"strconv"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type workflowHandler struct {
	workflowService *service.WorkflowService
	chatService     *service.ChatService
	logger          zerolog.Logger
}

func newWorkflowHandler() *workflowHandler {
	return &workflowHandler{
		workflowService: service.NewWorkflowService(),
		chatService:     service.NewChatService(),
		logger:          api.Logger,
	}
}

func WorkflowHandler(router *graceful.Graceful) {
	h := newWorkflowHandler()

	routes := router.Group("/api/v1/workflows")
	{
		routes.GET("", h.getAll)
		routes.GET("/:id", h.getByID)
		routes.POST("", h.create)
		routes.PUT("/:id", h.update)
		routes.DELETE("/:id", h.delete)

		routes.GET("/:id/runs", h.runs)
	}
}

// getAll returns all workflows without their graphs
func (slf *workflowHandler) getAll(c *gin.Context) {
	entities, err := slf.workflowService.FindAll()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to get workflows")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve workflows"})
		return
	}

	c.JSON(http.StatusOK, mapper.ToWorkflowResponses(entities))
}

// getByID returns a single workflow with its graph
func (slf *workflowHandler) getByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	workflow, err := slf.workflowService.FindByID(uint(id))
	if err != nil {
		slf.logger.Error().Err(err).Uint64("id", id).Msg("Failed to get workflow")
		c.JSON(http.StatusNotFound, response.APIError{Message: "Workflow not found"})
		return
	}

	c.JSON(http.StatusOK, mapper.ToWorkflowResponseWithGraph(*workflow))
}

// create creates a new workflow with its graph
func (slf *workflowHandler) create(c *gin.Context) {
	var req request.CreateWorkflow
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse create workflow request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	workflow, err := mapper.CreateWorkflowToModel(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	created, err := slf.workflowService.Create(workflow)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to create workflow")
		c.JSON(http.StatusUnprocessableEntity, response.APIError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, mapper.ToWorkflowResponseWithGraph(*created))
}

// update updates a workflow and replaces its graph when nodes are sent
func (slf *workflowHandler) update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	var req request.UpdateWorkflow
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse update workflow request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	nodes, err := mapper.GraphNodesToModel(req.Nodes)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}
	edges := mapper.GraphEdgesToModel(req.Edges)

	updated, err := slf.workflowService.UpdateWithGraph(uint(id), mapper.PatchWorkflow(req), nodes, edges)
	if err != nil {
		slf.logger.Error().Err(err).Uint64("id", id).Msg("Failed to update workflow")
		c.JSON(http.StatusUnprocessableEntity, response.APIError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, mapper.ToWorkflowResponseWithGraph(*updated))
}

// delete removes a workflow and its graph
func (slf *workflowHandler) delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	if err := slf.workflowService.Delete(uint(id)); err != nil {
		slf.logger.Error().Err(err).Uint64("id", id).Msg("Failed to delete workflow")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to delete workflow"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}

// runs lists the recent run history of a workflow
func (slf *workflowHandler) runs(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	runs, err := slf.chatService.Runs(uint(id), limit)
	if err != nil {
		slf.logger.Error().Err(err).Uint64("id", id).Msg("Failed to get runs")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve runs"})
		return
	}

	c.JSON(http.StatusOK, mapper.ToRunResponses(runs))
}
