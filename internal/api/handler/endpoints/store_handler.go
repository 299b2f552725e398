package endpoints

import (
	"api"
	"api/internal/api/handler/mapper"
	"api/internal/api/handler/request"
	"api/internal/api/handler/response"
	"api/internal/api/models"
	"api/internal/api/service"
	"api/pkg"
	"net/http"
	"strconv"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type storeHandler struct {
	storeService *service.StoreService
	logger       zerolog.Logger
}

func newStoreHandler() *storeHandler {
	return &storeHandler{
		storeService: service.NewStoreService(),
		logger:       api.Logger,
	}
}

func StoreHandler(router *graceful.Graceful) {
	h := newStoreHandler()

	routes := router.Group("/api/v1/stores")
	{
		routes.GET("", h.getAll)
		routes.GET("/:id", h.getByID)
		routes.GET("/:id/readiness", h.readiness)
		routes.POST("", h.create)
		routes.PUT("/:id", h.update)
		routes.DELETE("/:id", h.delete)
	}
}

// getAll returns all knowledge stores
func (slf *storeHandler) getAll(c *gin.Context) {
	entities, err := slf.storeService.FindAll()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to get knowledge stores")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to retrieve knowledge stores"})
		return
	}

	c.JSON(http.StatusOK, mapper.ToStoreResponses(entities))
}

// getByID returns a single knowledge store
func (slf *storeHandler) getByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	store, err := slf.storeService.FindByID(uint(id))
	if err != nil {
		slf.logger.Error().Err(err).Uint64("id", id).Msg("Failed to get knowledge store")
		c.JSON(http.StatusNotFound, response.APIError{Message: "Knowledge store not found"})
		return
	}

	c.JSON(http.StatusOK, mapper.ToStoreResponse(*store))
}

// readiness returns only the readiness flag, served from cache when warm
func (slf *storeHandler) readiness(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	ready, err := slf.storeService.IsReady(uint(id))
	if err != nil {
		slf.logger.Error().Err(err).Uint64("id", id).Msg("Failed to get readiness")
		c.JSON(http.StatusNotFound, response.APIError{Message: "Knowledge store not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "ready": ready})
}

// create creates a new knowledge store
func (slf *storeHandler) create(c *gin.Context) {
	var req request.CreateStore
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse create store request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	created, err := slf.storeService.Create(models.KnowledgeStore{
		Name:        req.Name,
		Description: req.Description,
		ExternalID:  req.ExternalID,
	})
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to create knowledge store")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to create knowledge store"})
		return
	}

	c.JSON(http.StatusCreated, mapper.ToStoreResponse(*created))
}

// update patches name and description
func (slf *storeHandler) update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	var req request.UpdateStore
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse update store request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	updated, err := slf.storeService.Update(uint(id), req.Name, req.Description)
	if err != nil {
		slf.logger.Error().Err(err).Uint64("id", id).Msg("Failed to update knowledge store")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to update knowledge store"})
		return
	}

	c.JSON(http.StatusOK, mapper.ToStoreResponse(*updated))
}

// delete removes a knowledge store
func (slf *storeHandler) delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	if err := slf.storeService.Delete(uint(id)); err != nil {
		slf.logger.Error().Err(err).Uint64("id", id).Msg("Failed to delete knowledge store")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to delete knowledge store"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}
