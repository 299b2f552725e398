package endpoints

import (
	"api"
	"api/internal/api/handler/mapper"
	"api/internal/api/handler/request"
	"api/internal/api/handler/response"
	"api/internal/api/service"
	"api/internal/engine"
	"api/pkg"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type chatHandler struct {
	chatService *service.ChatService
	logger      zerolog.Logger
}

func newChatHandler() *chatHandler {
	return &chatHandler{
		chatService: service.NewChatService(),
		logger:      api.Logger,
	}
}

func ChatHandler(router *graceful.Graceful) {
	h := newChatHandler()

	routes := router.Group("/api/v1/workflows")
	{
		routes.POST("/:id/chat", h.ask)
	}
}

// ask runs one question through the workflow and returns the answer
func (slf *chatHandler) ask(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid ID"})
		return
	}

	var req request.ChatQuery
	if err := pkg.ParseAndValidate(c, &req); err != nil {
		slf.logger.Error().Err(err).Msg("Failed to parse chat request")
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	answer, err := slf.chatService.Ask(c.Request.Context(), uint(id), service.AskParams{
		Query:        req.Query,
		SessionID:    req.SessionID,
		UseMemory:    req.UseMemory,
		MemoryWindow: req.MemoryWindow,
	})
	if err != nil {
		slf.respondError(c, uint(id), err)
		return
	}

	c.JSON(http.StatusOK, mapper.ToChatAnswerResponse(*answer))
}

// respondError maps each failure class to its own status so the
// frontend can tell a broken graph from a broken engine from an
// execution that may still be running.
func (slf *chatHandler) respondError(c *gin.Context, workflowID uint, err error) {
	slf.logger.Error().Err(err).Uint("workflowId", workflowID).Msg("Chat run failed")

	switch {
	case errors.Is(err, engine.ErrMissingRequiredNode):
		c.JSON(http.StatusUnprocessableEntity, response.APIError{
			Message: "Workflow graph is not chat-capable: " + err.Error(),
		})
	case errors.Is(err, engine.ErrSubmissionFailed):
		c.JSON(http.StatusBadGateway, response.APIError{
			Message: "Execution engine rejected the request",
			Data:    err.Error(),
		})
	case errors.Is(err, engine.ErrPollTimeout):
		// Indeterminate: the engine may still finish server-side
		c.JSON(http.StatusAccepted, response.APIError{
			Message: "Execution is taking longer than expected and may still be running",
			Data:    err.Error(),
		})
	case errors.Is(err, engine.ErrExecutionFailed):
		c.JSON(http.StatusBadGateway, response.APIError{
			Message: "Execution failed on the engine",
			Data:    err.Error(),
		})
	case errors.Is(err, engine.ErrNoGenerationOutput):
		c.JSON(http.StatusBadGateway, response.APIError{
			Message: "Execution completed but produced no answer",
			Data:    err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Chat run failed"})
	}
}
