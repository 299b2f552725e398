package service

import (
	"api"
	"api/internal/api/models"
	"api/internal/api/repo"
	"api/internal/engine"
	"api/pkg"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AskParams is one chat question against a workflow.
type AskParams struct {
	Query        string
	SessionID    string
	UseMemory    bool
	MemoryWindow int
}

// ChatAnswer is what the studio shows for one answered question.
type ChatAnswer struct {
	Text        string                `json:"text"`
	Evidence    []engine.EvidenceItem `json:"evidence"`
	Cost        float64               `json:"cost"`
	ExecutionID string                `json:"executionId"`
	SessionID   string                `json:"sessionId"`
	StoreReady  bool                  `json:"storeReady"`
	RunID       uint                  `json:"runId"`
}

// ChatService drives one question through the execution engine:
// compose the request from the stored graph, submit it, wait for a
// terminal status and extract the answer. Every attempt leaves a
// WorkflowRun record behind, success or not.
type ChatService struct {
	workflowRepo *repo.WorkflowRepository
	runRepo      *repo.RunRepository
	storeService *StoreService
	client       *engine.Client
	poller       *engine.Poller
	logger       zerolog.Logger
}

func NewChatService() *ChatService {
	cfg := api.GetConfig().EngineConfig
	client := engine.NewClient(engine.ClientConfig{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.RequestTimeout,
		Logger:  api.Logger,
	})
	return &ChatService{
		workflowRepo: repo.NewWorkflowRepository(),
		runRepo:      repo.NewRunRepository(),
		storeService: NewStoreService(),
		client:       client,
		poller:       engine.NewPoller(client, cfg.PollInterval, cfg.MaxPollAttempts, api.Logger),
		logger:       api.Logger,
	}
}

// Ask answers one question using the given workflow.
func (slf *ChatService) Ask(ctx context.Context, workflowID uint, params AskParams) (*ChatAnswer, error) {
	workflow, err := slf.workflowRepo.FindByID(workflowID)
	if err != nil {
		return nil, fmt.Errorf("load workflow %d: %w", workflowID, err)
	}

	sessionID := slf.resolveSession(workflowID, params)

	storeID := ""
	if workflow.Store != nil {
		storeID = workflow.Store.ExternalID
	}

	nodes, edges, err := graphDescriptors(workflow)
	if err != nil {
		return nil, err
	}

	request, err := engine.ComposeRequest(workflow.Name, nodes, edges, engine.ComposeParams{
		Query:        params.Query,
		StoreID:      storeID,
		UseMemory:    params.UseMemory,
		SessionID:    sessionID,
		MemoryWindow: params.MemoryWindow,
	})
	if err != nil {
		return nil, err
	}

	run := models.WorkflowRun{
		WorkflowID: workflowID,
		SessionID:  sessionID,
		Query:      params.Query,
		Status:     models.RunStatusRunning,
		StartedAt:  time.Now(),
	}
	if err := slf.runRepo.Create(&run); err != nil {
		slf.logger.Error().Err(err).Uint("workflowId", workflowID).Msg("Error creating run record")
		return nil, err
	}

	reporter := pkg.NewProgressReporter(api.GetConfig().NatsURL, api.GetConfig().TenantID, workflowID)
	defer reporter.Close()
	report := reporter.ReportFunc()

	result, err := slf.client.Execute(ctx, request)
	if err != nil {
		slf.finishRun(&run, models.RunStatusFailed, engine.ExecutionResult{}, "", err)
		report(pkg.RunProgress{Phase: pkg.PhaseFailed, Message: err.Error()})
		return nil, err
	}
	run.ExecutionID = result.ExecutionID
	report(pkg.RunProgress{ExecutionID: result.ExecutionID, Phase: pkg.PhaseSubmitted})

	if !result.Status.Terminal() {
		report(pkg.RunProgress{ExecutionID: result.ExecutionID, Phase: pkg.PhasePolling})
		result, err = slf.poller.Wait(ctx, result)
		if err != nil {
			status := models.RunStatusFailed
			phase := pkg.PhaseFailed
			if errors.Is(err, engine.ErrPollTimeout) {
				status = models.RunStatusIndeterminate
				phase = pkg.PhaseTimedOut
			}
			slf.finishRun(&run, status, engine.ExecutionResult{ExecutionID: run.ExecutionID}, "", err)
			report(pkg.RunProgress{ExecutionID: run.ExecutionID, Phase: phase, Message: err.Error()})
			return nil, err
		}
	}

	searchRef, generationRef := requiredRefs(workflow.Nodes)
	answer, err := engine.ExtractAnswer(result, searchRef, generationRef)
	if err != nil {
		slf.finishRun(&run, models.RunStatusFailed, result, "", err)
		report(pkg.RunProgress{ExecutionID: result.ExecutionID, Phase: pkg.PhaseFailed, Message: err.Error()})
		return nil, err
	}

	storeReady := false
	if workflow.StoreID != nil {
		storeReady, err = slf.storeService.ReconcileAfterRun(*workflow.StoreID, result)
		if err != nil {
			// The answer is good; losing the readiness update is not
			// worth failing the whole question over.
			slf.logger.Error().Err(err).Uint("storeId", *workflow.StoreID).Msg("Readiness reconciliation failed")
			storeReady = false
			err = nil
		}
	}

	slf.finishRun(&run, models.RunStatusCompleted, result, answer.Text, nil)
	report(pkg.RunProgress{ExecutionID: result.ExecutionID, Phase: pkg.PhaseCompleted})

	if params.UseMemory {
		if err := pkg.RedisSet(sessionCacheKey(workflowID), sessionID, time.Hour); err != nil {
			slf.logger.Warn().Err(err).Uint("workflowId", workflowID).Msg("Failed to cache session id")
		}
	}

	return &ChatAnswer{
		Text:        answer.Text,
		Evidence:    answer.Evidence,
		Cost:        answer.Cost,
		ExecutionID: result.ExecutionID,
		SessionID:   sessionID,
		StoreReady:  storeReady,
		RunID:       run.ID,
	}, nil
}

// resolveSession picks the session id for a question. An explicit id
// always wins. With memory on, the last session of the workflow is
// reused from redis so follow-up questions share the engine-side
// history; otherwise every question gets a fresh session.
func (slf *ChatService) resolveSession(workflowID uint, params AskParams) string {
	if params.SessionID != "" {
		return params.SessionID
	}
	if params.UseMemory {
		var cached string
		if err := pkg.RedisGet(sessionCacheKey(workflowID), &cached); err == nil && cached != "" {
			return cached
		}
	}
	return uuid.NewString()
}

func sessionCacheKey(workflowID uint) string {
	return fmt.Sprintf("workflow:%d:session", workflowID)
}

// Runs lists the recent run history of a workflow.
func (slf *ChatService) Runs(workflowID uint, limit int) ([]models.WorkflowRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	runs, err := slf.runRepo.FindByWorkflow(workflowID, limit)
	if err != nil {
		slf.logger.Error().Err(err).Uint("workflowId", workflowID).Msg("Error getting runs")
		return nil, err
	}
	return runs, nil
}

func (slf *ChatService) finishRun(run *models.WorkflowRun, status models.RunStatus, result engine.ExecutionResult, answer string, cause error) {
	now := time.Now()
	run.Status = status
	run.Answer = answer
	run.Cost = result.TotalCost
	run.DurationMs = result.DurationMS
	run.FinishedAt = &now
	if result.ExecutionID != "" {
		run.ExecutionID = result.ExecutionID
	}
	if cause != nil {
		run.ErrorKind = errorKind(cause)
		run.Error = cause.Error()
	}
	if err := slf.runRepo.Update(run); err != nil {
		slf.logger.Error().Err(err).Uint("runId", run.ID).Msg("Error updating run record")
	}
}

// errorKind maps a failure to its stable taxonomy name so run history
// stays queryable when messages change.
func errorKind(err error) string {
	switch {
	case errors.Is(err, engine.ErrMissingRequiredNode):
		return "missing_required_node"
	case errors.Is(err, engine.ErrSubmissionFailed):
		return "submission_failed"
	case errors.Is(err, engine.ErrPollTimeout):
		return "poll_timeout"
	case errors.Is(err, engine.ErrExecutionFailed):
		return "execution_failed"
	case errors.Is(err, engine.ErrNoGenerationOutput):
		return "no_generation_output"
	default:
		return "internal"
	}
}

// graphDescriptors maps the stored graph to the wire shape the engine
// takes. Nodes are keyed by their canvas ref, matching what edges
// reference and what the result map is keyed by.
func graphDescriptors(workflow models.Workflow) ([]engine.NodeDescriptor, []engine.EdgeDescriptor, error) {
	nodes := make([]engine.NodeDescriptor, 0, len(workflow.Nodes))
	for _, node := range workflow.Nodes {
		params, err := node.ParamMap()
		if err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, engine.NodeDescriptor{
			ID:         node.Ref,
			Kind:       string(node.Kind),
			Position:   engine.Position{X: node.Xpos, Y: node.Ypos},
			Parameters: params,
		})
	}
	edges := make([]engine.EdgeDescriptor, 0, len(workflow.Edges))
	for _, edge := range workflow.Edges {
		edges = append(edges, engine.EdgeDescriptor{
			ID:     edge.Ref,
			Source: edge.SourceRef,
			Target: edge.TargetRef,
		})
	}
	return nodes, edges, nil
}

// requiredRefs returns the refs of the search and generation nodes.
// Composition has already guaranteed both exist by the time results
// are extracted.
func requiredRefs(nodes []models.Node) (searchRef, generationRef string) {
	for _, node := range nodes {
		switch node.Kind {
		case models.NodeKindSearch:
			if searchRef == "" {
				searchRef = node.Ref
			}
		case models.NodeKindGeneration:
			if generationRef == "" {
				generationRef = node.Ref
			}
		}
	}
	return searchRef, generationRef
}
