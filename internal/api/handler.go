package api

import (
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/llmrelay/llmrelay"
	"github.com/llmrelay/llmrelay/internal/api/middleware"
	"github.com/llmrelay/llmrelay/internal/batchio"
	"github.com/rs/zerolog"
)

type Handler struct {
	client *llmrelay.Client
	logger *zerolog.Logger
}

func NewHandler(client *llmrelay.Client, logger *zerolog.Logger) *Handler {
	return &Handler{
		client: client,
		logger: logger,
	}
}

// BatchRequest is the body of POST /api/v1/batch.
type BatchRequest struct {
	Items       []batchio.PromptRecord `json:"items"`
	Concurrency int                    `json:"concurrency"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// POST /api/v1/complete
// Body: batchio.PromptRecord
// Returns: llmrelay.ItemResult
func (h *Handler) Complete(req *restful.Request, resp *restful.Response) {
	var record batchio.PromptRecord
	if err := req.ReadEntity(&record); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	item := record.Item()

	h.logger.Info().
		Str("key", item.Request.Key).
		Msg("Start completion")

	ctx := req.Request.Context()
	result := h.client.Request(ctx, item.Request)

	h.logger.Info().
		Str("key", item.Request.Key).
		Bool("success", result.Succeeded()).
		Int("attempts", len(result.History)).
		Msg("Completion finished")

	resp.WriteHeaderAndEntity(http.StatusOK, llmrelay.ItemResult{
		Key:    item.Request.Key,
		Result: result,
	})
}

// POST /api/v1/batch
func (h *Handler) Batch(req *restful.Request, resp *restful.Response) {
	var batchRequest BatchRequest
	if err := req.ReadEntity(&batchRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	items := make([]llmrelay.BatchItem, 0, len(batchRequest.Items))
	for i := range batchRequest.Items {
		items = append(items, batchRequest.Items[i].Item())
	}

	h.logger.Info().
		Int("items", len(items)).
		Int("concurrency", batchRequest.Concurrency).
		Msg("Start batch")

	ctx := req.Request.Context()
	result := h.client.Parallel(ctx, llmrelay.Batch{
		Items:       items,
		Concurrency: batchRequest.Concurrency,
	})

	h.logger.Info().
		Int("items", len(result.Results)).
		Int("failed", len(result.Errors())).
		Msg("Batch finished")

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// Health handler GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}
