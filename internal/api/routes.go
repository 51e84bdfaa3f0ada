package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/llmrelay/llmrelay"
	"github.com/llmrelay/llmrelay/internal/api/middleware"
	"github.com/llmrelay/llmrelay/internal/batchio"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/complete").
			To(handler.Complete).
			Doc("Run one completion with retries, validation and moderation").
			Metadata(restfulspec.KeyOpenAPITags, []string{"complete"}).
			Reads(batchio.PromptRecord{}).
			Writes(llmrelay.ItemResult{}).
			Returns(200, "OK", llmrelay.ItemResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/batch").
			To(handler.Batch).
			Doc("Run a batch of completions with bounded concurrency").
			Metadata(restfulspec.KeyOpenAPITags, []string{"complete"}).
			Reads(BatchRequest{}).
			Writes(llmrelay.BatchResult{}).
			Returns(200, "OK", llmrelay.BatchResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
