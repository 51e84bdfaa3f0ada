package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/llmrelay/llmrelay"
	"github.com/llmrelay/llmrelay/internal/api"
	"github.com/llmrelay/llmrelay/internal/batchio"
	"github.com/rs/zerolog"
)

// stubTransport answers every prompt with a canned response, failing
// requests whose prompt matches the poison marker.
type stubTransport struct {
	content string
	tokens  int
}

func (s *stubTransport) Complete(ctx context.Context, req llmrelay.ChatRequest) (*llmrelay.ChatResponse, error) {
	for _, m := range req.Messages {
		if m.Content == "poison" {
			return nil, errors.New("upstream exploded")
		}
	}
	return &llmrelay.ChatResponse{Content: s.content, Tokens: s.tokens}, nil
}

func setupTestAPI(t *testing.T) *restful.Container {
	t.Helper()

	logger := zerolog.Nop()
	client, err := llmrelay.New(llmrelay.Config{
		Completions: &stubTransport{content: "The capital of France is Paris.", tokens: 8},
		Logger:      &logger,
	})
	if err != nil {
		t.Fatalf("Failed to create relay client: %v", err)
	}

	handler := api.NewHandler(client, &logger)
	container := restful.NewContainer()
	api.RegisterRoutes(container, handler)

	return container
}

func TestAPI_Health(t *testing.T) {
	container := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	recorder := httptest.NewRecorder()

	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", recorder.Code)
	}

	var response api.HealthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response.Status != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", response.Status)
	}
}

func TestAPI_Complete(t *testing.T) {
	container := setupTestAPI(t)

	body, _ := json.Marshal(batchio.PromptRecord{
		ID:     "req-001",
		Prompt: "What is the capital of France?",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/complete", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d. Body: %s", recorder.Code, recorder.Body.String())
	}

	var result llmrelay.ItemResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if result.Key != "req-001" {
		t.Errorf("Expected key 'req-001', got '%s'", result.Key)
	}
	if !result.Succeeded() {
		t.Errorf("Expected success, got error: %s", result.Err)
	}
	if result.Response == nil || result.Response.Content != "The capital of France is Paris." {
		t.Errorf("Unexpected response: %+v", result.Response)
	}
	if len(result.History) != 1 {
		t.Errorf("Expected 1 attempt, got %d", len(result.History))
	}
}

func TestAPI_Complete_InvalidBody(t *testing.T) {
	container := setupTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/complete", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", recorder.Code)
	}
}

func TestAPI_Complete_EmptyPrompt(t *testing.T) {
	container := setupTestAPI(t)

	body, _ := json.Marshal(batchio.PromptRecord{ID: "req-002"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/complete", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	container.ServeHTTP(recorder, req)

	// The relay reports configuration problems in the result body.
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", recorder.Code)
	}

	var result llmrelay.ItemResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if result.Succeeded() {
		t.Error("Expected failure for empty prompt")
	}
	if len(result.History) != 0 {
		t.Errorf("Expected no attempts for invalid request, got %d", len(result.History))
	}
}

func TestAPI_Batch(t *testing.T) {
	container := setupTestAPI(t)

	body, _ := json.Marshal(api.BatchRequest{
		Items: []batchio.PromptRecord{
			{ID: "a", Prompt: "first"},
			{ID: "b", Prompt: "poison"},
			{ID: "c", Prompt: "third"},
		},
		Concurrency: 2,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/batch", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d. Body: %s", recorder.Code, recorder.Body.String())
	}

	var result llmrelay.BatchResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if len(result.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(result.Results))
	}

	// Results keep submission order
	for i, key := range []string{"a", "b", "c"} {
		if result.Results[i].Key != key {
			t.Errorf("Expected key '%s' at index %d, got '%s'", key, i, result.Results[i].Key)
		}
	}

	if result.Results[1].Succeeded() {
		t.Error("Expected poisoned item to fail")
	}
	if !result.Results[0].Succeeded() || !result.Results[2].Succeeded() {
		t.Error("Expected healthy items to succeed despite a failing sibling")
	}
}
