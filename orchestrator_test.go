package llmrelay

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// scriptedTransport fails the first failFirst calls and succeeds
// afterwards with the configured response.
type scriptedTransport struct {
	mu        sync.Mutex
	calls     int
	failFirst int
	err       error
	response  ChatResponse
	delay     time.Duration
}

func (s *scriptedTransport) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	s.mu.Lock()
	call := s.calls
	s.calls++
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if call < s.failFirst {
		err := s.err
		if err == nil {
			err = errors.New("transport unavailable")
		}
		return nil, err
	}
	resp := s.response
	return &resp, nil
}

func (s *scriptedTransport) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeImageClient struct {
	urls  []string
	calls int
}

func (f *fakeImageClient) Generate(ctx context.Context, req ImageRequest) (*ImageResponse, error) {
	f.calls++
	return &ImageResponse{URLs: f.urls}, nil
}

func mustClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return client
}

func TestRequest_SingleAttemptSuccess(t *testing.T) {
	transport := &scriptedTransport{response: ChatResponse{Content: "hello there", Tokens: 12}}
	client := mustClient(t, Config{Completions: transport})

	res := client.Request(context.Background(), Request{Prompt: "hi"})

	if !res.Succeeded() {
		t.Fatalf("expected success, got error %q", res.Err)
	}
	if res.Response == nil || res.Response.Content != "hello there" {
		t.Errorf("Response = %+v, want content 'hello there'", res.Response)
	}
	if len(res.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(res.History))
	}
	if res.History[0].Status != AttemptSuccess {
		t.Errorf("attempt status = %s, want success", res.History[0].Status)
	}
	if transport.callCount() != 1 {
		t.Errorf("transport calls = %d, want 1 (retryCount 0 means one attempt)", transport.callCount())
	}
}

func TestRequest_PermanentFailureExhaustsBudget(t *testing.T) {
	transport := &scriptedTransport{failFirst: 100, err: errors.New("HTTP 503")}
	client := mustClient(t, Config{
		Completions: transport,
		Defaults:    Options{RetryCount: 2},
	})

	res := client.Request(context.Background(), Request{Prompt: "hi"})

	if res.Succeeded() {
		t.Fatal("expected terminal failure")
	}
	if res.Err != "HTTP 503" {
		t.Errorf("Err = %q, want the last transport message", res.Err)
	}
	if len(res.History) != 3 {
		t.Fatalf("history length = %d, want retryCount+1 = 3", len(res.History))
	}
	for i, a := range res.History {
		if a.Status != AttemptFailure {
			t.Errorf("attempt %d status = %s, want failure", i, a.Status)
		}
		if a.Err == "" {
			t.Errorf("attempt %d has no error message", i)
		}
	}
}

func TestRequest_DelayFuncSeesFailedAttemptIndices(t *testing.T) {
	transport := &scriptedTransport{failFirst: 2, response: ChatResponse{Content: "ok", Tokens: 3}}

	var mu sync.Mutex
	var seen []int
	delay := DelayFunc(func(attempt int) time.Duration {
		mu.Lock()
		seen = append(seen, attempt)
		mu.Unlock()
		return time.Duration(attempt) * 50 * time.Millisecond
	})

	client := mustClient(t, Config{
		Completions: transport,
		Defaults:    Options{RetryCount: 2, RetryDelay: delay},
	})

	start := time.Now()
	res := client.Request(context.Background(), Request{Prompt: "hi"})
	elapsed := time.Since(start)

	if !res.Succeeded() {
		t.Fatalf("expected success on the third attempt, got %q", res.Err)
	}
	if len(res.History) != 3 {
		t.Fatalf("history length = %d, want 3", len(res.History))
	}
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 1 {
		t.Errorf("delay function saw indices %v, want [0 1]", seen)
	}
	// 0*50ms after the first failure plus 1*50ms after the second.
	if elapsed < 50*time.Millisecond {
		t.Errorf("elapsed = %v, want at least 50ms of retry delay", elapsed)
	}
}

func TestRequest_NoDelayAfterFinalAttempt(t *testing.T) {
	transport := &scriptedTransport{failFirst: 100}

	invocations := 0
	delay := DelayFunc(func(attempt int) time.Duration {
		invocations++
		return time.Millisecond
	})

	client := mustClient(t, Config{
		Completions: transport,
		Defaults:    Options{RetryCount: 2, RetryDelay: delay},
	})

	res := client.Request(context.Background(), Request{Prompt: "hi"})

	if res.Succeeded() {
		t.Fatal("expected exhaustion")
	}
	if want := len(res.History) - 1; invocations != want {
		t.Errorf("delay invoked %d times, want attemptsMade-1 = %d", invocations, want)
	}
}

func TestRequest_TimeoutSentinel(t *testing.T) {
	transport := &scriptedTransport{
		delay:    200 * time.Millisecond,
		response: ChatResponse{Content: "too late"},
	}
	timeout := 20 * time.Millisecond
	client := mustClient(t, Config{Completions: transport})

	res := client.Request(context.Background(), Request{
		Prompt:  "hi",
		Options: &Overrides{Timeout: &timeout},
	})

	if res.Succeeded() {
		t.Fatal("expected timeout failure")
	}
	if res.Err != "Request timed out" {
		t.Errorf("Err = %q, want the uniform timeout sentinel", res.Err)
	}
	if len(res.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(res.History))
	}
}

func TestRequest_ValidationFailureSharesRetryBudget(t *testing.T) {
	transport := &scriptedTransport{response: ChatResponse{Content: "short", Tokens: 5}}
	client := mustClient(t, Config{
		Completions: transport,
		Defaults:    Options{RetryCount: 1, MinTokens: 10},
	})

	res := client.Request(context.Background(), Request{Prompt: "hi"})

	if res.Succeeded() {
		t.Fatal("expected validation exhaustion")
	}
	if !strings.Contains(res.Err, "tokens") {
		t.Errorf("Err = %q, want a token floor message", res.Err)
	}
	if len(res.History) != 2 {
		t.Fatalf("history length = %d, want 2 (validation failures consume the same budget)", len(res.History))
	}
	if res.Response == nil || res.Response.Content != "short" {
		t.Errorf("partial response = %+v, want the rejected body attached for debugging", res.Response)
	}
}

func TestRequest_TokenFloorBoundaries(t *testing.T) {
	tests := []struct {
		tokens int
		accept bool
	}{
		{9, false},
		{10, false},
		{11, true},
	}

	for _, tt := range tests {
		transport := &scriptedTransport{response: ChatResponse{Content: "answer", Tokens: tt.tokens}}
		client := mustClient(t, Config{
			Completions: transport,
			Defaults:    Options{MinTokens: 10},
		})

		res := client.Request(context.Background(), Request{Prompt: "hi"})
		if res.Succeeded() != tt.accept {
			t.Errorf("tokens=%d: succeeded=%v, want %v", tt.tokens, res.Succeeded(), tt.accept)
		}
	}
}

func TestRequest_ModerationVeto(t *testing.T) {
	transport := &scriptedTransport{response: ChatResponse{Content: "never sent"}}
	moderation := &fakeModerationClient{
		classification: &Classification{
			Flagged: true,
			Scores:  map[string]float64{"violence": 0.97},
		},
	}
	client := mustClient(t, Config{Completions: transport, Moderation: moderation})

	res := client.Request(context.Background(), Request{Prompt: "something awful"})

	if res.Succeeded() {
		t.Fatal("expected moderation veto")
	}
	if !strings.Contains(res.Err, "violence") {
		t.Errorf("Err = %q, want the violated category named", res.Err)
	}
	if res.History != nil {
		t.Errorf("history = %v, want nil (never-attempted sentinel)", res.History)
	}
	if res.Response != nil {
		t.Errorf("response = %+v, want nil", res.Response)
	}
	if transport.callCount() != 0 {
		t.Errorf("transport calls = %d, want 0 (veto consumes no attempts)", transport.callCount())
	}
}

func TestRequest_ModerationTransportErrorIsFatal(t *testing.T) {
	transport := &scriptedTransport{response: ChatResponse{Content: "fine"}}
	moderation := &fakeModerationClient{err: errors.New("classification unavailable")}
	client := mustClient(t, Config{Completions: transport, Moderation: moderation})

	res := client.Request(context.Background(), Request{Prompt: "hello"})

	if res.Succeeded() {
		t.Fatal("expected fatal moderation failure")
	}
	if !strings.Contains(res.Err, "moderation check failed") {
		t.Errorf("Err = %q, want moderation failure prefix", res.Err)
	}
	if res.History != nil {
		t.Errorf("history = %v, want nil", res.History)
	}
	if transport.callCount() != 0 {
		t.Errorf("transport calls = %d, want 0 (moderation failures are not retried)", transport.callCount())
	}
}

func TestRequest_ConfigErrors(t *testing.T) {
	negative := -1
	zeroTimeout := time.Duration(0)
	negativeTimeout := -time.Second
	coldTemp := -3.5
	hotTemp := 2.5
	tests := []struct {
		name string
		req  Request
	}{
		{"empty conversation", Request{}},
		{"negative retry count", Request{Prompt: "hi", Options: &Overrides{RetryCount: &negative}}},
		{"zero timeout override", Request{Prompt: "hi", Options: &Overrides{Timeout: &zeroTimeout}}},
		{"negative timeout override", Request{Prompt: "hi", Options: &Overrides{Timeout: &negativeTimeout}}},
		{"negative temperature", Request{Prompt: "hi", Options: &Overrides{Temperature: &coldTemp}}},
		{"temperature above range", Request{Prompt: "hi", Options: &Overrides{Temperature: &hotTemp}}},
		{"unknown role", Request{Messages: []Message{{Role: "narrator", Content: "x"}}}},
		{"image without client", Request{Prompt: "a cat", Options: &Overrides{Images: &ImageOptions{Count: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &scriptedTransport{response: ChatResponse{Content: "ok"}}
			client := mustClient(t, Config{Completions: transport})

			res := client.Request(context.Background(), tt.req)

			if res.Succeeded() {
				t.Fatal("expected configuration error")
			}
			if !strings.HasPrefix(res.Err, "invalid request:") {
				t.Errorf("Err = %q, want an invalid request message", res.Err)
			}
			if res.History != nil {
				t.Errorf("history = %v, want nil (raised before any attempt)", res.History)
			}
			if transport.callCount() != 0 {
				t.Errorf("transport calls = %d, want 0", transport.callCount())
			}
		})
	}
}

func TestRequest_JSONValidationRetriesUntilWellFormed(t *testing.T) {
	// First response is prose, second is JSON.
	transport := &proseThenJSONTransport{}
	client := mustClient(t, Config{
		Completions: transport,
		Defaults:    Options{RetryCount: 1, ValidateJSON: true},
	})

	res := client.Request(context.Background(), Request{Prompt: "give me json"})

	if !res.Succeeded() {
		t.Fatalf("expected success on retry, got %q", res.Err)
	}
	if len(res.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(res.History))
	}
	if res.History[0].Status != AttemptFailure || res.History[1].Status != AttemptSuccess {
		t.Errorf("history statuses = %v, want [failure success]", []AttemptStatus{res.History[0].Status, res.History[1].Status})
	}
}

type proseThenJSONTransport struct {
	calls int
}

func (p *proseThenJSONTransport) Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	p.calls++
	if p.calls == 1 {
		return &ChatResponse{Content: "Sure! Here is your JSON:", Tokens: 8}, nil
	}
	return &ChatResponse{Content: `{"ok": true}`, Tokens: 6}, nil
}

func TestRequest_ImageGeneration(t *testing.T) {
	transport := &scriptedTransport{}
	images := &fakeImageClient{urls: []string{"https://img.example/1.png", "https://img.example/2.png"}}
	client := mustClient(t, Config{Completions: transport, Images: images})

	res := client.Request(context.Background(), Request{
		Prompt:  "a lighthouse at dusk",
		Options: &Overrides{Images: &ImageOptions{Count: 2, Size: "1024x1024"}},
	})

	if !res.Succeeded() {
		t.Fatalf("expected success, got %q", res.Err)
	}
	if res.Response == nil || len(res.Response.ImageURLs) != 2 {
		t.Fatalf("Response = %+v, want 2 image URLs", res.Response)
	}
	if transport.callCount() != 0 {
		t.Errorf("completion transport calls = %d, want 0 on the image path", transport.callCount())
	}
	if images.calls != 1 {
		t.Errorf("image client calls = %d, want 1", images.calls)
	}
}
