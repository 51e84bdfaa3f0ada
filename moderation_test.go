package llmrelay

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

type fakeModerationClient struct {
	classification *Classification
	err            error
	calls          int
}

func (f *fakeModerationClient) Classify(ctx context.Context, text string) (*Classification, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.classification, nil
}

func newTestGate(client ModerationClient, threshold float64) *gate {
	logger := zerolog.Nop()
	return &gate{client: client, threshold: threshold, logger: &logger}
}

func TestGate_CategoriesAtOrAboveThreshold(t *testing.T) {
	client := &fakeModerationClient{
		classification: &Classification{
			Flagged: true,
			Scores: map[string]float64{
				"hate":       0.93,
				"violence":   0.5,
				"harassment": 0.11,
			},
		},
	}

	verdict, err := newTestGate(client, 0.5).Check(context.Background(), "some prompt")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !verdict.Flagged {
		t.Error("expected flagged verdict")
	}
	if want := []string{"hate", "violence"}; !reflect.DeepEqual(verdict.Categories, want) {
		t.Errorf("Categories = %v, want %v", verdict.Categories, want)
	}
}

func TestGate_CleanPrompt(t *testing.T) {
	client := &fakeModerationClient{
		classification: &Classification{
			Scores: map[string]float64{"hate": 0.01},
		},
	}

	verdict, err := newTestGate(client, 0.5).Check(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if verdict.Flagged {
		t.Errorf("expected clean verdict, got %+v", verdict)
	}
}

func TestGate_ProviderFlaggedWithoutThresholdCrossers(t *testing.T) {
	client := &fakeModerationClient{
		classification: &Classification{
			Flagged: true,
			Scores:  map[string]float64{"hate": 0.2},
		},
	}

	verdict, err := newTestGate(client, 0.9).Check(context.Background(), "borderline")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !verdict.Flagged {
		t.Error("provider-level flag must be honored even when no category crosses the threshold")
	}
	if len(verdict.Categories) != 0 {
		t.Errorf("Categories = %v, want none", verdict.Categories)
	}
}

func TestGate_ClassifyErrorPropagates(t *testing.T) {
	client := &fakeModerationClient{err: errors.New("moderation service unavailable")}

	_, err := newTestGate(client, 0.5).Check(context.Background(), "text")
	if err == nil {
		t.Fatal("expected classify error to propagate")
	}
}
