package llmrelay

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
)

// defaultModerationThreshold is the category score at or above which a
// category counts as violated.
const defaultModerationThreshold = 0.5

// gate is the pre-flight moderation check. It runs once per logical
// request, before the first attempt, and only when a moderation client
// is configured. A flagged verdict vetoes the request with zero model
// calls; a classification transport error is fatal and not retried.
type gate struct {
	client    ModerationClient
	threshold float64
	logger    *zerolog.Logger
}

func (g *gate) Check(ctx context.Context, text string) (Verdict, error) {
	cls, err := g.client.Classify(ctx, text)
	if err != nil {
		return Verdict{}, err
	}

	var categories []string
	for name, score := range cls.Scores {
		if score >= g.threshold {
			categories = append(categories, name)
		}
	}
	sort.Strings(categories)

	verdict := Verdict{
		Flagged:    cls.Flagged || len(categories) > 0,
		Categories: categories,
	}

	if verdict.Flagged {
		g.logger.Warn().
			Strs("categories", verdict.Categories).
			Msg("prompt flagged by moderation gate")
	}

	return verdict, nil
}
