package llmrelay

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

// BatchItem is one logical request inside a batch. Higher Priority
// values are admitted first; ties keep submission order.
type BatchItem struct {
	Request
	Priority int
}

// Batch is a set of logical requests executed with bounded
// parallelism.
type Batch struct {
	Items []BatchItem

	// Concurrency bounds the number of simultaneously in-flight
	// requests. Values below 1 are treated as 1.
	Concurrency int

	// OnResponse, when set, fires exactly once per item at the moment
	// its request reaches a terminal state, in completion order.
	OnResponse func(result Result, index int, key string)
}

// dispatcher fans a batch out over a bounded worker pool and collects
// results by submission index. One item's failure never aborts its
// siblings.
type dispatcher struct {
	orch     *orchestrator
	defaults Options
	logger   *zerolog.Logger
}

func (d *dispatcher) runAll(ctx context.Context, batch Batch) BatchResult {
	n := len(batch.Items)
	results := make([]ItemResult, n)
	if n == 0 {
		return BatchResult{Results: results}
	}

	workers := batch.Concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}

	d.logger.Info().
		Int("items", n).
		Int("concurrency", workers).
		Msg("dispatching batch")

	jobs := make(chan int)
	var wg sync.WaitGroup
	var cbMu sync.Mutex

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				item := batch.Items[idx]
				key := item.key()

				res := d.orch.run(ctx, item.Request, resolveOptions(d.defaults, item.Options))
				results[idx] = ItemResult{Key: key, Result: res}

				if batch.OnResponse != nil {
					cbMu.Lock()
					batch.OnResponse(res, idx, key)
					cbMu.Unlock()
				}
			}
		}()
	}

	// Admission is FIFO by priority: higher priority first, ties in
	// submission order.
	for _, idx := range admissionOrder(batch.Items) {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	result := BatchResult{Results: results}
	d.logger.Info().
		Int("items", n).
		Int("failed", len(result.Errors())).
		Msg("batch complete")
	return result
}

func admissionOrder(items []BatchItem) []int {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return items[order[a]].Priority > items[order[b]].Priority
	})
	return order
}
