package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/dryrun"
)

// DefaultConcurrency is the default number of concurrent workers
const DefaultConcurrency = 4

// lookupChunk is the most ids or screen names users/lookup accepts per call.
const lookupChunk = 100

// BulkResult represents the outcome of a single bulk operation
type BulkResult struct {
	ID      int64  `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	err error
}

// runBulkOperation executes operation for every id with bounded parallelism.
// Individual failures are collected, not fatal. Results keep the input order.
func runBulkOperation(ctx context.Context, ids []int64, concurrency int64, operation func(ctx context.Context, id int64) error) []BulkResult {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if dryrun.IsEnabled(ctx) {
		// Previews are written to one stream; keep them whole.
		concurrency = 1
	}

	sem := semaphore.NewWeighted(concurrency)
	var mu sync.Mutex
	results := make([]BulkResult, 0, len(ids))
	order := make(map[int64]int, len(ids))
	for i, id := range ids {
		if _, seen := order[id]; !seen {
			order[id] = i
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			err := operation(ctx, id)
			r := BulkResult{ID: id, Success: err == nil || dryrun.IsSkipped(err)}
			if !r.Success {
				r.err = err
				r.Error = err.Error()
			}
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(results, func(i, j int) bool { return order[results[i].ID] < order[results[j].ID] })
	return results
}

// countResults returns success and failure counts from bulk results
func countResults(results []BulkResult) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	return
}

// bulkError summarizes failed results; the first failure keeps its type for exit codes.
func bulkError(results []BulkResult) error {
	_, failed := countResults(results)
	if failed == 0 {
		return nil
	}
	for _, r := range results {
		if !r.Success {
			return fmt.Errorf("%d of %d operations failed: %w", failed, len(results), r.err)
		}
	}
	return errors.New("bulk operation failed")
}

// chunk splits items into slices of at most size elements.
func chunk[T any](items []T, size int) [][]T {
	var out [][]T
	for len(items) > size {
		out = append(out, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}

// lookupUsers resolves ids in concurrent chunks of lookupChunk. Users keep
// the order of the chunks they were requested in.
func lookupUsers(ctx context.Context, client *api.Client, ids []int64, names []string) ([]api.User, error) {
	type batch struct {
		ids   []int64
		names []string
	}
	var batches []batch
	for _, c := range chunk(ids, lookupChunk) {
		batches = append(batches, batch{ids: c})
	}
	for _, c := range chunk(names, lookupChunk) {
		batches = append(batches, batch{names: c})
	}

	parts := make([][]api.User, len(batches))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)
	for i, b := range batches {
		g.Go(func() error {
			var (
				users []api.User
				err   error
			)
			if len(b.ids) > 0 {
				users, err = client.Users().LookupIDs(ctx, b.ids)
			} else {
				users, err = client.Users().LookupScreenNames(ctx, b.names)
			}
			if err != nil {
				return err
			}
			parts[i] = users
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []api.User
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}
