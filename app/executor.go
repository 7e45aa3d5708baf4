// Package app holds the criteria-to-report pipeline: guarded query
// execution, result post-processing and the orchestration funnel.
package app

import (
	"context"
	"log"
	"time"

	"claimsql/internal/errors"
	"claimsql/internal/usage"
	"claimsql/models"
	"claimsql/ports"
)

// Executor submits sanitized SQL to the warehouse collaborator, polls the
// execution to a terminal state and caps the fetched rows. The poll loop is
// bounded by both the configured timeout and the caller's context.
type Executor struct {
	warehouse    ports.Warehouse
	rowCap       int
	pollInterval time.Duration
	timeout      time.Duration
	tracker      *usage.Tracker
}

// NewExecutor creates an executor over the warehouse collaborator.
func NewExecutor(warehouse ports.Warehouse, rowCap int, pollInterval, timeout time.Duration, tracker *usage.Tracker) *Executor {
	return &Executor{
		warehouse:    warehouse,
		rowCap:       rowCap,
		pollInterval: pollInterval,
		timeout:      timeout,
		tracker:      tracker,
	}
}

// Execute runs one query to completion. The returned frame's Truncated flag
// is true exactly when the fetched row count equals the cap; a result whose
// true size coincides with the cap is indistinguishable from a truncated one.
func (e *Executor) Execute(ctx context.Context, sql string) (*models.ResultFrame, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	handle, err := e.warehouse.Submit(ctx, sql)
	if err != nil {
		return nil, errors.WithCode(errors.CodeExecutionError, errors.Wrap(err, "query submission failed"))
	}
	log.Printf("[Executor] Submitted execution handle=%s", handle)

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, errors.WithCode(errors.CodeExecutionError,
				errors.Wrapf(ctx.Err(), "query execution abandoned after %s", time.Since(start).Round(time.Second)))
		case <-ticker.C:
		}

		state, err := e.warehouse.Status(ctx, handle)
		if err != nil {
			return nil, errors.WithCode(errors.CodeExecutionError, errors.Wrapf(err, "query %s failed", handle))
		}

		switch state {
		case ports.ExecutionSubmitted, ports.ExecutionRunning:
			continue
		case ports.ExecutionFailed:
			return nil, errors.ExecutionError("query " + handle + " failed")
		case ports.ExecutionSuccess:
			frame, err := e.warehouse.Fetch(ctx, handle, e.rowCap)
			if err != nil {
				return nil, errors.WithCode(errors.CodeExecutionError, errors.Wrap(err, "result fetch failed"))
			}
			frame.Truncated = frame.RowCount() == e.rowCap
			if e.tracker != nil {
				e.tracker.RecordLatency(time.Since(start))
			}
			log.Printf("[Executor] Execution %s succeeded - rows=%d, truncated=%v, elapsed=%s",
				handle, frame.RowCount(), frame.Truncated, time.Since(start).Round(time.Millisecond))
			return frame, nil
		default:
			return nil, errors.ExecutionError("unknown execution state: " + string(state))
		}
	}
}
