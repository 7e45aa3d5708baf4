// Package warehouse adapts a database/sql analytical store to the
// asynchronous submit/poll/fetch contract the executor expects.
package warehouse

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"claimsql/models"
	"claimsql/ports"
)

// retentionDefault bounds how long a terminal execution nobody fetches stays
// in the registry before it is reclaimed.
const retentionDefault = time.Minute

// Adapter runs each submitted query on its own goroutine and tracks the
// execution in an in-memory registry keyed by handle. The driver itself is
// synchronous; the registry is what gives callers the submit/poll shape.
type Adapter struct {
	db         *sqlx.DB
	fetchLimit int
	retention  time.Duration

	mu         sync.Mutex
	executions map[string]*execution
}

type execution struct {
	state ports.ExecutionState
	frame *models.ResultFrame
	err   error
}

// New creates the adapter. fetchLimit bounds how many rows a single
// execution will ever materialize.
func New(db *sqlx.DB, fetchLimit int) *Adapter {
	if fetchLimit <= 0 {
		fetchLimit = 200000
	}
	return &Adapter{
		db:         db,
		fetchLimit: fetchLimit,
		retention:  retentionDefault,
		executions: make(map[string]*execution),
	}
}

// Submit starts the query asynchronously and returns its execution handle.
func (a *Adapter) Submit(ctx context.Context, sql string) (string, error) {
	handle := uuid.NewString()

	a.mu.Lock()
	a.executions[handle] = &execution{state: ports.ExecutionSubmitted}
	a.mu.Unlock()

	go a.run(ctx, handle, sql)
	log.Printf("[Warehouse] Submitted query handle=%s", handle)
	return handle, nil
}

// Status reports the remote state of an execution. A FAILED execution is
// released on report; callers stop polling once they see the terminal state.
func (a *Adapter) Status(ctx context.Context, handle string) (ports.ExecutionState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	exec, ok := a.executions[handle]
	if !ok {
		return ports.ExecutionFailed, fmt.Errorf("unknown execution handle %s", handle)
	}
	if exec.state == ports.ExecutionFailed {
		delete(a.executions, handle)
		return ports.ExecutionFailed, exec.err
	}
	return exec.state, nil
}

// Fetch returns at most maxRows rows of a successful execution and releases
// the registry entry.
func (a *Adapter) Fetch(ctx context.Context, handle string, maxRows int) (*models.ResultFrame, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	exec, ok := a.executions[handle]
	if !ok {
		return nil, fmt.Errorf("unknown execution handle %s", handle)
	}
	if exec.state != ports.ExecutionSuccess {
		return nil, fmt.Errorf("execution %s is not in a fetchable state: %s", handle, exec.state)
	}
	delete(a.executions, handle)

	frame := exec.frame
	if maxRows > 0 && len(frame.Rows) > maxRows {
		frame = &models.ResultFrame{Columns: frame.Columns, Rows: frame.Rows[:maxRows]}
	}
	return frame, nil
}

func (a *Adapter) run(ctx context.Context, handle, sql string) {
	a.setState(handle, ports.ExecutionRunning, nil, nil)

	frame, err := a.query(ctx, sql)
	if err != nil {
		a.finish(handle, ports.ExecutionFailed, nil, err)
		return
	}
	a.finish(handle, ports.ExecutionSuccess, frame, nil)
}

func (a *Adapter) query(ctx context.Context, sql string) (*models.ResultFrame, error) {
	rows, err := a.db.QueryxContext(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	frame := models.NewResultFrame(columns)
	for rows.Next() {
		if len(frame.Rows) >= a.fetchLimit {
			break
		}
		raw, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		frame.AppendRow(stringify(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return frame, nil
}

// finish records the terminal state and schedules the registry entry's
// reclamation. A caller that abandons the execution, for example on a poll
// timeout, would otherwise leave the entry behind forever.
func (a *Adapter) finish(handle string, state ports.ExecutionState, frame *models.ResultFrame, err error) {
	a.setState(handle, state, frame, err)
	time.AfterFunc(a.retention, func() { a.release(handle) })
}

func (a *Adapter) release(handle string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.executions, handle)
}

func (a *Adapter) setState(handle string, state ports.ExecutionState, frame *models.ResultFrame, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if exec, ok := a.executions[handle]; ok {
		exec.state = state
		exec.frame = frame
		exec.err = err
	}
}

func stringify(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		switch val := v.(type) {
		case nil:
			out[i] = ""
		case []byte:
			out[i] = string(val)
		case string:
			out[i] = val
		default:
			out[i] = fmt.Sprint(val)
		}
	}
	return out
}
