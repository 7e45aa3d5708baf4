package warehouse

import (
	"context"
	"sync"

	"claimsql/models"
	"claimsql/ports"
)

// MockWarehouse is a scripted in-memory warehouse for tests. Each Status
// call advances through States; Fetch returns Frame.
type MockWarehouse struct {
	States    []ports.ExecutionState
	Frame     *models.ResultFrame
	SubmitErr error
	StatusErr error
	FetchErr  error

	mu           sync.Mutex
	statusCalls  int
	SubmittedSQL []string
}

func (m *MockWarehouse) Submit(ctx context.Context, sql string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SubmitErr != nil {
		return "", m.SubmitErr
	}
	m.SubmittedSQL = append(m.SubmittedSQL, sql)
	return "mock-handle", nil
}

func (m *MockWarehouse) Status(ctx context.Context, handle string) (ports.ExecutionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatusErr != nil {
		return ports.ExecutionFailed, m.StatusErr
	}
	idx := m.statusCalls
	if idx >= len(m.States) {
		idx = len(m.States) - 1
	}
	m.statusCalls++
	if len(m.States) == 0 {
		return ports.ExecutionSuccess, nil
	}
	return m.States[idx], nil
}

func (m *MockWarehouse) Fetch(ctx context.Context, handle string, maxRows int) (*models.ResultFrame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	frame := m.Frame
	if frame == nil {
		frame = models.NewResultFrame(nil)
	}
	if maxRows > 0 && len(frame.Rows) > maxRows {
		frame = &models.ResultFrame{Columns: frame.Columns, Rows: frame.Rows[:maxRows]}
	}
	return frame, nil
}
