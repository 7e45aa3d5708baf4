package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"claimsql/adapters/warehouse"
	apperrors "claimsql/internal/errors"
	"claimsql/models"
	"claimsql/ports"
)

func frameWithRows(n int) *models.ResultFrame {
	frame := models.NewResultFrame([]string{"GNCHIIOS_HCLM_DCN"})
	for i := 0; i < n; i++ {
		frame.AppendRow([]string{"claim"})
	}
	return frame
}

func TestExecute_PollsThroughRunningToSuccess(t *testing.T) {
	mock := &warehouse.MockWarehouse{
		States: []ports.ExecutionState{ports.ExecutionSubmitted, ports.ExecutionRunning, ports.ExecutionSuccess},
		Frame:  frameWithRows(3),
	}
	e := NewExecutor(mock, 100, time.Millisecond, time.Second, nil)

	frame, err := e.Execute(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if frame.RowCount() != 3 {
		t.Fatalf("rows = %d", frame.RowCount())
	}
	if frame.Truncated {
		t.Fatal("frame below cap marked truncated")
	}
}

func TestExecute_TruncatedExactlyAtCap(t *testing.T) {
	mock := &warehouse.MockWarehouse{
		States: []ports.ExecutionState{ports.ExecutionSuccess},
		Frame:  frameWithRows(10),
	}
	e := NewExecutor(mock, 10, time.Millisecond, time.Second, nil)

	frame, err := e.Execute(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !frame.Truncated {
		t.Fatal("frame at cap not marked truncated")
	}
}

func TestExecute_CapsFetchedRows(t *testing.T) {
	mock := &warehouse.MockWarehouse{
		States: []ports.ExecutionState{ports.ExecutionSuccess},
		Frame:  frameWithRows(25),
	}
	e := NewExecutor(mock, 10, time.Millisecond, time.Second, nil)

	frame, err := e.Execute(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if frame.RowCount() != 10 {
		t.Fatalf("rows = %d, want cap 10", frame.RowCount())
	}
	if !frame.Truncated {
		t.Fatal("capped frame not marked truncated")
	}
}

func TestExecute_FailedStateSurfacesExecutionError(t *testing.T) {
	mock := &warehouse.MockWarehouse{
		States: []ports.ExecutionState{ports.ExecutionRunning, ports.ExecutionFailed},
	}
	e := NewExecutor(mock, 10, time.Millisecond, time.Second, nil)

	_, err := e.Execute(context.Background(), "SELECT 1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperrors.HasCode(err, apperrors.CodeExecutionError) {
		t.Fatalf("unexpected code: %v", err)
	}
}

func TestExecute_SubmitErrorWrapped(t *testing.T) {
	mock := &warehouse.MockWarehouse{SubmitErr: errors.New("connection refused")}
	e := NewExecutor(mock, 10, time.Millisecond, time.Second, nil)

	_, err := e.Execute(context.Background(), "SELECT 1")
	if !apperrors.HasCode(err, apperrors.CodeExecutionError) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecute_TimesOut(t *testing.T) {
	// Status never leaves RUNNING; the bounded timeout must end the poll loop.
	mock := &warehouse.MockWarehouse{
		States: []ports.ExecutionState{ports.ExecutionRunning},
	}
	e := NewExecutor(mock, 10, time.Millisecond, 20*time.Millisecond, nil)

	_, err := e.Execute(context.Background(), "SELECT 1")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !apperrors.HasCode(err, apperrors.CodeExecutionError) {
		t.Fatalf("unexpected code: %v", err)
	}
}

func TestExecute_CallerCancellationStopsPolling(t *testing.T) {
	mock := &warehouse.MockWarehouse{
		States: []ports.ExecutionState{ports.ExecutionRunning},
	}
	e := NewExecutor(mock, 10, time.Millisecond, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Execute(ctx, "SELECT 1")
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}
