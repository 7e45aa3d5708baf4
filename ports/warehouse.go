package ports

import (
	"context"

	"claimsql/models"
)

// ExecutionState is the remote state of a submitted warehouse query.
type ExecutionState string

const (
	ExecutionSubmitted ExecutionState = "SUBMITTED"
	ExecutionRunning   ExecutionState = "RUNNING"
	ExecutionSuccess   ExecutionState = "SUCCESS"
	ExecutionFailed    ExecutionState = "FAILED"
)

// Warehouse is the analytical-store collaborator. Submission is asynchronous:
// Submit returns an execution handle, Status is polled until a terminal state
// and Fetch retrieves at most maxRows rows of a successful execution.
type Warehouse interface {
	Submit(ctx context.Context, sql string) (handle string, err error)
	Status(ctx context.Context, handle string) (ExecutionState, error)
	Fetch(ctx context.Context, handle string, maxRows int) (*models.ResultFrame, error)
}
