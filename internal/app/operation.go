package app

import "time"

// Operation tracks one CLI command from start to Close.
type Operation struct {
	ID      string
	Name    string
	Status  string // "success" or "error"
	Err     error
	Started time.Time
}

// NewOperation creates a new operation, started now.
func NewOperation(name, id string) *Operation {
	return &Operation{
		ID:      id,
		Name:    name,
		Status:  "success",
		Started: time.Now(),
	}
}

// Fail records err and marks the operation failed. A nil err is ignored.
func (op *Operation) Fail(err error) {
	if err == nil {
		return
	}
	op.Status = "error"
	op.Err = err
}

// Elapsed returns the time since the operation started.
func (op *Operation) Elapsed() time.Duration {
	return time.Since(op.Started)
}
