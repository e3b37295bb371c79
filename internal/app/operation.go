package app

import "time"

// operationIDFormat names an operation by its UTC start time.
const operationIDFormat = "20060102T150405Z"

// Operation tracks one CLI command run. Its ID labels log lines and names the
// database backups it creates.
type Operation struct {
	ID        string
	Name      string
	StartedAt time.Time
	Status    string // "success" or "error"
}

// NewOperation starts an operation at now.
func NewOperation(name string, now time.Time) *Operation {
	return &Operation{
		ID:        now.UTC().Format(operationIDFormat),
		Name:      name,
		StartedAt: now,
		Status:    "success",
	}
}

// Fail marks the operation as failed.
func (op *Operation) Fail() {
	op.Status = "error"
}

// Label is the component column of the operation's log lines.
func (op *Operation) Label() string {
	return op.Name + "/" + op.ID
}
