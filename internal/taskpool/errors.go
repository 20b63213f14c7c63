package taskpool

import "fmt"

// Errors returned by the pool.
var (
	// ErrPoolClosed is returned by Submit after Close.
	ErrPoolClosed = &PoolError{msg: "pool is closed"}

	// ErrNilTask is returned when submitting a nil task function.
	ErrNilTask = &PoolError{msg: "task is nil"}
)

// PoolError represents an error that occurred within the task pool.
// It supports unwrapping for use with errors.Is and errors.As.
type PoolError struct {
	msg string
	err error
}

// Error returns a formatted error message.
func (e *PoolError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("taskpool: %s: %v", e.msg, e.err)
	}
	return fmt.Sprintf("taskpool: %s", e.msg)
}

// Unwrap returns the underlying error.
func (e *PoolError) Unwrap() error {
	return e.err
}

func errInvalidConfig(msg string) error {
	return &PoolError{msg: "invalid config: " + msg}
}

// PanicError wraps a value recovered from a task.
type PanicError struct {
	Value any
	Stack string
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", p.Value)
}
