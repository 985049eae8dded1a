package advisor

import "fmt"

// ValidationError reports bad caller input. Nothing has been persisted when
// it is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// StorageError wraps a failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ContextError wraps a failure while aggregating or formatting the
// financial context block.
type ContextError struct {
	Err error
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("error preparing financial context: %v", e.Err)
}

func (e *ContextError) Unwrap() error {
	return e.Err
}

// ServiceError wraps a failure of the external completion service.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("advisory service failure: %v", e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
