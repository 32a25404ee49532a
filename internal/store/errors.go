package store

import "fmt"

// NotFoundError reports a lookup miss. The Store itself treats misses as
// silent no-ops; callers that need to surface them (CLI) build this error.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
