package catalog

import "fmt"

// NotFoundError reports that no catalog is registered for a routing
// selection. Fatal to the current flow; the wizard halts rather than
// picking a default.
type NotFoundError struct {
	Key Key
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no catalog registered for %s", e.Key)
}

// NodeNotFoundError reports a dangling branch target: a successor id that
// is not present in the active catalog.
type NodeNotFoundError struct {
	ID string
}

func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("question node %q not found in catalog", e.ID)
}

// UnknownKindError reports a record whose question_type is outside the
// closed kind set. Surfaced at load time, never silently defaulted.
type UnknownKindError struct {
	ID   string
	Type string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("node %q has unknown question_type %q", e.ID, e.Type)
}
