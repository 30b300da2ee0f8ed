package hierarchy

import (
	"errors"
	"fmt"
)

// ErrUnchanged is returned by a snapshot source when nothing changed since the
// previous fetch. The poll loop skips the cycle without building a forest.
var ErrUnchanged = errors.New("hierarchy unchanged since last sync")

// MalformedHierarchyError reports a snapshot that cannot form a forest: a parent
// reference to a node absent from the snapshot, a duplicate id, or a parent cycle.
// The current cycle is aborted and nothing is applied.
type MalformedHierarchyError struct {
	Kind     Kind
	NodeID   string
	ParentID string
	Reason   string
}

// Error implements the error interface
func (e *MalformedHierarchyError) Error() string {
	if e.ParentID != "" {
		return fmt.Sprintf("malformed hierarchy: %s %s: %s (parent %s)", e.Kind, e.NodeID, e.Reason, e.ParentID)
	}
	return fmt.Sprintf("malformed hierarchy: %s %s: %s", e.Kind, e.NodeID, e.Reason)
}

// IsMalformed reports whether err wraps a MalformedHierarchyError.
func IsMalformed(err error) bool {
	var mhe *MalformedHierarchyError
	return errors.As(err, &mhe)
}
