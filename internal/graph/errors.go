package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dusk-indust/docgraph/internal/docstore"
	"github.com/dusk-indust/docgraph/internal/objectid"
)

// Sentinel errors for graph operations.
var (
	// ErrNodeNotFound is returned when the source node of an edge does not
	// exist.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound is returned by GetEdge when no edge joins the two
	// nodes.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrInvalidArgument is matched by every *InvalidArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")
)

// InvalidArgumentError reports a rejected parameter. It is returned
// before any store access.
type InvalidArgumentError struct {
	Param  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("graph: invalid argument %s: %s", e.Param, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// AttributeError reports an endpoint that does not exist: the target of
// a new edge, or the start of a traversal.
type AttributeError struct {
	Attribute string
	ID        objectid.ID
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("graph: node not found: %s (%s)", e.Attribute, e.ID)
}

func checkID(param string, id objectid.ID) error {
	if id.IsZero() {
		return &InvalidArgumentError{Param: param, Reason: "zero identifier"}
	}
	return nil
}

func checkAttrs(param string, attrs Attrs) error {
	for k := range attrs {
		var reason string
		switch {
		case k == "":
			reason = "empty attribute key"
		case k == docstore.IDField:
			reason = "attribute key " + docstore.IDField + " is reserved"
		case strings.Contains(k, "."):
			reason = fmt.Sprintf("attribute key %q contains '.'", k)
		case strings.HasPrefix(k, "$"):
			reason = fmt.Sprintf("attribute key %q starts with '$'", k)
		default:
			continue
		}
		return &InvalidArgumentError{Param: param, Reason: reason}
	}
	return nil
}
