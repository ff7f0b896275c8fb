package meta

import (
	"errors"
	"fmt"
)

// ErrSchema is the sentinel matched by every *SchemaError.
var ErrSchema = errors.New("schema error")

// SchemaError reports an unknown or malformed dataset kind, component or
// attribute. It is always a caller error and never retried.
type SchemaError struct {
	// Kind is "dataset", "component" or "attribute".
	Kind string
	// Name is the requested name.
	Name string
	// Scope names the enclosing dataset kind or component, if any.
	Scope string
	// Reason is set for malformed definitions; empty means "unknown".
	Reason string
}

func (e *SchemaError) Error() string {
	where := ""
	if e.Scope != "" {
		where = fmt.Sprintf(" in %q", e.Scope)
	}
	if e.Reason != "" {
		return fmt.Sprintf("schema: invalid %s %q%s: %s", e.Kind, e.Name, where, e.Reason)
	}
	return fmt.Sprintf("schema: unknown %s %q%s", e.Kind, e.Name, where)
}

// Is reports whether target is ErrSchema.
func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

func unknown(kind, name, scope string) error {
	return &SchemaError{Kind: kind, Name: name, Scope: scope}
}

func invalid(kind, name, scope, reason string) error {
	return &SchemaError{Kind: kind, Name: name, Scope: scope, Reason: reason}
}
