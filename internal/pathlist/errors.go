package pathlist

import "fmt"

// NotFoundError reports a missing directory during auto-discovery.
type NotFoundError struct {
	Dir string
	Err error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("docs directory %q not found: %v", e.Dir, e.Err)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// InvalidEntryError reports an explicit entry that is neither a string
// nor a [name, title] pair.
type InvalidEntryError struct {
	Value interface{}
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid entry %#v: want a name or a [name, title] pair", e.Value)
}
