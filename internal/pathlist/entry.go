package pathlist

import (
	"encoding/json"
	"fmt"
)

// Entry is a navigation item before URL prefixing: a bare path suffix,
// or a path suffix paired with a display title.
type Entry struct {
	Name   string
	Title  string
	Titled bool
}

// Entries is an ordered list of entries. A nil Entries asks Build to
// discover the list from the directory; a non-nil empty Entries is an
// explicit empty list.
type Entries []Entry

// Bare returns an entry without a display title.
func Bare(name string) Entry {
	return Entry{Name: name}
}

// Pair returns an entry carrying a display title.
func Pair(name, title string) Entry {
	return Entry{Name: name, Title: title, Titled: true}
}

// ParseEntry converts a loosely typed value, as produced by YAML or JSON
// decoding into interface{}, into an Entry.
func ParseEntry(v interface{}) (Entry, error) {
	switch t := v.(type) {
	case string:
		return Bare(t), nil
	case []string:
		if len(t) == 2 {
			return Pair(t[0], t[1]), nil
		}
	case []interface{}:
		if len(t) == 2 {
			name, ok1 := t[0].(string)
			title, ok2 := t[1].(string)
			if ok1 && ok2 {
				return Pair(name, title), nil
			}
		}
	}
	return Entry{}, &InvalidEntryError{Value: v}
}

// ParseEntries converts a sequence of loosely typed values. A nil input
// stays nil so that auto-discovery is still requested.
func ParseEntries(values []interface{}) (Entries, error) {
	if values == nil {
		return nil, nil
	}
	entries := make(Entries, 0, len(values))
	for i, v := range values {
		e, err := ParseEntry(v)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// UnmarshalYAML accepts either a scalar or a [name, title] sequence.
func (e *Entry) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseEntry(raw)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// UnmarshalJSON accepts either a string or a [name, title] array.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseEntry(raw)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func (e Entry) MarshalYAML() (interface{}, error) {
	if e.Titled {
		return []string{e.Name, e.Title}, nil
	}
	return e.Name, nil
}

func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Titled {
		return json.Marshal([]string{e.Name, e.Title})
	}
	return json.Marshal(e.Name)
}
