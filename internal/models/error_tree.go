package models

import (
	"encoding/json"
	"sort"
	"strings"
)

// errorsKey holds the messages attached to a node itself rather than to a child
const errorsKey = "_errors"

// ErrorTree is a field-keyed validation report. It serializes as
//
//	{"_errors": ["form-level"], "pax": {"_errors": ["..."]}, "pickup_extra": {"1": {"_errors": ["..."]}}}
//
// so clients can map every message back to the input that caused it.
type ErrorTree struct {
	Errors []string
	Fields map[string]*ErrorTree
}

// NewErrorTree creates a tree carrying the given form-level messages
func NewErrorTree(messages ...string) *ErrorTree {
	return &ErrorTree{Errors: append([]string{}, messages...)}
}

// Add appends a message at this node
func (t *ErrorTree) Add(message string) {
	t.Errors = append(t.Errors, message)
}

// AddAt appends a message at the node addressed by path, creating nodes as needed
func (t *ErrorTree) AddAt(path []string, message string) {
	node := t
	for _, key := range path {
		node = node.Field(key)
	}
	node.Add(message)
}

// Field returns the child node for key, creating it when missing
func (t *ErrorTree) Field(key string) *ErrorTree {
	if t.Fields == nil {
		t.Fields = make(map[string]*ErrorTree)
	}
	child, ok := t.Fields[key]
	if !ok {
		child = &ErrorTree{}
		t.Fields[key] = child
	}
	return child
}

// Get returns the node addressed by path, or nil
func (t *ErrorTree) Get(path ...string) *ErrorTree {
	node := t
	for _, key := range path {
		if node == nil || node.Fields == nil {
			return nil
		}
		node = node.Fields[key]
	}
	return node
}

// Empty reports whether the tree holds no messages at any depth
func (t *ErrorTree) Empty() bool {
	if t == nil {
		return true
	}
	if len(t.Errors) > 0 {
		return false
	}
	for _, child := range t.Fields {
		if !child.Empty() {
			return false
		}
	}
	return true
}

// Messages flattens the tree into "path: message" lines sorted by path
func (t *ErrorTree) Messages() []string {
	var out []string
	t.collect("", &out)
	sort.Strings(out)
	return out
}

func (t *ErrorTree) collect(prefix string, out *[]string) {
	if t == nil {
		return
	}
	for _, msg := range t.Errors {
		if prefix == "" {
			*out = append(*out, msg)
		} else {
			*out = append(*out, prefix+": "+msg)
		}
	}
	for key, child := range t.Fields {
		path := key
		if prefix != "" {
			path = strings.Join([]string{prefix, key}, ".")
		}
		child.collect(path, out)
	}
}

// MarshalJSON implements json.Marshaler
func (t *ErrorTree) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(t.Fields)+1)
	messages := t.Errors
	if messages == nil {
		messages = []string{}
	}
	out[errorsKey] = messages
	for key, child := range t.Fields {
		out[key] = child
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler
func (t *ErrorTree) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.Errors = nil
	t.Fields = nil
	for key, value := range raw {
		if key == errorsKey {
			if err := json.Unmarshal(value, &t.Errors); err != nil {
				return err
			}
			continue
		}
		child := &ErrorTree{}
		if err := json.Unmarshal(value, child); err != nil {
			return err
		}
		if t.Fields == nil {
			t.Fields = make(map[string]*ErrorTree)
		}
		t.Fields[key] = child
	}
	return nil
}
