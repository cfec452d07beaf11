package models

import (
	"sort"
	"strings"
)

// ErrorMap maps a form field to a user-facing message.
type ErrorMap map[string]string

func (m ErrorMap) Empty() bool { return len(m) == 0 }

// Fields returns the field names in stable order.
func (m ErrorMap) Fields() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidationError is returned when local validation fails; nothing was sent.
type ValidationError struct {
	Fields ErrorMap
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, k := range e.Fields.Fields() {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
