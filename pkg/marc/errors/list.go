package errors

import (
	"fmt"
	"strings"
)

// ErrorList accumulates violations found during a validation pass.
// It allows collecting every violation instead of failing on the first.
type ErrorList struct {
	Violations []*Violation
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Violations: make([]*Violation, 0),
	}
}

// Add appends a violation to the list. Nil violations are ignored.
func (el *ErrorList) Add(v *Violation) {
	if v == nil {
		return
	}
	el.Violations = append(el.Violations, v)
}

// Extend appends every violation in vs to the list.
func (el *ErrorList) Extend(vs []*Violation) {
	for _, v := range vs {
		el.Add(v)
	}
}

// Merge appends every violation from another list.
func (el *ErrorList) Merge(other *ErrorList) {
	if other == nil {
		return
	}
	el.Violations = append(el.Violations, other.Violations...)
}

// HasErrors returns true if the list contains any violations.
func (el *ErrorList) HasErrors() bool {
	return len(el.Violations) > 0
}

// Count returns the number of violations in the list.
func (el *ErrorList) Count() int {
	return len(el.Violations)
}

// ByKind returns all violations of the given kind, preserving order.
func (el *ErrorList) ByKind(kind Kind) []*Violation {
	var result []*Violation
	for _, v := range el.Violations {
		if v.Kind == kind {
			result = append(result, v)
		}
	}
	return result
}

// HasKind returns true if the list contains at least one violation of the
// given kind.
func (el *ErrorList) HasKind(kind Kind) bool {
	for _, v := range el.Violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

// Error implements the error interface. It lists every violation with
// its location path.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d validation error(s):\n", el.Count()))
	for _, v := range el.Violations {
		sb.WriteString(fmt.Sprintf("  [%s] %s (at %s)\n", v.Kind, v.Message(), strings.Join(v.Loc, ".")))
	}
	return sb.String()
}

// ToError returns nil if the list is empty, otherwise the list itself.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}
