package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Errors maps a field name to the list of violation messages recorded
// against it. Every rule is evaluated independently, so a single
// submission can carry several messages per field.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

func (e Errors) Empty() bool {
	return len(e) == 0
}

// Error renders the violations deterministically, field-sorted. The HTTP
// layer returns the map itself; this is for logs and test output.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, strings.Join(e[field], "; ")))
	}
	return strings.Join(parts, ", ")
}

// JoinNatural joins parts with commas and a final "and", matching the
// wording of the destructive-change warnings.
func JoinNatural(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}

// AsErrors unwraps err into Errors when it is a validation failure.
func AsErrors(err error) (Errors, bool) {
	verrs, ok := err.(Errors)
	return verrs, ok
}
