// Package roster holds the ordered list of candidate models tried during
// failover.
package roster

import (
	"errors"
	"strings"
)

// ErrEmpty is returned when no usable model identifier was supplied.
var ErrEmpty = errors.New("model roster is empty")

// Roster is an immutable, ordered, non-empty list of model identifiers.
type Roster struct {
	models []string
}

// Parse builds a roster from a comma-separated list of model identifiers.
func Parse(list string) (Roster, error) {
	return New(strings.Split(list, ",")...)
}

// New builds a roster from the given identifiers. Entries are trimmed, empty
// entries are dropped and repeated entries keep their first position.
func New(models ...string) (Roster, error) {
	seen := make(map[string]struct{}, len(models))
	normalized := make([]string, 0, len(models))

	for _, m := range models {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		normalized = append(normalized, m)
	}

	if len(normalized) == 0 {
		return Roster{}, ErrEmpty
	}

	return Roster{models: normalized}, nil
}

// Models returns a copy of the identifiers in failover order.
func (r Roster) Models() []string {
	out := make([]string, len(r.models))
	copy(out, r.models)
	return out
}

func (r Roster) Len() int { return len(r.models) }

// First returns the primary model, or an empty string for a zero Roster.
func (r Roster) First() string {
	if len(r.models) == 0 {
		return ""
	}
	return r.models[0]
}

func (r Roster) String() string {
	return strings.Join(r.models, ",")
}
