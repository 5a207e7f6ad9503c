// Package agent runs structured generation requests across a model roster,
// failing over to the next candidate until one returns a valid result.
package agent

import (
	"fmt"
	"strings"

	"github.com/spigell/career-companion/internal/contracts"
)

// Spec is a reusable agent definition: fixed instructions plus the contract
// its answers must satisfy. A Spec carries no per-call state and can be shared
// between goroutines.
type Spec[T any] struct {
	Name         string
	Instructions string
	Contract     *contracts.Contract[T]
}

// NewSpec validates and returns an agent definition.
func NewSpec[T any](name, instructions string, contract *contracts.Contract[T]) (*Spec[T], error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("agent name is required")
	}
	if contract == nil {
		return nil, fmt.Errorf("agent %s: contract is required", name)
	}

	return &Spec[T]{
		Name:         name,
		Instructions: strings.TrimSpace(instructions),
		Contract:     contract,
	}, nil
}

// MustSpec is like NewSpec but panics on an invalid definition.
func MustSpec[T any](name, instructions string, contract *contracts.Contract[T]) *Spec[T] {
	s, err := NewSpec(name, instructions, contract)
	if err != nil {
		panic(err)
	}
	return s
}
