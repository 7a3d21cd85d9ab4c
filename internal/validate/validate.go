// Package validate holds the tiered validation pipeline every
// candidate question must pass before it reaches a paper.
package validate

import (
	"fmt"
	"regexp"

	"github.com/tutiful/papergen/internal/paper"
)

// Input carries validation context alongside the question.
type Input struct {
	// Topic is the canonical topic the question was generated for.
	Topic string

	// Strict enables the tighter MCQ checks used for oracle output.
	// Bank questions are pre-vetted and validated with Strict off.
	Strict bool
}

// Validator checks a candidate question. Implementations are stateless
// and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for error messages and logging,
	// e.g. "structural", "solvability".
	Name() string

	// Validate returns nil if the question passes, or an Error
	// describing the failure.
	Validate(q *paper.Question, in Input) *Error
}

// Error describes why a question failed validation.
type Error struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *Error) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// Chain runs validators in order and stops at the first failure.
type Chain []Validator

// Validate runs the chain. Returns nil when every validator passes.
func (c Chain) Validate(q *paper.Question, in Input) *Error {
	for _, v := range c {
		if err := v.Validate(q, in); err != nil {
			return err
		}
	}
	return nil
}

// DefaultChain returns the standard tier order.
func DefaultChain() Chain {
	return Chain{
		&StructuralValidator{},
		&QualityValidator{},
		&SolvabilityValidator{},
		&ClarityValidator{},
	}
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

func numbersIn(text string) []string {
	return numberPattern.FindAllString(text, -1)
}
