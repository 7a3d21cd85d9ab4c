// Package sourcer provides the three candidate strategies that fill a
// paper slot: sampling the curated bank, asking the oracle, and
// mutating a bank question heuristically.
package sourcer

import (
	"context"
	"errors"

	"github.com/tutiful/papergen/internal/paper"
)

// Sentinel failures. Callers branch on these instead of inspecting
// messages.
var (
	// ErrNoCandidates means the strategy has nothing left to offer for
	// this slot (bank exhausted, no base question to vary).
	ErrNoCandidates = errors.New("no candidates available")

	// ErrOracleUnavailable means the oracle could not be reached.
	ErrOracleUnavailable = errors.New("oracle unavailable")

	// ErrMalformedPayload means the oracle answered but no usable
	// question could be recovered from the payload.
	ErrMalformedPayload = errors.New("malformed oracle payload")
)

// Request identifies the slot being filled.
type Request struct {
	Topic string
	Type  paper.QuestionType

	// Attempt counts retries for this slot, zero-based. Strategies may
	// vary their approach across attempts.
	Attempt int
}

// Sourcer produces one candidate question for a slot. A candidate is
// raw: the caller still repairs and validates it.
type Sourcer interface {
	// Name identifies the strategy for logging and source attribution.
	Name() string

	// Source returns a candidate or one of the sentinel errors.
	Source(ctx context.Context, req Request) (*paper.Question, error)
}

const (
	defaultMCQMarks  = 1
	defaultOpenMarks = 4
)
