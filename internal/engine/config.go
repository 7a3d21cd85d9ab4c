package engine

import "github.com/tutiful/papergen/internal/validate"

// Config tunes the generation control loop. Zero values are replaced
// with the defaults by New.
type Config struct {
	// AcceptScore admits a candidate outright.
	AcceptScore int

	// FallbackFloor is the minimum score for keeping a rejected
	// candidate as the slot's fallback.
	FallbackFloor int

	// MaxContextRejections is the rejection count at which diversity
	// checks turn lenient and fallbacks become admissible.
	MaxContextRejections int

	// GenerativeAttempts is the number of oracle calls per slot.
	GenerativeAttempts int

	// VariationAttempts is the number of heuristic variations per slot.
	VariationAttempts int

	// CircuitBreaker is the consecutive oracle failure count that stops
	// further oracle calls for the rest of the paper.
	CircuitBreaker int

	// SwapThreshold is the consecutive slot failure count that flips
	// the next failed slot's question type before retrying it.
	SwapThreshold int

	// PaperRetryFactor scales the retry budget for failed slots:
	// min(failed, remaining*PaperRetryFactor) attempts.
	PaperRetryFactor int

	// TopUpFactor scales the final top-up budget: remaining*TopUpFactor
	// attempts across all topics.
	TopUpFactor int
}

// DefaultConfig returns the tuned production values.
func DefaultConfig() Config {
	return Config{
		AcceptScore:          validate.AcceptScore,
		FallbackFloor:        validate.FallbackScore,
		MaxContextRejections: 4,
		GenerativeAttempts:   2,
		VariationAttempts:    2,
		CircuitBreaker:       15,
		SwapThreshold:        8,
		PaperRetryFactor:     3,
		TopUpFactor:          8,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.AcceptScore == 0 {
		c.AcceptScore = d.AcceptScore
	}
	if c.FallbackFloor == 0 {
		c.FallbackFloor = d.FallbackFloor
	}
	if c.MaxContextRejections == 0 {
		c.MaxContextRejections = d.MaxContextRejections
	}
	if c.GenerativeAttempts == 0 {
		c.GenerativeAttempts = d.GenerativeAttempts
	}
	if c.VariationAttempts == 0 {
		c.VariationAttempts = d.VariationAttempts
	}
	if c.CircuitBreaker == 0 {
		c.CircuitBreaker = d.CircuitBreaker
	}
	if c.SwapThreshold == 0 {
		c.SwapThreshold = d.SwapThreshold
	}
	if c.PaperRetryFactor == 0 {
		c.PaperRetryFactor = d.PaperRetryFactor
	}
	if c.TopUpFactor == 0 {
		c.TopUpFactor = d.TopUpFactor
	}
	return c
}
