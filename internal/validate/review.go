package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tutiful/papergen/internal/llm"
	"github.com/tutiful/papergen/internal/paper"
)

// ReviewResult is the outcome of a semantic review.
type ReviewResult struct {
	Approved bool
	Reason   string
	// Fallback is true when the oracle was unavailable and the
	// deterministic rule checks decided instead.
	Fallback bool
}

// Reviewer asks the oracle whether a question is sound and age
// appropriate. The oracle is best effort: any failure degrades to the
// rule-based checks, never to a hard error.
type Reviewer struct {
	provider llm.Provider
}

// NewReviewer creates a Reviewer backed by the given provider. A nil
// provider always uses the rule checks.
func NewReviewer(p llm.Provider) *Reviewer {
	return &Reviewer{provider: p}
}

const reviewSystem = "You are a strict reviewer of Primary 6 math exam questions. " +
	"Answer with JSON only: {\"approved\": true/false, \"reason\": \"...\"}."

// Review evaluates the question, preferring the oracle and falling back
// to rule checks.
func (r *Reviewer) Review(ctx context.Context, q *paper.Question) ReviewResult {
	if r.provider == nil {
		return ruleReview(q)
	}

	resp, err := r.provider.Generate(llm.WithPurpose(ctx, "question-review"), llm.Request{
		System: reviewSystem,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: buildReviewPrompt(q),
		}},
		MaxTokens:   200,
		Temperature: 0.1,
	})
	if err != nil {
		return ruleReview(q)
	}

	var verdict struct {
		Approved bool   `json:"approved"`
		Reason   string `json:"reason"`
	}
	raw := stripCodeFence(string(resp.Content))
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return ruleReview(q)
	}
	return ReviewResult{Approved: verdict.Approved, Reason: verdict.Reason}
}

func buildReviewPrompt(q *paper.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Review this %s question for a Primary 6 pupil.\n\nQuestion: %s\n", q.Type, q.Text)
	if q.Type == paper.MCQ {
		fmt.Fprintf(&b, "Options: %s\nCorrect answer: %s\n", strings.Join(q.Options, " | "), q.CorrectText)
	}
	b.WriteString("\nCheck: is it solvable from the stated information, is the correct answer right, " +
		"and is the language clear? Respond with JSON {\"approved\": bool, \"reason\": string}.")
	return b.String()
}

var codeFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

func stripCodeFence(s string) string {
	if m := codeFenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(s)
}

var (
	discreteHowMany  = regexp.MustCompile(`(?i)\bhow many\s+(?:[a-z]+\s+)?(?:pupils|students|children|people|apples|oranges|marbles|books|pens|pencils|stickers|cookies|sweets|eggs|coins|cards|balls)\b`)
	decimalNumber    = regexp.MustCompile(`\d+\.\d+`)
	decimalPlacesAsk = regexp.MustCompile(`(?i)decimal places?`)
	additivePattern  = regexp.MustCompile(`(?i)has\s+(\d+)\b.*?\b(\d+)\s+more\b.*?altogether[^0-9]*(\d+)`)
)

// ruleReview applies deterministic sanity checks when the oracle cannot
// be consulted.
func ruleReview(q *paper.Question) ReviewResult {
	fallback := func(approved bool, reason string) ReviewResult {
		return ReviewResult{Approved: approved, Reason: reason, Fallback: true}
	}

	// A discrete count cannot have a decimal answer.
	if discreteHowMany.MatchString(q.Text) && decimalNumber.MatchString(q.CorrectText) {
		return fallback(false, "decimal answer to a discrete count")
	}

	// When the question states its own total, the parts must agree.
	if m := additivePattern.FindStringSubmatch(q.Text); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		c, _ := strconv.Atoi(m[3])
		if a+b != c {
			return fallback(false, fmt.Sprintf("stated total %d contradicts %d + %d", c, a, b))
		}
	}

	if q.Type == paper.MCQ {
		// Distinct option text hiding equal values.
		seen := map[float64]bool{}
		for _, opt := range q.Options {
			if m := numberPattern.FindString(opt); m != "" {
				v, err := strconv.ParseFloat(m, 64)
				if err != nil {
					continue
				}
				if seen[v] {
					return fallback(false, fmt.Sprintf("two options share the value %s", m))
				}
				seen[v] = true
			}
		}

		// Asking for decimal places with no decimal option on offer.
		if decimalPlacesAsk.MatchString(q.Text) {
			hasDecimal := false
			for _, opt := range q.Options {
				if decimalNumber.MatchString(opt) {
					hasDecimal = true
					break
				}
			}
			if !hasDecimal {
				return fallback(false, "rounding requested but no decimal option")
			}
		}
	}

	return fallback(true, "rule checks passed")
}
