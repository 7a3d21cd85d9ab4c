package validate

import (
	"regexp"
	"strings"

	"github.com/tutiful/papergen/internal/paper"
)

// Score thresholds used by the engine.
const (
	// AcceptScore admits a candidate outright.
	AcceptScore = 7
	// FallbackScore is the floor for keeping a candidate as a
	// best-effort fallback.
	FallbackScore = 5
)

var (
	psleTerms = []string{
		"altogether", "remaining", "total", "each", "difference",
		"average", "perimeter", "area", "volume", "fraction", "ratio",
		"percentage", "twice", "shared equally",
	}
	imperativeVerbs  = regexp.MustCompile(`(?i)\b(?:calculate|find|determine|solve|how many|how much)\b`)
	whatIsPattern    = regexp.MustCompile(`(?i)\bwhat is\b`)
	workingWords     = regexp.MustCompile(`(?i)\b(?:show|explain|working|method|steps)\b`)
	overusedContexts = []string{"canteen", "shopping", "mall", "supermarket", "pizza", "ice cream"}
)

// Score rates a question 0-10 on how much it reads like a proper PSLE
// item: sensible length, exam vocabulary, a clear task, real
// quantities, and structure appropriate to its type.
func Score(q *paper.Question) int {
	text := q.Text
	lower := strings.ToLower(text)
	score := 0

	switch n := len(text); {
	case n >= 60 && n <= 220:
		score += 2
	case n >= 40 && n <= 300:
		score++
	}

	for _, term := range psleTerms {
		if strings.Contains(lower, term) {
			score += 2
			break
		}
	}

	switch {
	case imperativeVerbs.MatchString(text):
		score += 2
	case whatIsPattern.MatchString(text):
		score++
	}

	if len(numbersIn(text)) >= 2 {
		score++
	}
	if unitWordPattern.MatchString(text) {
		score++
	}
	if multiStepPattern.MatchString(lower) {
		score += 2
	}

	switch q.Type {
	case paper.MCQ:
		if len(q.Options) == 4 {
			numeric := 0
			for _, opt := range q.Options {
				if numericLikePattern.MatchString(opt) {
					numeric++
				}
			}
			if numeric >= 3 {
				score++
			}
		}
	case paper.OpenEnded:
		if workingWords.MatchString(text) || q.Marks >= 3 {
			score++
		}
	}

	for _, ctx := range overusedContexts {
		if strings.Contains(lower, ctx) {
			score--
			break
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score
}
