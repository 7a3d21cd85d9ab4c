package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tutiful/papergen/internal/paper"
)

const (
	minQuestionLen = 35
	maxQuestionLen = 1000
)

var (
	latexPattern         = regexp.MustCompile(`\\(?:frac|boxed|times|div|cdot|\[|\])`)
	genericOptionPattern = regexp.MustCompile(`(?i)^(?:option|choice|answer)\s*[a-d1-4]?$`)
	numericLikePattern   = regexp.MustCompile(`\d`)
)

// StructuralValidator checks shape: length bounds, option counts,
// distinctness, and index consistency.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *paper.Question, in Input) *Error {
	text := strings.TrimSpace(q.Text)
	if len(text) < minQuestionLen {
		return v.fail(fmt.Sprintf("question text too short (%d chars, need %d)", len(text), minQuestionLen))
	}
	if len(text) > maxQuestionLen {
		return v.fail(fmt.Sprintf("question text too long (%d chars, max %d)", len(text), maxQuestionLen))
	}

	switch q.Type {
	case paper.MCQ:
		return v.validateMCQ(q, in)
	case paper.OpenEnded:
		if len(q.Options) != 0 {
			return v.fail("open-ended question carries options")
		}
		if q.CorrectIndex != -1 {
			return v.fail("open-ended question must use correct index -1")
		}
	default:
		return v.fail(fmt.Sprintf("unknown question type %q", q.Type))
	}
	return nil
}

func (v *StructuralValidator) validateMCQ(q *paper.Question, in Input) *Error {
	if len(q.Options) != 4 {
		return v.fail(fmt.Sprintf("MCQ has %d options, need 4", len(q.Options)))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex > 3 {
		return v.fail(fmt.Sprintf("correct index %d out of range", q.CorrectIndex))
	}

	seen := map[string]bool{}
	numericLike := 0
	for _, opt := range q.Options {
		o := strings.ToLower(strings.Join(strings.Fields(opt), " "))
		if o == "" {
			return v.fail("empty option")
		}
		if seen[o] {
			return v.fail(fmt.Sprintf("duplicate option %q", opt))
		}
		seen[o] = true

		if genericOptionPattern.MatchString(o) {
			return v.fail(fmt.Sprintf("generic placeholder option %q", opt))
		}
		if latexPattern.MatchString(opt) {
			return v.fail(fmt.Sprintf("LaTeX markup in option %q", opt))
		}
		if numericLikePattern.MatchString(opt) {
			numericLike++
		}
	}

	if in.Strict && numericLike < 2 {
		return v.fail("fewer than 2 numeric options")
	}

	if q.CorrectText != "" {
		want := strings.ToLower(strings.Join(strings.Fields(q.CorrectText), " "))
		got := strings.ToLower(strings.Join(strings.Fields(q.Options[q.CorrectIndex]), " "))
		if want != got {
			return v.fail(fmt.Sprintf("correct answer %q does not match option %d (%q)",
				q.CorrectText, q.CorrectIndex, q.Options[q.CorrectIndex]))
		}
	}
	return nil
}

func (v *StructuralValidator) fail(msg string) *Error {
	return &Error{Validator: v.Name(), Message: msg, Retryable: true}
}
