package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tutiful/papergen/internal/paper"
)

// minComplexity is the lowest acceptable complexity score.
const minComplexity = 2

// mathKeywords: at least one must appear for the text to read as a
// math problem at all.
var mathKeywords = []string{
	"how many", "how much", "what is", "find", "calculate", "determine",
	"total", "altogether", "remain", "left", "difference", "sum",
	"average", "area", "perimeter", "volume", "fraction", "percent",
	"ratio", "speed", "each", "share", "divide", "cost",
}

// trivialPatterns reject bare-arithmetic drills and counting exercises
// below the target level.
var trivialPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^what is \d+\s*[-+x*/÷×]\s*\d+\s*[.?]?$`),
	regexp.MustCompile(`(?i)^\d+\s*[-+x*/÷×]\s*\d+\s*=\s*\?`),
	regexp.MustCompile(`(?i)write the number`),
	regexp.MustCompile(`(?i)count the (?:number of )?\w+ in the picture`),
}

var (
	operatorPattern  = regexp.MustCompile(`[-+×÷*/=]|\b(?:add|subtract|multiply|divide|times|divided by|plus|minus)\b`)
	unitWordPattern  = regexp.MustCompile(`(?i)(?:^|[\s\d])(?:m²|cm²|km|cm|mm|m|kg|g|mL|ml|L|litres?|minutes?|hours?|seconds?|dollars?|cents?|km/h|m/s)(?:[\s.,?!)]|$)|\$\d`)
	multiStepPattern = regexp.MustCompile(`(?i)\b(?:then|after|remaining|altogether|in total|left over|left|rest of|first|finally)\b`)
)

// complexityScore rates a question 0-5: math indicator, at least two
// numbers, an operation, a unit, and multi-step phrasing.
func complexityScore(text string) int {
	lower := strings.ToLower(text)
	score := 0

	for _, kw := range mathKeywords {
		if strings.Contains(lower, kw) {
			score++
			break
		}
	}
	if len(numbersIn(text)) >= 2 {
		score++
	}
	if operatorPattern.MatchString(lower) {
		score++
	}
	if unitWordPattern.MatchString(text) {
		score++
	}
	if multiStepPattern.MatchString(lower) {
		score++
	}
	return score
}

// QualityValidator applies the heuristic floor: the question must look
// like a proper multi-step word problem, not a drill.
type QualityValidator struct{}

func (v *QualityValidator) Name() string { return "quality" }

func (v *QualityValidator) Validate(q *paper.Question, _ Input) *Error {
	lower := strings.ToLower(q.Text)

	hasKeyword := false
	for _, kw := range mathKeywords {
		if strings.Contains(lower, kw) {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword {
		return &Error{Validator: v.Name(), Message: "no math task keyword present", Retryable: true}
	}

	for _, p := range trivialPatterns {
		if p.MatchString(q.Text) {
			return &Error{Validator: v.Name(), Message: "bare arithmetic drill", Retryable: true}
		}
	}

	if c := complexityScore(q.Text); c < minComplexity {
		return &Error{
			Validator: v.Name(),
			Message:   fmt.Sprintf("complexity score %d below %d", c, minComplexity),
			Retryable: true,
		}
	}
	return nil
}
