package validate

import (
	"regexp"
	"strings"

	"github.com/tutiful/papergen/internal/paper"
)

var (
	fractionOfPattern = regexp.MustCompile(`(?i)\b\d+\s*/\s*\d+\s+of\b|\b\d+(?:\.\d+)?\s*%\s+of\b`)
	explicitBase      = regexp.MustCompile(`(?i)\bof\s+(?:the\s+|his\s+|her\s+|their\s+)?(?:\$\s*)?\d`)
	totalIndicator    = regexp.MustCompile(`(?i)\b(?:total of|there (?:are|were)|has|had|holds?|contains?|bought|collected|made|saved)\s+(?:\$\s*)?\d`)

	ratioPattern = regexp.MustCompile(`(?i)\bratio\b`)

	eachNounPattern  = regexp.MustCompile(`(?i)\beach\s+([a-z]+)\b`)
	measurementNouns = map[string]bool{
		"litre": true, "litres": true, "metre": true, "metres": true,
		"gram": true, "grams": true, "kilogram": true, "kilograms": true,
		"minute": true, "minutes": true, "hour": true, "hours": true,
		"centimetre": true, "centimetres": true, "kilometre": true, "kilometres": true,
		"day": true, "week": true, "month": true, "year": true,
	}

	howManyPattern = regexp.MustCompile(`(?i)\bhow (?:many|much)\b`)

	speedPattern = regexp.MustCompile(`(?i)\bspeed\b|\bkm/h\b|\bm/s\b`)
)

// SolvabilityValidator rejects questions that cannot be answered from
// the information they state: fractions of unknown wholes, ratios with
// no totals, rates with missing quantities.
type SolvabilityValidator struct{}

func (v *SolvabilityValidator) Name() string { return "solvability" }

func (v *SolvabilityValidator) Validate(q *paper.Question, _ Input) *Error {
	text := q.Text
	nums := numbersIn(text)

	// "3/4 of the pencils" with no base quantity anywhere is unsolvable.
	if fractionOfPattern.MatchString(text) {
		if !explicitBase.MatchString(text) && !totalIndicator.MatchString(text) {
			return v.fail("fraction or percentage of an unstated whole")
		}
	}

	// A bare fraction needs a standalone base number to act on.
	if m := regexp.MustCompile(`\d+\s*/\s*\d+`).FindAllString(text, -1); len(m) > 0 {
		fractionDigits := 2 * len(m)
		if len(nums) <= fractionDigits && !totalIndicator.MatchString(text) {
			return v.fail("fraction question has no base quantity")
		}
	}

	if ratioPattern.MatchString(text) {
		if len(nums) < 3 && !totalIndicator.MatchString(text) {
			return v.fail("ratio question needs three quantities or a total")
		}
	}

	if howManyPattern.MatchString(text) && len(nums) == 0 {
		return v.fail("counting question with no quantities")
	}

	// Open-ended per-item questions need a count to divide, unless the
	// noun is a measurement interval.
	if q.Type == paper.OpenEnded {
		if m := eachNounPattern.FindStringSubmatch(text); m != nil {
			noun := strings.ToLower(m[1])
			if !measurementNouns[noun] && len(nums) < 2 {
				return v.fail("per-item question without a countable quantity")
			}
		}
	}

	if speedPattern.MatchString(text) && len(nums) < 2 {
		return v.fail("rate question needs at least two of speed, distance, time")
	}

	return nil
}

func (v *SolvabilityValidator) fail(msg string) *Error {
	return &Error{Validator: v.Name(), Message: msg, Retryable: true}
}
