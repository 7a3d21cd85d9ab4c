// Package mcqrepair deterministically repairs multiple-choice option
// sets coming from the oracle: stripping labels, dropping placeholders,
// restoring units, deduplicating values, and refilling distractors.
//
// The correct answer is never rewritten. When a clean option set
// containing the correct answer cannot be produced, Repair fails and
// the candidate is discarded.
package mcqrepair

import (
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

const optionCount = 4

var (
	// "A." / "B)" / "C:" style letter labels.
	letterLabelRe = regexp.MustCompile(`^[A-Da-d][.):]\s*`)
	// "1." / "2)" numeric labels. A digit right after the dot means a
	// decimal value like "1.5", which must be kept.
	numberLabelRe = regexp.MustCompile(`^[1-4][.):]\s+`)
	bareLabelRe   = regexp.MustCompile(`^(?:[A-Da-d]|[1-4])[.):]?$`)
	placeholderRe = regexp.MustCompile(`(?i)^(?:option|choice|answer)\s*[A-D1-4]?$`)

	numberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	// Units must stand alone as words; a bare "m" inside "measured" is
	// not a unit.
	unitRe = regexp.MustCompile(`(?:^|[\s\d])(m²|cm²|km²|sq ft|km/h|m/s|km|cm|mm|m|kg|g|mL|ml|L|litres?|minutes?|hours?|seconds?|dollars?|cents?)(?:[\s.,?!)]|$)`)

	unitTailRe = regexp.MustCompile(`-?\d+(?:\.\d+)?\s*([^\d\s][^\d]*)$`)
)

// findUnit returns the first standalone unit word in s, or "".
func findUnit(s string) string {
	if m := unitRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

func hasUnit(s string) bool {
	return findUnit(s) != ""
}

// stripLabel removes a leading option label from s.
func stripLabel(s string) string {
	s = strings.TrimSpace(s)
	s = letterLabelRe.ReplaceAllString(s, "")
	s = numberLabelRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// norm canonicalizes an option for comparison: label stripped,
// whitespace collapsed, lowercased.
func norm(s string) string {
	s = stripLabel(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}

// numericValue extracts the first number in an option.
func numericValue(s string) (float64, bool) {
	m := numberRe.FindString(stripLabel(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// inferUnit derives the unit an option should carry: from the tail of
// the correct answer first, then from unit mentions in the question.
func inferUnit(correct, question string) string {
	if m := unitTailRe.FindStringSubmatch(strings.TrimSpace(correct)); m != nil {
		if u := findUnit(strings.TrimSpace(m[1])); u != "" {
			return u
		}
	}
	return findUnit(question)
}

// formatLike renders v in the same style as the correct answer: whole
// numbers stay whole, decimals keep the correct answer's precision.
func formatLike(v float64, correct string) string {
	decimals := 0
	if m := numberRe.FindString(correct); m != "" {
		if i := strings.IndexByte(m, '.'); i >= 0 {
			decimals = len(m) - i - 1
		}
	}
	if decimals == 0 && v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	if decimals == 0 {
		decimals = 1
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// Repair normalizes an MCQ option set around the known correct answer.
// It returns the cleaned, shuffled options and the correct answer's new
// index, or an error when no valid option set can be built.
func Repair(options []string, correctText, questionText string) ([]string, int, error) {
	correct := stripLabel(correctText)
	if correct == "" {
		return nil, 0, fmt.Errorf("empty correct answer")
	}

	unit := inferUnit(correct, questionText)

	// Strip labels and drop junk.
	var cleaned []string
	for _, opt := range options {
		o := stripLabel(opt)
		if o == "" || bareLabelRe.MatchString(o) || placeholderRe.MatchString(o) {
			continue
		}
		cleaned = append(cleaned, o)
	}

	// Force the unit onto bare numeric options.
	correctVal, correctNumeric := numericValue(correct)
	if unit != "" {
		for i, o := range cleaned {
			if _, ok := numericValue(o); ok && !hasUnit(o) {
				cleaned[i] = o + " " + unit
			}
		}
		if correctNumeric && !hasUnit(correct) {
			correct = correct + " " + unit
		}
	}

	// Ensure the correct answer is present.
	if !containsNorm(cleaned, correct) {
		cleaned = append(cleaned, correct)
	}

	// Deduplicate by normalized text, then by numeric value. When two
	// options share a value, the one matching the correct answer's
	// normalized form wins; otherwise the unit-bearing one.
	cleaned = dedupe(cleaned, correct)

	// Refill with distractors derived from the correct value.
	if correctNumeric {
		cleaned = fillDistractors(cleaned, correct, correctVal, unit)
	}

	if len(cleaned) > optionCount {
		cleaned = trimToCount(cleaned, correct)
	}
	if len(cleaned) != optionCount {
		return nil, 0, fmt.Errorf("repaired option set has %d options, need %d", len(cleaned), optionCount)
	}

	for _, o := range cleaned {
		if bareLabelRe.MatchString(o) || placeholderRe.MatchString(o) {
			return nil, 0, fmt.Errorf("placeholder option survived repair: %q", o)
		}
	}
	if !containsNorm(cleaned, correct) {
		return nil, 0, fmt.Errorf("correct answer %q missing from repaired options", correct)
	}

	rand.Shuffle(len(cleaned), func(i, j int) { cleaned[i], cleaned[j] = cleaned[j], cleaned[i] })

	for i, o := range cleaned {
		if norm(o) == norm(correct) {
			return cleaned, i, nil
		}
	}
	return nil, 0, fmt.Errorf("correct answer lost during shuffle")
}

func containsNorm(opts []string, target string) bool {
	t := norm(target)
	for _, o := range opts {
		if norm(o) == t {
			return true
		}
	}
	return false
}

func dedupe(opts []string, correct string) []string {
	seenText := map[string]bool{}
	seenValue := map[float64]string{}
	correctNorm := norm(correct)

	var out []string
	for _, o := range opts {
		n := norm(o)
		if seenText[n] {
			continue
		}
		if v, ok := numericValue(o); ok {
			if prev, dup := seenValue[v]; dup {
				// Keep the correct answer's form over any duplicate.
				if n == correctNorm && norm(prev) != correctNorm {
					out = replaceOption(out, prev, o)
					seenText[n] = true
					seenValue[v] = o
				}
				continue
			}
			seenValue[v] = o
		}
		seenText[n] = true
		out = append(out, o)
	}
	return out
}

func replaceOption(opts []string, old, new string) []string {
	for i, o := range opts {
		if o == old {
			opts[i] = new
			return opts
		}
	}
	return opts
}

// fillDistractors tops the option set up to four entries with values
// near the correct answer. Close multiples first, wider spreads as a
// fallback.
func fillDistractors(opts []string, correct string, correctVal float64, unit string) []string {
	if len(opts) >= optionCount {
		return opts
	}

	used := map[float64]bool{correctVal: true}
	for _, o := range opts {
		if v, ok := numericValue(o); ok {
			used[v] = true
		}
	}

	candidates := []float64{
		correctVal * 1.1,
		correctVal * 0.9,
		correctVal + 1,
		math.Max(0, correctVal-1),
		correctVal * 1.2,
		correctVal * 0.8,
		correctVal * 1.5,
		correctVal * 0.5,
		correctVal + 5,
		correctVal - 5,
		correctVal + 10,
		correctVal - 10,
	}

	for _, v := range candidates {
		if len(opts) >= optionCount {
			break
		}
		v = roundLike(v, correct)
		if v < 0 || used[v] {
			continue
		}
		used[v] = true
		text := formatLike(v, correct)
		if unit != "" {
			text += " " + unit
		}
		opts = append(opts, text)
	}
	return opts
}

// roundLike snaps a distractor value to the correct answer's precision
// so "42" produces "46" rather than "46.2".
func roundLike(v float64, correct string) float64 {
	decimals := 0
	if m := numberRe.FindString(correct); m != "" {
		if i := strings.IndexByte(m, '.'); i >= 0 {
			decimals = len(m) - i - 1
		}
	}
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

// trimToCount drops surplus options while always keeping the correct
// answer.
func trimToCount(opts []string, correct string) []string {
	correctNorm := norm(correct)
	var out []string
	for _, o := range opts {
		if norm(o) == correctNorm {
			out = append(out, o)
			break
		}
	}
	for _, o := range opts {
		if len(out) >= optionCount {
			break
		}
		if norm(o) != correctNorm {
			out = append(out, o)
		}
	}
	return out
}
