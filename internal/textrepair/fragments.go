package textrepair

import (
	"regexp"
	"strings"
)

// Local models sometimes emit a stray verb or locative tail after the
// terminal punctuation ("How many apples are left? are") or repeat a
// rounding instruction. These are trimmed to the last full sentence.
var (
	trailingVerbRe = regexp.MustCompile(`([.?!])\s+(?:are|is|was|were|has|have|does|do)\s*$`)
	trailingPrepRe = regexp.MustCompile(`([.?!])\s+(?:in|on|at|with|of)(?:\s+\w+){0,3}\s*$`)
	decimalNoteRe  = regexp.MustCompile(`(?i)(?:give your answer\s+)?correct to \d+ decimal places?[.]?`)
)

func stripTrailingFragment(text string) string {
	text = trailingVerbRe.ReplaceAllString(text, "$1")
	text = trailingPrepRe.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// dedupeDecimalNotes keeps only the first rounding instruction when the
// model emits it more than once.
func dedupeDecimalNotes(text string) string {
	matches := decimalNoteRe.FindAllStringIndex(text, -1)
	if len(matches) < 2 {
		return text
	}
	for i := len(matches) - 1; i >= 1; i-- {
		start, end := matches[i][0], matches[i][1]
		text = strings.TrimSpace(text[:start]) + text[end:]
	}
	return strings.TrimSpace(text)
}

// cleanTrailingFragments applies fragment stripping to a fixed point,
// capped at three passes.
func cleanTrailingFragments(text string) string {
	for range 3 {
		next := dedupeDecimalNotes(stripTrailingFragment(text))
		if next == text {
			return text
		}
		text = next
	}
	return text
}

var incompleteFractionRe = regexp.MustCompile(`\d\s*/\s*([^0-9\s]|$|\s)`)

// HasIncompleteFraction detects fraction fragments like "3/ of the
// pencils" where the denominator is missing. These cannot be repaired
// and the candidate must be rejected.
func HasIncompleteFraction(text string) bool {
	return incompleteFractionRe.MatchString(text)
}
