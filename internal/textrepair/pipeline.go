package textrepair

import "strings"

// Repair runs the full rewrite pipeline over a question draft:
//
//  1. relocate "In a <place>," openers
//  2. polish the opening (capitalization, indefinite articles, spacing)
//  3. substitute placeholder name tokens
//  4. throttle and rewrite existential openers
//  5. diversify stale names
//  6. strip trailing fragments and duplicate rounding notes
//
// Repair does not mutate the session; callers record accepted questions
// with Observe. Applying Repair to its own output returns it unchanged.
func Repair(text string, s *Session) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}

	text = rewriteLocativeOpener(text)
	text = polishOpening(text)
	text = replacePlaceholderNames(text, s)
	text = repairExistential(text, s)
	text = diversifyNames(text, s)
	text = cleanTrailingFragments(text)
	return EnsurePunctuation(text)
}

// EnsurePunctuation appends a question mark when the text has no
// terminal punctuation.
func EnsurePunctuation(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}
	switch text[len(text)-1] {
	case '.', '?', '!':
		return text
	}
	return text + "?"
}
