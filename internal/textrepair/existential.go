package textrepair

import (
	"hash/fnv"
	"regexp"
	"strings"
)

var existentialRe = regexp.MustCompile(`^There\s+(is|are)\s+`)

func isExistentialOpener(text string) bool {
	return existentialRe.MatchString(strings.TrimSpace(text))
}

// shouldAllowExistential decides whether an existential opener may pass
// unrewritten. With few observations most pass; once the window shows
// existential openers crowding past 20% of recent questions, only a
// small deterministic fraction gets through.
//
// The coin flip hashes the text instead of drawing from a RNG so the
// pipeline stays idempotent: the same text under the same session
// state always gets the same decision.
func shouldAllowExistential(text string, s *Session) bool {
	ratio, n := s.existentialRatio()
	if n >= 5 && ratio < 0.2 {
		return true
	}

	threshold := uint32(10)
	if n < 5 {
		threshold = 25
	}
	h := fnv.New32a()
	h.Write([]byte(text))
	return h.Sum32()%100 < threshold
}

var (
	// "There are 24 students in the class." → subject, copula, detail.
	existentialWithPrep = regexp.MustCompile(`^There\s+(is|are)\s+(.+?)\s+(in|on|at|inside|under|around)\s+(.+?)([.?!])(.*)$`)
	// "There are 15 mangoes that weigh 300 g each." → relative clause
	// promotes to the main verb.
	existentialRelative = regexp.MustCompile(`^There\s+(?:is|are)\s+(.+?)\s+(?:that|which)\s+(.+?)([.?!])(.*)$`)
	// Bare "There are 48 marbles." keeps the copula with the subject.
	existentialBare = regexp.MustCompile(`^There\s+(is|are)\s+(.+?)([.?!])(.*)$`)
)

// rewriteExistentialOpening promotes the noun phrase of a "There
// is/are" opener to the subject position.
func rewriteExistentialOpening(text string) string {
	if m := existentialWithPrep.FindStringSubmatch(text); m != nil {
		return capitalize(m[2]) + " " + m[1] + " " + m[3] + " " + m[4] + m[5] + m[6]
	}
	if m := existentialRelative.FindStringSubmatch(text); m != nil {
		return capitalize(m[1]) + " " + m[2] + m[3] + m[4]
	}
	if m := existentialBare.FindStringSubmatch(text); m != nil {
		return capitalize(m[2]) + " " + m[1] + " available" + m[3] + m[4]
	}
	return text
}

// repairExistential applies the throttle: existential openers are kept
// only when the session's variety allows, otherwise rewritten.
func repairExistential(text string, s *Session) string {
	if !isExistentialOpener(text) {
		return text
	}
	if shouldAllowExistential(text, s) {
		return text
	}
	return rewriteExistentialOpening(text)
}
