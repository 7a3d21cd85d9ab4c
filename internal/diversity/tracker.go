// Package diversity tracks scenario contexts across a paper so it does
// not degenerate into ten variations of the same water tank.
package diversity

import (
	"regexp"
	"sort"
)

// contextPatterns maps a canonical context name to the phrases that
// indicate it. Short names double as word-boundary regexes.
var contextPatterns = map[string]*regexp.Regexp{
	"tank":       regexp.MustCompile(`(?i)\btanks?\b`),
	"container":  regexp.MustCompile(`(?i)\bcontainers?\b`),
	"pool":       regexp.MustCompile(`(?i)\b(?:swimming )?pools?\b`),
	"garden":     regexp.MustCompile(`(?i)\bgardens?\b`),
	"field":      regexp.MustCompile(`(?i)\bfields?\b`),
	"room":       regexp.MustCompile(`(?i)\brooms?\b`),
	"park":       regexp.MustCompile(`(?i)\bparks?\b`),
	"hall":       regexp.MustCompile(`(?i)\bhalls?\b`),
	"playground": regexp.MustCompile(`(?i)\bplaygrounds?\b`),
	"banner":     regexp.MustCompile(`(?i)\bbanners?\b`),
	"plot":       regexp.MustCompile(`(?i)\bplots?\b`),
	"lawn":       regexp.MustCompile(`(?i)\blawns?\b`),
	"carpet":     regexp.MustCompile(`(?i)\bcarpets?\b`),
	"pond":       regexp.MustCompile(`(?i)\bponds?\b`),
	"fountain":   regexp.MustCompile(`(?i)\bfountains?\b`),
	"art":        regexp.MustCompile(`(?i)art project|mural|geometric pattern|art club|art room`),
}

// artContext is capped harder than the rest; local models latch onto
// mural-painting scenarios.
const artContext = "art"

// ExtractContexts lists the canonical contexts mentioned in text.
func ExtractContexts(text string) []string {
	var out []string
	for name, re := range contextPatterns {
		if re.MatchString(text) {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Policy holds the tunable leniency thresholds.
type Policy struct {
	// MaxRejections is how many diversity rejections a slot tolerates
	// before repeats are admitted anyway.
	MaxRejections int

	// ScoreOverride admits a repeat when the candidate's quality score
	// reaches this value.
	ScoreOverride int

	// ArtCap limits art-themed questions per paper.
	ArtCap int
}

// DefaultPolicy returns the standard thresholds.
func DefaultPolicy() Policy {
	return Policy{MaxRejections: 4, ScoreOverride: 5, ArtCap: 2}
}

// Tracker accumulates the contexts a paper has used. One Tracker per
// paper build; it is not safe for concurrent use.
type Tracker struct {
	policy Policy
	used   map[string]int
}

// NewTracker creates a Tracker with the given policy.
func NewTracker(policy Policy) *Tracker {
	return &Tracker{policy: policy, used: make(map[string]int)}
}

// Allow reports whether a candidate's contexts are admissible given the
// paper so far. score is the candidate's quality score; rejections is
// how many diversity rejections the current slot has already taken.
// The returned context names the clash when the candidate is refused.
func (t *Tracker) Allow(text string, score, rejections int) (bool, string) {
	contexts := ExtractContexts(text)

	for _, c := range contexts {
		if c == artContext && t.used[c] >= t.policy.ArtCap {
			// The art cap holds even under leniency.
			return false, c
		}
	}

	// Leniency: a slot that keeps getting refused, or a strong
	// candidate, is allowed to repeat a context.
	if rejections >= t.policy.MaxRejections || score >= t.policy.ScoreOverride {
		return true, ""
	}

	for _, c := range contexts {
		if t.used[c] > 0 {
			return false, c
		}
	}
	return true, ""
}

// Record adds an accepted question's contexts to the paper history.
func (t *Tracker) Record(text string) {
	for _, c := range ExtractContexts(text) {
		t.used[c]++
	}
}

// UsedContexts lists contexts the paper has used, sorted for stable
// prompt construction.
func (t *Tracker) UsedContexts() []string {
	out := make([]string, 0, len(t.used))
	for c := range t.used {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
