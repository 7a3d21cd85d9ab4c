// Package textrepair rewrites oracle question drafts into clean,
// varied phrasing. Every pass is a pure rewrite: applying the pipeline
// to its own output yields the same text.
package textrepair

// window is a fixed-capacity FIFO of recent observations.
type window[T any] struct {
	items []T
	cap   int
}

func newWindow[T any](capacity int) *window[T] {
	return &window[T]{cap: capacity}
}

func (w *window[T]) push(v T) {
	w.items = append(w.items, v)
	if len(w.items) > w.cap {
		w.items = w.items[1:]
	}
}

func (w *window[T]) len() int { return len(w.items) }

// Session carries the per-paper rewrite state: which names, opening
// patterns, and existential openers recent questions used. It is an
// explicit value owned by a single paper build, never shared.
type Session struct {
	recentNames *window[string]
	existential *window[bool]
	openings    *window[string]
}

// NewSession creates an empty rewrite session.
func NewSession() *Session {
	return &Session{
		recentNames: newWindow[string](16),
		existential: newWindow[bool](20),
		openings:    newWindow[string](30),
	}
}

// Observe records an accepted question's traits so later rewrites can
// steer away from what the paper already uses.
func (s *Session) Observe(text string) {
	s.openings.push(ClassifyOpening(text))
	s.existential.push(isExistentialOpener(text))
	for _, name := range namesIn(text) {
		s.recentNames.push(name)
	}
}

// recentNameSet returns the names used by recent questions.
func (s *Session) recentNameSet() map[string]bool {
	set := make(map[string]bool, s.recentNames.len())
	for _, n := range s.recentNames.items {
		set[n] = true
	}
	return set
}

// existentialRatio returns the share of recent questions that opened
// with "There is/are", and how many observations back it.
func (s *Session) existentialRatio() (ratio float64, n int) {
	n = s.existential.len()
	if n == 0 {
		return 0, 0
	}
	count := 0
	for _, e := range s.existential.items {
		if e {
			count++
		}
	}
	return float64(count) / float64(n), n
}

// openingUsage returns the share of recent questions with the given
// opening pattern.
func (s *Session) openingUsage(pattern string) float64 {
	if s.openings.len() == 0 {
		return 0
	}
	count := 0
	for _, p := range s.openings.items {
		if p == pattern {
			count++
		}
	}
	return float64(count) / float64(s.openings.len())
}
