package textrepair

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

// staleNames are the names local models overproduce. They get swapped
// for entries from namePool when they show up.
var staleNames = []string{
	"Sarah", "David", "John", "Mary", "Tom", "Lisa",
	"Anna", "Peter", "Jane", "Mike",
}

// namePool is the replacement pool, weighted toward names common in
// Singapore classrooms.
var namePool = []string{
	"Wei Jie", "Mei Ling", "Jun Kai", "Hui Min", "Zhi Hao", "Xin Yi",
	"Kai Xin", "Li Ting", "Siti", "Nurul", "Aisyah", "Haziq",
	"Irfan", "Farhan", "Ahmad", "Zara", "Raj", "Priya",
	"Arjun", "Devi", "Kavya", "Anand", "Meera", "Rohan",
	"Ananya", "Ethan", "Chloe", "Ryan", "Zoe", "Emma",
	"Daniel", "Grace", "Lucas", "Olivia", "Marcus", "Rachel",
	"Shawn", "Vanessa", "Benjamin", "Natalie",
}

var placeholderPattern = regexp.MustCompile(`\[(?:Name|name|NAME|Student|student)\]|___+`)

var knownNamePattern = buildKnownNamePattern()

func buildKnownNamePattern() *regexp.Regexp {
	all := make([]string, 0, len(staleNames)+len(namePool))
	for _, n := range staleNames {
		all = append(all, regexp.QuoteMeta(n))
	}
	for _, n := range namePool {
		all = append(all, regexp.QuoteMeta(n))
	}
	return regexp.MustCompile(`\b(` + strings.Join(all, "|") + `)\b`)
}

// namesIn lists the known names appearing in text.
func namesIn(text string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range knownNamePattern.FindAllString(text, -1) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// pickName chooses a pool name not in exclude. When every name is
// excluded it falls back to any pool name.
func pickName(exclude map[string]bool) string {
	var candidates []string
	for _, n := range namePool {
		if !exclude[n] {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		candidates = namePool
	}
	return candidates[rand.IntN(len(candidates))]
}

// replacePlaceholderNames substitutes every placeholder token with one
// consistently chosen name. No placeholders means no change.
func replacePlaceholderNames(text string, s *Session) string {
	if !placeholderPattern.MatchString(text) {
		return text
	}

	exclude := s.recentNameSet()
	for _, n := range namesIn(text) {
		exclude[n] = true
	}
	name := pickName(exclude)
	return placeholderPattern.ReplaceAllString(text, name)
}

// diversifyNames swaps stale names for pool names. Each distinct stale
// name maps to one replacement; replacements avoid recently used names
// and names already present in the question.
func diversifyNames(text string, s *Session) string {
	exclude := s.recentNameSet()
	for _, n := range namesIn(text) {
		exclude[n] = true
	}

	for _, stale := range staleNames {
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(stale) + `\b`)
		if !pattern.MatchString(text) {
			continue
		}
		fresh := pickName(exclude)
		exclude[fresh] = true
		text = pattern.ReplaceAllString(text, fresh)
	}
	return text
}
