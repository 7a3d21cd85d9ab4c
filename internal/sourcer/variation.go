package sourcer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tutiful/papergen/internal/bank"
	"github.com/tutiful/papergen/internal/mcqrepair"
	"github.com/tutiful/papergen/internal/paper"
	"github.com/tutiful/papergen/internal/textrepair"
)

// VariationSourcer mutates a bank question heuristically: perturb one
// number, swap one contextual phrase, and optionally raise the working
// demanded. No oracle involved, so it keeps producing when the oracle
// is down.
type VariationSourcer struct {
	Bank *bank.Index

	// Used is the paper-level set of consumed bank IDs, shared with the
	// original sourcer.
	Used map[string]bool

	Session *textrepair.Session
}

func (s *VariationSourcer) Name() string { return string(paper.SourceVariation) }

// phraseSwaps rewords one surface detail so a varied question doesn't
// read as a copy of its base. Applied first match only, in order.
var phraseSwaps = []struct {
	re *regexp.Regexp
	to string
}{
	{regexp.MustCompile(`\bMr\.? Lee\b`), "Mrs Tan"},
	{regexp.MustCompile(`\bMrs\.? Tan\b`), "Mr Lim"},
	{regexp.MustCompile(`\bstudents\b`), "pupils"},
	{regexp.MustCompile(`\bpupils\b`), "children"},
	{regexp.MustCompile(`\bbought\b`), "purchased"},
	{regexp.MustCompile(`\bshop\b`), "store"},
	{regexp.MustCompile(`\bsweets\b`), "stickers"},
	{regexp.MustCompile(`\bapples\b`), "oranges"},
	{regexp.MustCompile(`\boranges\b`), "pears"},
	{regexp.MustCompile(`\bmarbles\b`), "beads"},
	{regexp.MustCompile(`\bbooks\b`), "magazines"},
	{regexp.MustCompile(`\bgarden\b`), "orchard"},
}

// complexityPhrases add topic-appropriate working demands to varied
// open-ended questions.
var complexityPhrases = map[string]string{
	"Fractions":  "Give your answer as a fraction in its simplest form.",
	"Decimals":   "Give your answer correct to 2 decimal places.",
	"Percentage": "Give your answer correct to 1 decimal place.",
	"Ratio":      "Give your answer in its simplest form.",
	"Average":    "Show how the total changes in your working.",
	"Speed":      "Include the units in your answer.",
}

func (s *VariationSourcer) Source(_ context.Context, req Request) (*paper.Question, error) {
	base := s.pickBase(req)
	if base == nil {
		return nil, fmt.Errorf("no unused %s base question for %q: %w", req.Type, req.Topic, ErrNoCandidates)
	}

	text, oldNum, newNum := perturbOneNumber(base.Text)
	if oldNum == "" {
		// A base with no perturbable number can't produce a distinct
		// variation; burn it so retries pick another.
		s.Used[base.ID] = true
		return nil, fmt.Errorf("base question %s has no perturbable number: %w", base.ID, ErrNoCandidates)
	}
	text = swapOnePhrase(text)

	correct := replaceNumberToken(base.CorrectText, oldNum, newNum)

	q := &paper.Question{
		ID:           uuid.NewString(),
		Topic:        req.Topic,
		Text:         text,
		Type:         req.Type,
		Source:       paper.SourceVariation,
		CorrectIndex: -1,
		CorrectText:  correct,
	}

	if req.Type == paper.MCQ {
		opts := make([]string, len(base.Options))
		for i, o := range base.Options {
			opts[i] = replaceNumberToken(o, oldNum, newNum)
		}
		repaired, idx, err := mcqrepair.Repair(opts, correct, text)
		if err != nil {
			s.Used[base.ID] = true
			return nil, fmt.Errorf("varied question from %s: %v: %w", base.ID, err, ErrNoCandidates)
		}
		q.Options = repaired
		q.CorrectIndex = idx
		q.CorrectText = repaired[idx]
		q.Marks = defaultMCQMarks
	} else {
		if phrase, ok := complexityPhrases[req.Topic]; ok && !strings.Contains(q.Text, phrase) {
			q.Text = strings.TrimSpace(q.Text) + " " + phrase
		}
		q.Marks = 2 + rand.IntN(3)
	}

	if s.Session != nil {
		q.Text = textrepair.Repair(q.Text, s.Session)
	} else {
		q.Text = textrepair.EnsurePunctuation(q.Text)
	}

	s.Used[base.ID] = true
	return q, nil
}

// pickBase chooses the longest unused bank question of the wanted
// shape. Longer questions survive perturbation better: they carry more
// context and more numbers to vary.
func (s *VariationSourcer) pickBase(req Request) *bank.Question {
	pool := s.Bank.Sample(req.Topic, req.Type == paper.MCQ, s.Used, 10)
	var best *bank.Question
	for i := range pool {
		if best == nil || len(pool[i].Text) > len(best.Text) {
			best = &pool[i]
		}
	}
	return best
}

var numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// perturbOneNumber rewrites exactly one number in text and reports the
// old and new renderings. Numbers that are part of a fraction are left
// alone so the mathematics stays well formed.
func perturbOneNumber(text string) (out, oldNum, newNum string) {
	locs := numberRe.FindAllStringIndex(text, -1)
	var usable [][]int
	for _, loc := range locs {
		if partOfFraction(text, loc) {
			continue
		}
		usable = append(usable, loc)
	}
	if len(usable) == 0 {
		return text, "", ""
	}

	loc := usable[rand.IntN(len(usable))]
	oldNum = text[loc[0]:loc[1]]
	v, err := strconv.ParseFloat(oldNum, 64)
	if err != nil || v <= 0 {
		return text, "", ""
	}

	nv := perturbValue(v)
	newNum = renderNumber(nv, oldNum)
	if newNum == oldNum {
		return text, "", ""
	}

	// Replace every standalone occurrence so quantities restated later
	// in the question stay consistent.
	return replaceNumberToken(text, oldNum, newNum), oldNum, newNum
}

// replaceNumberToken swaps whole-number tokens equal to oldNum for
// newNum. Longer numbers that merely contain oldNum ("120" for "12")
// and fraction parts are left untouched.
func replaceNumberToken(text, oldNum, newNum string) string {
	locs := numberRe.FindAllStringIndex(text, -1)
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		if text[loc[0]:loc[1]] != oldNum || partOfFraction(text, loc) {
			continue
		}
		b.WriteString(text[last:loc[0]])
		b.WriteString(newNum)
		last = loc[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

func partOfFraction(text string, loc []int) bool {
	if loc[0] > 0 && text[loc[0]-1] == '/' {
		return true
	}
	if loc[1] < len(text) && text[loc[1]] == '/' {
		return true
	}
	return false
}

// perturbValue scales a quantity while keeping it plausible for its
// magnitude. Small counts shift by a few, mid-range quantities scale,
// large ones get an additive nudge.
func perturbValue(v float64) float64 {
	switch {
	case v <= 10:
		nv := v + float64(1+rand.IntN(5))
		if rand.IntN(2) == 0 && v > 5 {
			nv = v - float64(1+rand.IntN(4))
		}
		return nv
	case v <= 100:
		factors := []float64{0.5, 0.75, 1.25, 1.5, 2.0}
		return v * factors[rand.IntN(len(factors))]
	default:
		nv := v + float64(rand.IntN(151)-50)
		if nv <= 0 {
			nv = v + 50
		}
		return nv
	}
}

// renderNumber renders v in the style of the number it replaces:
// integers stay integers, decimals keep their precision.
func renderNumber(v float64, like string) string {
	if dot := strings.IndexByte(like, '.'); dot >= 0 {
		return strconv.FormatFloat(v, 'f', len(like)-dot-1, 64)
	}
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func swapOnePhrase(text string) string {
	for _, swap := range phraseSwaps {
		if swap.re.MatchString(text) {
			return swap.re.ReplaceAllString(text, swap.to)
		}
	}
	return text
}
