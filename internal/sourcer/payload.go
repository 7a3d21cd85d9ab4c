package sourcer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tutiful/papergen/internal/paper"
)

// payload is the wire shape the oracle is asked to produce. MCQ
// payloads carry four options and an index 0-3; open-ended payloads
// carry an empty options array and index -1.
type payload struct {
	Question           string
	Options            []string
	CorrectAnswerIndex int
	CorrectAnswerText  string
	QuestionType       paper.QuestionType
	Marks              int
}

// parsePayload recovers a payload from raw oracle output. It tries a
// strict decode first, then a fixed sequence of cleanup passes, and
// finally regex scraping of the question text.
func parsePayload(raw string) (*payload, error) {
	for _, candidate := range cleanupCandidates(raw) {
		if p, err := decodePayload(candidate); err == nil {
			return p, nil
		}
	}
	if p := scrapePayload(raw); p != nil {
		return p, nil
	}
	return nil, fmt.Errorf("%w: no JSON object recoverable", ErrMalformedPayload)
}

var (
	instWrapperRe   = regexp.MustCompile(`(?s)\[/?INST\]`)
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	smartQuotes     = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	pythonLiteralRe = regexp.MustCompile(`\b(True|False|None)\b`)
	latexNoiseRe    = regexp.MustCompile(`\\(?:boxed|frac|times|div|cdot)\{?|\\[\[\]()]`)
)

// cleanupCandidates yields progressively more aggressive rewrites of
// the raw output, each a fresh decode attempt.
func cleanupCandidates(raw string) []string {
	out := []string{strings.TrimSpace(raw)}

	s := instWrapperRe.ReplaceAllString(raw, "")
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = strings.TrimSpace(s)
	out = append(out, s)

	// Bound to the outermost braces.
	if start, end := strings.Index(s, "{"), strings.LastIndex(s, "}"); start >= 0 && end > start {
		s = s[start : end+1]
		out = append(out, s)
	}

	s = smartQuotes.Replace(s)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = pythonLiteralRe.ReplaceAllStringFunc(s, func(m string) string {
		switch m {
		case "True":
			return "true"
		case "False":
			return "false"
		default:
			return "null"
		}
	})
	s = latexNoiseRe.ReplaceAllString(s, "")
	out = append(out, s)

	return out
}

// decodePayload decodes one candidate string, tolerating the type
// slop local models produce: numeric strings for the index, a single
// delimited string for the options array, a missing type field.
func decodePayload(s string) (*payload, error) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}

	p := &payload{CorrectAnswerIndex: -1, QuestionType: paper.OpenEnded}

	q, _ := m["question"].(string)
	p.Question = strings.TrimSpace(q)
	if p.Question == "" {
		return nil, fmt.Errorf("missing question field")
	}

	p.Options = coerceOptions(m["options"])
	p.CorrectAnswerIndex = coerceInt(m["correct_answer_index"], -1)
	if t, _ := m["correct_answer_text"].(string); t != "" {
		p.CorrectAnswerText = strings.TrimSpace(t)
	}
	p.Marks = coerceInt(m["marks"], 0)

	// The question_type tag decides the union arm; options presence is
	// the fallback signal.
	qt, _ := m["question_type"].(string)
	switch {
	case strings.EqualFold(qt, "MCQ"):
		p.QuestionType = paper.MCQ
	case qt != "":
		p.QuestionType = paper.OpenEnded
	case len(p.Options) > 0:
		p.QuestionType = paper.MCQ
	}

	if p.QuestionType == paper.OpenEnded {
		p.Options = nil
		p.CorrectAnswerIndex = -1
	} else {
		// Derive a usable index from the correct text when the model
		// returned a bad one.
		if (p.CorrectAnswerIndex < 0 || p.CorrectAnswerIndex >= len(p.Options)) && p.CorrectAnswerText != "" {
			for i, o := range p.Options {
				if normEq(o, p.CorrectAnswerText) {
					p.CorrectAnswerIndex = i
					break
				}
			}
		}
		if p.CorrectAnswerText == "" && p.CorrectAnswerIndex >= 0 && p.CorrectAnswerIndex < len(p.Options) {
			p.CorrectAnswerText = p.Options[p.CorrectAnswerIndex]
		}
	}

	return p, nil
}

var (
	optionSplitRe = regexp.MustCompile(`\s*(?:\n|;|\|)\s*`)

	// A comma directly before an "A." / "2)" style label also separates
	// options. RE2 has no lookahead, so the label is captured and
	// re-attached on a fresh line before the plain split runs.
	optionLabelBreakRe = regexp.MustCompile(`,(\s*[A-D1-4][.)])`)
)

// coerceOptions accepts a proper array, an array of numbers, or a
// single delimited string.
func coerceOptions(v any) []string {
	switch t := v.(type) {
	case []any:
		var out []string
		for _, item := range t {
			switch o := item.(type) {
			case string:
				if s := strings.TrimSpace(o); s != "" {
					out = append(out, s)
				}
			case float64:
				out = append(out, formatNumber(o))
			}
		}
		return out
	case string:
		var out []string
		for _, part := range optionSplitRe.Split(optionLabelBreakRe.ReplaceAllString(t, "\n$1"), -1) {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 1 {
			return out
		}
		return nil
	default:
		return nil
	}
}

func coerceInt(v any, fallback int) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return fallback
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func normEq(a, b string) bool {
	clean := func(s string) string {
		return strings.ToLower(strings.Join(strings.Fields(s), " "))
	}
	return clean(a) == clean(b)
}

var (
	scrapeQuestionRe = regexp.MustCompile(`"question"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	scrapeOptionRe   = regexp.MustCompile(`"((?:[^"\\]|\\.)+)"`)
	scrapeOptionsRe  = regexp.MustCompile(`(?s)"options"\s*:\s*\[(.*?)\]`)
	scrapeCorrectRe  = regexp.MustCompile(`"correct_answer_text"\s*:\s*"((?:[^"\\]|\\.)*)"`)
)

// scrapePayload is the last resort: pull the question and options out
// of broken JSON with regexes.
func scrapePayload(raw string) *payload {
	qm := scrapeQuestionRe.FindStringSubmatch(raw)
	if qm == nil {
		return nil
	}
	p := &payload{
		Question:           unescape(qm[1]),
		CorrectAnswerIndex: -1,
		QuestionType:       paper.OpenEnded,
	}

	if om := scrapeOptionsRe.FindStringSubmatch(raw); om != nil {
		for _, m := range scrapeOptionRe.FindAllStringSubmatch(om[1], -1) {
			p.Options = append(p.Options, unescape(m[1]))
		}
	}
	if cm := scrapeCorrectRe.FindStringSubmatch(raw); cm != nil {
		p.CorrectAnswerText = unescape(cm[1])
	}

	if len(p.Options) > 0 {
		p.QuestionType = paper.MCQ
		for i, o := range p.Options {
			if normEq(o, p.CorrectAnswerText) {
				p.CorrectAnswerIndex = i
				break
			}
		}
	}
	return p
}

func unescape(s string) string {
	var out string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &out); err != nil {
		return s
	}
	return out
}
