package validate

import (
	"regexp"
	"strings"

	"github.com/tutiful/papergen/internal/paper"
)

var (
	diagramPattern = regexp.MustCompile(`(?i)\b(?:diagram|figure|picture|graph|chart)\b|shown below|as shown`)

	// Phrasing corruption the repair passes can't fix.
	corruptPhrasePattern = regexp.MustCompile(`(?i)\bin most\b|\bhow few\b|\?\?|\]\]|\[\[`)

	// Meta text leaking from the chat wrapper.
	metaTextPattern = regexp.MustCompile(`(?i)as an ai|here is a question|here's a question|note:|\[inst\]|sure[,!] |certainly`)

	countQuestionPattern = regexp.MustCompile(`(?i)\bhow many\s+([a-z]+)`)
	optionUnitPattern    = regexp.MustCompile(`\d\s*(?:m²|cm²|km|cm|mm|m|kg|g|mL|ml|L|litres?|minutes?|hours?)\s*$`)

	// "How many litres" legitimately takes unit-bearing options.
	unitNouns = map[string]bool{
		"litres": true, "litre": true, "millilitres": true, "metres": true,
		"metre": true, "centimetres": true, "kilometres": true, "grams": true,
		"kilograms": true, "minutes": true, "hours": true, "seconds": true,
		"dollars": true, "cents": true,
	}
)

// ClarityValidator rejects questions a pupil could not act on: ones
// that reference artwork we don't render, corrupted phrasing, or
// options that contradict the question.
type ClarityValidator struct{}

func (v *ClarityValidator) Name() string { return "clarity" }

func (v *ClarityValidator) Validate(q *paper.Question, _ Input) *Error {
	if diagramPattern.MatchString(q.Text) {
		return v.fail("references a diagram or figure that is not rendered")
	}
	if corruptPhrasePattern.MatchString(q.Text) {
		return v.fail("corrupted phrasing")
	}
	if metaTextPattern.MatchString(q.Text) {
		return v.fail("chat meta text leaked into the question")
	}

	// "How many" asks for a count; a full set of unit-bearing options
	// means the options answer a different question.
	if q.Type == paper.MCQ {
		if m := countQuestionPattern.FindStringSubmatch(q.Text); m != nil && !unitNouns[strings.ToLower(m[1])] {
			unitBearing := 0
			for _, opt := range q.Options {
				if optionUnitPattern.MatchString(opt) {
					unitBearing++
				}
			}
			if unitBearing >= 3 {
				return v.fail("count question with measurement options")
			}
		}
	}
	return nil
}

func (v *ClarityValidator) fail(msg string) *Error {
	return &Error{Validator: v.Name(), Message: msg, Retryable: true}
}
