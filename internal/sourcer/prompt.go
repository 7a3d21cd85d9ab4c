package sourcer

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/tutiful/papergen/internal/bank"
	"github.com/tutiful/papergen/internal/paper"
)

const generateSystem = "You write Singapore PSLE (Primary 6) mathematics exam questions. " +
	"Respond with a single JSON object and nothing else."

// scenarioContexts is the pool of everyday settings offered to the
// oracle so questions don't converge on the same few scenes.
var scenarioContexts = []string{
	"a school bookshop", "a durian stall", "a hawker centre", "a wet market",
	"a void deck", "an MRT station", "a bus interchange", "a HDB estate",
	"a community garden", "a recycling drive", "a charity bake sale",
	"a school sports day", "a swimming complex", "a badminton court",
	"a cycling path", "a nature reserve", "a bird park", "a fish farm",
	"an orchard", "a fruit stand", "a florist shop", "a bakery",
	"a noodle factory", "a toy warehouse", "a stationery shop",
	"a library book fair", "a science fair", "a robotics club",
	"a chess tournament", "a school camp", "a field trip",
	"a ferry terminal", "a lighthouse", "a fishing jetty",
	"a vegetable plot", "a rooftop farm", "a rainwater tank",
	"a painting workshop", "a pottery class", "a sewing class",
	"a delivery van route", "a petrol kiosk", "a car park",
	"a money-saving challenge", "a class fund", "a school concert",
	"a ticket booth", "a popcorn stand", "a drink stall",
	"a ribbon factory", "a rope bridge", "a kite festival",
	"a sandcastle contest", "a tile showroom", "a carpentry workshop",
	"a moving day", "a birthday party", "a picnic",
	"a marathon water point", "a relay race", "a treasure hunt",
	"a stamp collection", "a coin collection", "a sticker album",
	"a fish tank", "a hamster cage", "a bee farm",
	"a strawberry farm", "a tea plantation", "a rice harvest",
}

// topicHints steers the oracle toward the right problem shapes per
// topic.
var topicHints = map[string]string{
	"Fractions":                        "Use a part-of-a-whole situation with an explicit total, e.g. 2/5 of 45 items.",
	"Decimals":                         "Use money or measurements with 2 decimal places.",
	"Percentage":                       "Use discounts, GST, or score increases with an explicit base amount.",
	"Ratio":                            "State a ratio plus a total or one actual quantity.",
	"Measurement":                      "Convert between units or combine lengths, masses, or volumes.",
	"Geometry":                         "Use angle properties of triangles and quadrilaterals without needing a diagram.",
	"Speed":                            "Give two of speed, distance, and time with units.",
	"Area and Circumference of Circle": "Give the radius or diameter and ask for area or circumference, take pi = 3.14.",
	"Volume of Cube and Cuboid":        "Give edge lengths in cm or m and ask for volume or a missing edge.",
	"Average":                          "Give a set of values or a changing average.",
	"Algebra":                          "Use a variable for an unknown quantity in a real situation.",
	"Whole Numbers":                    "Use multi-step problems with four operations on whole numbers.",
}

// promptProfile bundles the sampling parameters and prompt style of one
// generation attempt.
type promptProfile struct {
	Temperature float64
	MaxTokens   int
	Simplified  bool
}

// attemptProfiles are tried in order: a rich prompt first, then a
// simplified one at lower temperature for models that drown in context.
var attemptProfiles = []promptProfile{
	{Temperature: 0.6, MaxTokens: 1100},
	{Temperature: 0.5, MaxTokens: 900, Simplified: true},
}

func profileFor(attempt int) promptProfile {
	if attempt < 0 {
		attempt = 0
	}
	return attemptProfiles[attempt%len(attemptProfiles)]
}

// promptInput carries everything buildPrompt needs beyond the slot.
type promptInput struct {
	Topic       string
	Type        paper.QuestionType
	Examples    []bank.Question
	Forbidden   []string
	OpeningHint string
	Simplified  bool
}

func buildPrompt(in promptInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write ONE %s question on the topic %q for a Primary 6 pupil.\n\n", in.Type, in.Topic)

	if in.Type == paper.MCQ {
		b.WriteString("The question must have exactly 4 answer options, one correct. " +
			"Set question_type to \"MCQ\", correct_answer_index to the 0-based position " +
			"of the correct option, and correct_answer_text to that option. Set marks to 1.\n")
	} else {
		b.WriteString("The question is open-ended: pupils show their working. " +
			"Set question_type to \"Open-ended\", options to an empty array, " +
			"correct_answer_index to -1, and marks to a value from 2 to 5.\n")
	}

	if hint, ok := topicHints[in.Topic]; ok {
		b.WriteString(hint + "\n")
	}

	if !in.Simplified {
		if len(in.Examples) > 0 {
			b.WriteString("\nThese vetted questions show the expected difficulty:\n")
			for _, ex := range in.Examples {
				fmt.Fprintf(&b, "- %s\n", ex.Text)
			}
		}

		if n := len(scenarioContexts); n > 0 {
			b.WriteString("\nPick a setting such as: ")
			idxs := rand.Perm(n)
			if len(idxs) > 12 {
				idxs = idxs[:12]
			}
			parts := make([]string, len(idxs))
			for i, j := range idxs {
				parts[i] = scenarioContexts[j]
			}
			b.WriteString(strings.Join(parts, ", ") + ".\n")
		}

		if len(in.Forbidden) > 0 {
			fmt.Fprintf(&b, "Do NOT reuse these settings, the paper already has them: %s.\n",
				strings.Join(in.Forbidden, ", "))
		}
		if in.OpeningHint != "" {
			fmt.Fprintf(&b, "For variety, %s.\n", in.OpeningHint)
		}
	}

	b.WriteString("\nRespond with JSON: {\"question\": ..., \"options\": [...], " +
		"\"correct_answer_index\": ..., \"correct_answer_text\": ..., " +
		"\"question_type\": ..., \"marks\": ...}")
	return b.String()
}

// buildNudgePrompt asks the oracle to lift a borderline question to
// exam standard instead of starting over.
func buildNudgePrompt(q *paper.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This %s question on %q is close but not exam standard yet:\n\n%s\n\n", q.Type, q.Topic, q.Text)
	if q.Type == paper.MCQ {
		fmt.Fprintf(&b, "Options: %s\n\n", strings.Join(q.Options, " | "))
	}
	b.WriteString("Rewrite it so it is a multi-step problem with realistic quantities, " +
		"proper units, and precise wording. Keep the same topic and type. " +
		"Respond with the same JSON shape as before.")
	return b.String()
}
