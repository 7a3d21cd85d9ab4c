package paper

import (
	"math/rand/v2"
	"strings"
)

// mcqShare is the fraction of each topic's slots assigned to MCQ.
// The remainder goes to open-ended, so open-ended absorbs the rounding.
const mcqShare = 0.7

// DefaultDistribution returns the standard PSLE topic weighting used
// when the caller does not supply a distribution.
func DefaultDistribution() map[string]int {
	return map[string]int{
		"Fractions":                        4,
		"Decimals":                         3,
		"Percentage":                       3,
		"Ratio":                            3,
		"Measurement":                      3,
		"Geometry":                         2,
		"Speed":                            3,
		"Area and Circumference of Circle": 2,
		"Volume of Cube and Cuboid":        2,
		"Average":                          2,
		"Algebra":                          2,
		"Whole Numbers":                    1,
	}
}

// topicSynonyms maps lowercase aliases to canonical topic names.
var topicSynonyms = map[string]string{
	"fraction":      "Fractions",
	"fractions":     "Fractions",
	"decimal":       "Decimals",
	"decimals":      "Decimals",
	"percent":       "Percentage",
	"percentage":    "Percentage",
	"percentages":   "Percentage",
	"%":             "Percentage",
	"ratio":         "Ratio",
	"ratios":        "Ratio",
	"measurement":   "Measurement",
	"measurements":  "Measurement",
	"geometry":      "Geometry",
	"angles":        "Geometry",
	"speed":         "Speed",
	"circle":        "Area and Circumference of Circle",
	"circles":       "Area and Circumference of Circle",
	"circumference": "Area and Circumference of Circle",
	"volume":        "Volume of Cube and Cuboid",
	"cube":          "Volume of Cube and Cuboid",
	"cuboid":        "Volume of Cube and Cuboid",
	"average":       "Average",
	"averages":      "Average",
	"algebra":       "Algebra",
	"whole numbers": "Whole Numbers",
	"numbers":       "Whole Numbers",
}

// CanonicalTopic resolves a requested topic name to its canonical form.
// Resolution tries the synonym table first, then keyword substring
// matching against known canonical names. Returns ("", false) when the
// topic cannot be resolved.
func CanonicalTopic(name string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return "", false
	}
	if canonical, ok := topicSynonyms[key]; ok {
		return canonical, true
	}

	// Substring fallback in both directions.
	for _, canonical := range canonicalTopics() {
		cl := strings.ToLower(canonical)
		if strings.Contains(key, cl) || strings.Contains(cl, key) {
			return canonical, true
		}
	}
	for alias, canonical := range topicSynonyms {
		if strings.Contains(key, alias) {
			return canonical, true
		}
	}
	return "", false
}

// CanonicalizeDistribution resolves every topic in dist to canonical
// form, merging counts that resolve to the same topic. Unresolvable
// topics are returned in dropped.
func CanonicalizeDistribution(dist map[string]int) (resolved map[string]int, dropped []string) {
	resolved = make(map[string]int)
	for topic, count := range dist {
		if count <= 0 {
			continue
		}
		canonical, ok := CanonicalTopic(topic)
		if !ok {
			dropped = append(dropped, topic)
			continue
		}
		resolved[canonical] += count
	}
	return resolved, dropped
}

func canonicalTopics() []string {
	return []string{
		"Fractions", "Decimals", "Percentage", "Ratio", "Measurement",
		"Geometry", "Speed", "Area and Circumference of Circle",
		"Volume of Cube and Cuboid", "Average", "Algebra", "Whole Numbers",
	}
}

// BuildPlan lays out the paper's slots from a topic distribution.
//
// Each topic contributes int(count * 0.7) MCQ slots, the remainder
// open-ended. Slots are shuffled within each type group, then placed
// MCQ-first. The plan is truncated to total, or padded with random
// (topic, random type) slots when the distribution falls short.
func BuildPlan(dist map[string]int, total int) []Slot {
	var mcqSlots, openSlots []Slot
	var topics []string

	for topic, count := range dist {
		if count <= 0 {
			continue
		}
		topics = append(topics, topic)

		mcq := int(float64(count) * mcqShare)
		for i := 0; i < mcq; i++ {
			mcqSlots = append(mcqSlots, Slot{Topic: topic, Type: MCQ})
		}
		for i := 0; i < count-mcq; i++ {
			openSlots = append(openSlots, Slot{Topic: topic, Type: OpenEnded})
		}
	}

	rand.Shuffle(len(mcqSlots), func(i, j int) { mcqSlots[i], mcqSlots[j] = mcqSlots[j], mcqSlots[i] })
	rand.Shuffle(len(openSlots), func(i, j int) { openSlots[i], openSlots[j] = openSlots[j], openSlots[i] })

	plan := append(mcqSlots, openSlots...)

	if len(plan) > total {
		return plan[:total]
	}

	for len(plan) < total && len(topics) > 0 {
		slot := Slot{Topic: topics[rand.IntN(len(topics))], Type: MCQ}
		if rand.IntN(2) == 1 {
			slot.Type = OpenEnded
		}
		plan = append(plan, slot)
	}
	return plan
}
