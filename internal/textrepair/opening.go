package textrepair

import (
	"regexp"
	"strings"
)

var locativeOpener = regexp.MustCompile(`^(In|At|On)\s+(a|an|the)\s+([^,]+),\s*(.+)$`)

// rewriteLocativeOpener moves a leading "In a <place>," clause to the
// end of the sentence, so papers don't read as a string of
// "In a garden, ..." questions.
//
//	"In a garden, Devi plants 12 rows of seedlings."
//	  → "Devi plants 12 rows of seedlings in a garden."
func rewriteLocativeOpener(text string) string {
	m := locativeOpener.FindStringSubmatch(text)
	if m == nil {
		return text
	}

	prep := strings.ToLower(m[1])
	article := m[2]
	place := strings.TrimSpace(m[3])
	rest := strings.TrimSpace(m[4])
	if rest == "" {
		return text
	}

	// Carry the terminal punctuation past the relocated clause.
	punct := "."
	if last := rest[len(rest)-1]; last == '.' || last == '?' || last == '!' {
		punct = string(last)
		rest = strings.TrimSpace(rest[:len(rest)-1])
	}

	return capitalize(rest) + " " + prep + " " + article + " " + place + punct
}

// genericNouns are role and object nouns where "The <noun>" reads as a
// dangling back-reference at the start of a question.
var genericNouns = []string{
	"farmer", "teacher", "student", "shopkeeper", "baker", "gardener",
	"tank", "container", "garden", "class", "shop", "box", "basket",
	"school", "library", "bakery",
}

var spaceBeforePunct = regexp.MustCompile(`\s+([.,?!])`)

// polishOpening capitalizes the first letter, converts "The <generic
// noun>" openers into indefinite form, and removes stray spaces before
// punctuation.
func polishOpening(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}

	text = capitalize(text)

	for _, noun := range genericNouns {
		prefix := "The " + noun + " "
		if strings.HasPrefix(text, prefix) {
			article := "A"
			if strings.ContainsRune("aeiou", rune(noun[0])) {
				article = "An"
			}
			text = article + " " + noun + " " + text[len(prefix):]
			break
		}
	}

	return spaceBeforePunct.ReplaceAllString(text, "$1")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Opening pattern classes.
const (
	OpeningDirectQuestion = "direct_question"
	OpeningPersonAction   = "person_action"
	OpeningQuantity       = "quantity_start"
	OpeningExistential    = "existential"
	OpeningActionTime     = "action_time"
	OpeningArticleNoun    = "article_noun"
	OpeningLocationPrep   = "location_prep"
	OpeningImperative     = "imperative"
	OpeningOther          = "other"
)

var (
	directQuestionRe = regexp.MustCompile(`^(What|How|Which|Who|When|Where|Why)\b`)
	imperativeRe     = regexp.MustCompile(`^(Calculate|Find|Determine|Solve|Express|Work out|Estimate)\b`)
	quantityRe       = regexp.MustCompile(`^\d`)
	actionTimeRe     = regexp.MustCompile(`^(Every|During|Yesterday|Today|Last|Each|After|Before)\b`)
	articleNounRe    = regexp.MustCompile(`^(A|An|The)\b`)
	locationPrepRe   = regexp.MustCompile(`^(In|At|On)\b`)
	personActionRe   = regexp.MustCompile(`^[A-Z][a-z]+(\s[A-Z][a-z]+)?\s(has|had|buys|bought|sells|sold|makes|made|reads|read|walks|walked|runs|ran|saves|saved|spends|spent|collects|collected|bakes|baked|plants|planted|pours|poured|cuts|cut|shares|shared|mixes|mixed|uses|used|eats|ate|drinks|drank|gives|gave|takes|took|wants|needs|owns|packs|packed|fills|filled)\b`)
)

// ClassifyOpening buckets a question's opening into one of nine
// pattern classes used for variety tracking and prompt hints.
func ClassifyOpening(text string) string {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return OpeningOther
	case isExistentialOpener(text):
		return OpeningExistential
	case directQuestionRe.MatchString(text):
		return OpeningDirectQuestion
	case imperativeRe.MatchString(text):
		return OpeningImperative
	case quantityRe.MatchString(text):
		return OpeningQuantity
	case actionTimeRe.MatchString(text):
		return OpeningActionTime
	case personActionRe.MatchString(text):
		return OpeningPersonAction
	case articleNounRe.MatchString(text):
		return OpeningArticleNoun
	case locationPrepRe.MatchString(text):
		return OpeningLocationPrep
	default:
		return OpeningOther
	}
}

// openingHints suggests how to start a question in each pattern class.
var openingHints = map[string]string{
	OpeningDirectQuestion: "start with a direct question like \"How many\" or \"What is\"",
	OpeningPersonAction:   "start with a named person doing something, e.g. \"Mei Ling bakes 24 muffins\"",
	OpeningQuantity:       "start with a quantity, e.g. \"12 identical boxes weigh\"",
	OpeningActionTime:     "start with a time phrase, e.g. \"During a sale\" or \"Every morning\"",
	OpeningArticleNoun:    "start with an object, e.g. \"A rectangular tank\"",
	OpeningImperative:     "start with an instruction, e.g. \"Find the total cost\"",
}

// UnderusedOpeningHint returns prompt guidance steering toward an
// opening pattern used by fewer than 15% of recent questions. Returns
// "" when nothing stands out yet.
func (s *Session) UnderusedOpeningHint() string {
	if s.openings.len() < 5 {
		return ""
	}
	ordered := []string{
		OpeningPersonAction, OpeningQuantity, OpeningActionTime,
		OpeningArticleNoun, OpeningImperative, OpeningDirectQuestion,
	}
	for _, pattern := range ordered {
		if s.openingUsage(pattern) < 0.15 {
			return openingHints[pattern]
		}
	}
	return ""
}
