package sourcer

import (
	"errors"
	"testing"

	"github.com/tutiful/papergen/internal/paper"
)

func TestParsePayloadStrictMCQ(t *testing.T) {
	raw := `{"question": "A shop sells 48 pens. How many boxes of 6 can it fill?",
		"options": ["6", "7", "8", "9"],
		"correct_answer_index": 2,
		"correct_answer_text": "8",
		"question_type": "MCQ",
		"marks": 1}`

	p, err := parsePayload(raw)
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	if p.QuestionType != paper.MCQ {
		t.Errorf("type = %q, want MCQ", p.QuestionType)
	}
	if p.CorrectAnswerIndex != 2 || p.CorrectAnswerText != "8" {
		t.Errorf("correct = (%d, %q), want (2, 8)", p.CorrectAnswerIndex, p.CorrectAnswerText)
	}
	if len(p.Options) != 4 {
		t.Errorf("options = %v, want 4 entries", p.Options)
	}
}

func TestParsePayloadCodeFenced(t *testing.T) {
	raw := "Here is the question:\n```json\n{\"question\": \"What is 12 x 4?\", \"options\": [\"44\", \"46\", \"48\", \"50\"], \"correct_answer_text\": \"48\", \"question_type\": \"MCQ\"}\n```"

	p, err := parsePayload(raw)
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	if p.Question != "What is 12 x 4?" {
		t.Errorf("question = %q", p.Question)
	}
	// Index derived from the correct text when the model omits it.
	if p.CorrectAnswerIndex != 2 {
		t.Errorf("index = %d, want 2", p.CorrectAnswerIndex)
	}
}

func TestParsePayloadSmartQuotesAndTrailingComma(t *testing.T) {
	raw := "{“question”: “Meili saves $2.50 each week. How much does she save in 6 weeks?”, “question_type”: “Open-ended”, “correct_answer_text”: “$15”,}"

	p, err := parsePayload(raw)
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	if p.QuestionType != paper.OpenEnded {
		t.Errorf("type = %q, want Open-ended", p.QuestionType)
	}
	if p.CorrectAnswerText != "$15" {
		t.Errorf("correct = %q", p.CorrectAnswerText)
	}
}

func TestParsePayloadPythonLiterals(t *testing.T) {
	raw := `{"question": "A tank holds 40 litres. How much is 3/4 full?", "options": None, "correct_answer_index": None, "correct_answer_text": "30 litres", "question_type": "Open-ended", "marks": 3}`

	p, err := parsePayload(raw)
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	if p.Options != nil || p.CorrectAnswerIndex != -1 {
		t.Errorf("open-ended payload kept options: %v, %d", p.Options, p.CorrectAnswerIndex)
	}
	if p.Marks != 3 {
		t.Errorf("marks = %d, want 3", p.Marks)
	}
}

func TestParsePayloadOpenEndedDropsOptions(t *testing.T) {
	raw := `{"question": "Find the value of 5y when y = 7.", "options": ["30", "35", "40", "45"], "correct_answer_index": 1, "correct_answer_text": "35", "question_type": "Open-ended"}`

	p, err := parsePayload(raw)
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	if p.Options != nil {
		t.Errorf("options = %v, want nil for open-ended", p.Options)
	}
	if p.CorrectAnswerIndex != -1 {
		t.Errorf("index = %d, want -1", p.CorrectAnswerIndex)
	}
}

func TestParsePayloadUntaggedWithOptionsIsMCQ(t *testing.T) {
	raw := `{"question": "What is 25% of 80?", "options": ["15", "20", "25", "30"], "correct_answer_index": 1, "correct_answer_text": "20"}`

	p, err := parsePayload(raw)
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	if p.QuestionType != paper.MCQ {
		t.Errorf("type = %q, want MCQ inferred from options", p.QuestionType)
	}
}

func TestParsePayloadOptionsAsDelimitedString(t *testing.T) {
	raw := `{"question": "What is 90 divided by 5?", "options": "12 | 15 | 18 | 20", "correct_answer_text": "18", "question_type": "MCQ"}`

	p, err := parsePayload(raw)
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	if len(p.Options) != 4 {
		t.Fatalf("options = %v, want 4 entries", p.Options)
	}
	if p.CorrectAnswerIndex != 2 {
		t.Errorf("index = %d, want 2", p.CorrectAnswerIndex)
	}
}

func TestParsePayloadOptionsAsLabeledCommaString(t *testing.T) {
	raw := `{"question": "What is 90 divided by 5?", "options": "A. 12, B. 15, C. 18, D. 21", "correct_answer_text": "18", "question_type": "MCQ"}`

	p, err := parsePayload(raw)
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	want := []string{"A. 12", "B. 15", "C. 18", "D. 21"}
	if len(p.Options) != len(want) {
		t.Fatalf("options = %v, want %v", p.Options, want)
	}
	for i, o := range want {
		if p.Options[i] != o {
			t.Errorf("option %d = %q, want %q", i, p.Options[i], o)
		}
	}
}

func TestParsePayloadThousandsCommaNotSplit(t *testing.T) {
	raw := `{"question": "What is 6790 rounded to the nearest hundred?", "options": "6,800 | 6,700 | 6,790 | 7,000", "correct_answer_text": "6,800", "question_type": "MCQ"}`

	p, err := parsePayload(raw)
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	if len(p.Options) != 4 {
		t.Fatalf("options = %v, want 4 entries", p.Options)
	}
	if p.Options[0] != "6,800" {
		t.Errorf("option 0 = %q, want 6,800", p.Options[0])
	}
}

func TestParsePayloadStringIndex(t *testing.T) {
	raw := `{"question": "What is 7 x 8?", "options": ["54", "56", "58", "60"], "correct_answer_index": "1", "correct_answer_text": "56", "question_type": "MCQ"}`

	p, err := parsePayload(raw)
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	if p.CorrectAnswerIndex != 1 {
		t.Errorf("index = %d, want 1", p.CorrectAnswerIndex)
	}
}

func TestParsePayloadScrapeFallback(t *testing.T) {
	// Broken JSON: unquoted marks value plus a stray brace. Strict and
	// cleaned decodes fail; the scraper should still recover the fields.
	raw := `{"question": "A rope is 36 m long. It is cut into 4 equal pieces. How long is each piece?", "options": ["8 m", "9 m", "10 m", "12 m"], "correct_answer_text": "9 m", "marks": one} }`

	p, err := parsePayload(raw)
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	if p.Question == "" {
		t.Fatal("scraper returned empty question")
	}
	if p.QuestionType != paper.MCQ || p.CorrectAnswerIndex != 1 {
		t.Errorf("scraped type/index = %q/%d, want MCQ/1", p.QuestionType, p.CorrectAnswerIndex)
	}
}

func TestParsePayloadGarbage(t *testing.T) {
	_, err := parsePayload("I cannot help with that request.")
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
}

func TestParsePayloadMissingQuestion(t *testing.T) {
	_, err := parsePayload(`{"options": ["1", "2", "3", "4"], "correct_answer_text": "2"}`)
	if !errors.Is(err, ErrMalformedPayload) {
		t.Fatalf("err = %v, want ErrMalformedPayload", err)
	}
}
