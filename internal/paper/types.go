// Package paper defines the practice paper domain types and the
// structural planner that lays out paper slots before generation.
package paper

import "time"

// QuestionType distinguishes multiple-choice from open-ended questions.
type QuestionType string

const (
	MCQ       QuestionType = "MCQ"
	OpenEnded QuestionType = "Open-ended"
)

// Source records which candidate sourcer produced a question.
type Source string

const (
	SourceOriginal  Source = "Original"
	SourceGenerated Source = "Generated"
	SourceVariation Source = "Variation"
)

// Question is a finished, validated paper question.
//
// MCQ questions carry exactly four options and a valid CorrectIndex.
// Open-ended questions carry no options and CorrectIndex -1.
type Question struct {
	ID           string       `json:"id"`
	Topic        string       `json:"topic"`
	Text         string       `json:"question"`
	Options      []string     `json:"options"`
	CorrectIndex int          `json:"correct_answer_index"`
	CorrectText  string       `json:"correct_answer_text"`
	Type         QuestionType `json:"question_type"`
	Marks        int          `json:"marks"`
	Source       Source       `json:"source"`
}

// SourceCounts tallies accepted questions per sourcer.
type SourceCounts struct {
	Generated int `json:"Generated"`
	Variation int `json:"Variation"`
	Original  int `json:"Original"`
}

// Paper is an assembled practice paper.
type Paper struct {
	Title          string       `json:"title"`
	Questions      []Question   `json:"questions"`
	TotalQuestions int          `json:"total_questions"`
	TopicsCovered  []string     `json:"topics_covered"`
	SourceCounts   SourceCounts `json:"question_sources"`
	GeneratedAt    time.Time    `json:"generated_at"`
}

// Slot is a planned position in the paper: a topic plus a question type
// to fill.
type Slot struct {
	Topic string
	Type  QuestionType
}
