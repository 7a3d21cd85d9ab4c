package sourcer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tutiful/papergen/internal/bank"
	"github.com/tutiful/papergen/internal/paper"
)

const sourcerTestBank = `[
	{
		"id": "frac-mcq-1",
		"topic": "Fractions",
		"question": "Siti ate 1/4 of a pizza cut into 12 slices. How many slices did she eat?",
		"options": ["2", "3", "4", "6"],
		"correct_answer_index": 1,
		"correct_answer_text": "3"
	},
	{
		"id": "frac-open-1",
		"topic": "Fractions",
		"question": "A baker used 2/5 of his 45 kg of flour on Monday. How much flour was left?",
		"correct_answer_index": -1,
		"correct_answer_text": "27 kg",
		"marks": 3
	},
	{
		"id": "whole-open-1",
		"topic": "Whole Numbers",
		"question": "A farmer packs 60 eggs equally into 10 trays. He then sells 4 trays. How many eggs does he have left?",
		"correct_answer_index": -1,
		"correct_answer_text": "36"
	}
]`

func loadSourcerBank(t *testing.T) *bank.Index {
	t.Helper()
	idx, err := bank.Decode(strings.NewReader(sourcerTestBank))
	if err != nil {
		t.Fatalf("decode bank: %v", err)
	}
	return idx
}

func TestOriginalSourcerMCQ(t *testing.T) {
	s := &OriginalSourcer{Bank: loadSourcerBank(t), Used: map[string]bool{}}

	q, err := s.Source(context.Background(), Request{Topic: "Fractions", Type: paper.MCQ})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if q.Source != paper.SourceOriginal {
		t.Errorf("source = %q, want Original", q.Source)
	}
	if len(q.Options) != 4 {
		t.Errorf("options = %v, want 4", q.Options)
	}
	if q.Options[q.CorrectIndex] != q.CorrectText {
		t.Errorf("correct text %q not at index %d", q.CorrectText, q.CorrectIndex)
	}
	if q.Marks != 1 {
		t.Errorf("marks = %d, want 1 for MCQ", q.Marks)
	}
	if !s.Used["frac-mcq-1"] {
		t.Error("sampled bank question not marked used")
	}
}

func TestOriginalSourcerExhaustion(t *testing.T) {
	s := &OriginalSourcer{Bank: loadSourcerBank(t), Used: map[string]bool{}}
	req := Request{Topic: "Fractions", Type: paper.MCQ}

	if _, err := s.Source(context.Background(), req); err != nil {
		t.Fatalf("first Source: %v", err)
	}
	_, err := s.Source(context.Background(), req)
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("second Source err = %v, want ErrNoCandidates", err)
	}
}

func TestOriginalSourcerOpenEndedMarks(t *testing.T) {
	s := &OriginalSourcer{Bank: loadSourcerBank(t), Used: map[string]bool{}}

	q, err := s.Source(context.Background(), Request{Topic: "Fractions", Type: paper.OpenEnded})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if q.Marks != 3 {
		t.Errorf("marks = %d, want bank value 3", q.Marks)
	}
	if q.Options != nil || q.CorrectIndex != -1 {
		t.Errorf("open-ended shape broken: %v, %d", q.Options, q.CorrectIndex)
	}

	q2, err := s.Source(context.Background(), Request{Topic: "Whole Numbers", Type: paper.OpenEnded})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if q2.Marks != 4 {
		t.Errorf("marks = %d, want default 4 when the bank omits them", q2.Marks)
	}
}
