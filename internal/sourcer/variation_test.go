package sourcer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tutiful/papergen/internal/paper"
)

func TestPerturbOneNumberChangesText(t *testing.T) {
	base := "He had 12 apples and gave away 12."
	out, oldNum, newNum := perturbOneNumber(base)
	if oldNum != "12" {
		t.Fatalf("oldNum = %q, want 12", oldNum)
	}
	if newNum == oldNum {
		t.Fatal("perturbation produced the same number")
	}
	if strings.Contains(out, "12") {
		t.Errorf("old quantity survives in %q; all occurrences should move together", out)
	}
}

func TestPerturbOneNumberSkipsFractions(t *testing.T) {
	for range 20 {
		out, oldNum, _ := perturbOneNumber("What is 3/4 of 80?")
		if oldNum != "80" {
			t.Fatalf("perturbed %q, want the 80 only", oldNum)
		}
		if !strings.Contains(out, "3/4") {
			t.Fatalf("fraction mangled: %q", out)
		}
	}
}

func TestPerturbOneNumberNothingUsable(t *testing.T) {
	out, oldNum, _ := perturbOneNumber("Express 1/2 as a percentage.")
	if oldNum != "" {
		t.Fatalf("oldNum = %q, want none", oldNum)
	}
	if out != "Express 1/2 as a percentage." {
		t.Errorf("text changed without a perturbable number: %q", out)
	}
}

func TestReplaceNumberTokenLeavesLongerNumbersAlone(t *testing.T) {
	got := replaceNumberToken("He had 12 marbles in a box of 120 and lost 12 of them.", "12", "15")
	want := "He had 15 marbles in a box of 120 and lost 15 of them."
	if got != want {
		t.Errorf("replaceNumberToken = %q, want %q", got, want)
	}
}

func TestReplaceNumberTokenLeavesFractionsAlone(t *testing.T) {
	got := replaceNumberToken("She ate 1/2 of the 2 cakes.", "2", "5")
	want := "She ate 1/2 of the 5 cakes."
	if got != want {
		t.Errorf("replaceNumberToken = %q, want %q", got, want)
	}
}

func TestPerturbValueStaysPositive(t *testing.T) {
	for _, v := range []float64{1, 3, 6, 10, 25, 60, 100, 101, 500} {
		for range 50 {
			if nv := perturbValue(v); nv <= 0 {
				t.Fatalf("perturbValue(%v) = %v", v, nv)
			}
		}
	}
}

func TestRenderNumber(t *testing.T) {
	cases := []struct {
		v    float64
		like string
		want string
	}{
		{45, "60", "45"},
		{3.75, "2.50", "3.75"},
		{7.5, "15", "7.5"},
		{30, "40.0", "30.0"},
	}
	for _, c := range cases {
		if got := renderNumber(c.v, c.like); got != c.want {
			t.Errorf("renderNumber(%v, %q) = %q, want %q", c.v, c.like, got, c.want)
		}
	}
}

func TestSwapOnePhraseFirstMatchOnly(t *testing.T) {
	out := swapOnePhrase("Mr. Lee gave his students 5 books.")
	if !strings.Contains(out, "Mrs Tan") {
		t.Errorf("honorific not swapped: %q", out)
	}
	if !strings.Contains(out, "students") {
		t.Errorf("second phrase swapped too: %q", out)
	}
}

func TestVariationSourcerOpenEnded(t *testing.T) {
	s := &VariationSourcer{Bank: loadSourcerBank(t), Used: map[string]bool{}}

	q, err := s.Source(context.Background(), Request{Topic: "Fractions", Type: paper.OpenEnded})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if q.Source != paper.SourceVariation {
		t.Errorf("source = %q, want Variation", q.Source)
	}
	if q.Options != nil || q.CorrectIndex != -1 {
		t.Errorf("open-ended shape broken: %v, %d", q.Options, q.CorrectIndex)
	}
	if q.Marks < 2 || q.Marks > 4 {
		t.Errorf("marks = %d, want 2 to 4", q.Marks)
	}
	if !strings.Contains(q.Text, "simplest form") {
		t.Errorf("complexity phrase missing: %q", q.Text)
	}
	if !s.Used["frac-open-1"] {
		t.Error("base question not marked used")
	}
}

func TestVariationSourcerMCQ(t *testing.T) {
	s := &VariationSourcer{Bank: loadSourcerBank(t), Used: map[string]bool{}}

	q, err := s.Source(context.Background(), Request{Topic: "Fractions", Type: paper.MCQ})
	if err != nil {
		t.Fatalf("Source: %v", err)
	}
	if len(q.Options) != 4 {
		t.Fatalf("options = %v, want 4", q.Options)
	}
	if q.CorrectIndex < 0 || q.CorrectIndex > 3 {
		t.Fatalf("index = %d", q.CorrectIndex)
	}
	if q.Options[q.CorrectIndex] != q.CorrectText {
		t.Errorf("correct text %q not at index %d", q.CorrectText, q.CorrectIndex)
	}
	if q.Marks != 1 {
		t.Errorf("marks = %d, want 1", q.Marks)
	}
}

func TestVariationSourcerExhaustion(t *testing.T) {
	s := &VariationSourcer{Bank: loadSourcerBank(t), Used: map[string]bool{}}
	req := Request{Topic: "Fractions", Type: paper.OpenEnded}

	if _, err := s.Source(context.Background(), req); err != nil {
		t.Fatalf("first Source: %v", err)
	}
	_, err := s.Source(context.Background(), req)
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("second Source err = %v, want ErrNoCandidates", err)
	}
}
