package mcqrepair

import (
	"strings"
	"testing"
)

func TestRepair_CleansLabelsAndPlaceholders(t *testing.T) {
	opts, idx, err := Repair(
		[]string{"1.", "42", "Option 2", "50 cm"},
		"42 cm",
		"A ribbon is cut into pieces. How long is each piece in cm?",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opts) != 4 {
		t.Fatalf("option count = %d, want 4: %v", len(opts), opts)
	}
	if opts[idx] != "42 cm" {
		t.Errorf("opts[%d] = %q, want %q", idx, opts[idx], "42 cm")
	}
	for _, o := range opts {
		if o == "" || strings.HasPrefix(o, "Option") || o == "1." {
			t.Errorf("junk option survived: %q", o)
		}
		if !strings.HasSuffix(o, "cm") {
			t.Errorf("option %q missing unit", o)
		}
	}
}

func TestRepair_StripsLetterLabels(t *testing.T) {
	opts, idx, err := Repair(
		[]string{"A. 12", "B. 14", "C. 16", "D. 18"},
		"14",
		"How many stickers does each pupil get?",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, o := range opts {
		if strings.Contains(o, ".") && !strings.ContainsAny(o, "0123456789.") {
			t.Errorf("label survived: %q", o)
		}
		if strings.HasPrefix(o, "A") || strings.HasPrefix(o, "B") {
			t.Errorf("label survived: %q", o)
		}
	}
	if opts[idx] != "14" {
		t.Errorf("correct option = %q, want 14", opts[idx])
	}
}

func TestRepair_KeepsDecimalValues(t *testing.T) {
	opts, idx, err := Repair(
		[]string{"1.5", "2.5", "3.5", "4.5"},
		"2.5",
		"How many litres of juice are in each jug?",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, o := range opts {
		if strings.Contains(o, "1.5") {
			found = true
		}
	}
	if !found {
		t.Errorf("decimal value 1.5 mangled by label stripping: %v", opts)
	}
	if !strings.Contains(opts[idx], "2.5") {
		t.Errorf("correct option = %q, want to contain 2.5", opts[idx])
	}
}

func TestRepair_InsertsMissingCorrectAnswer(t *testing.T) {
	opts, idx, err := Repair(
		[]string{"10", "20", "30", "40"},
		"25",
		"What is the total?",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opts) != 4 {
		t.Fatalf("option count = %d, want 4", len(opts))
	}
	if opts[idx] != "25" {
		t.Errorf("correct option = %q, want 25", opts[idx])
	}
}

func TestRepair_DeduplicatesEqualValues(t *testing.T) {
	opts, _, err := Repair(
		[]string{"12", "12", "15", "18"},
		"15",
		"How many marbles are left?",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := map[string]int{}
	for _, o := range opts {
		seen[o]++
	}
	for o, n := range seen {
		if n > 1 {
			t.Errorf("duplicate option %q appears %d times", o, n)
		}
	}
}

func TestRepair_FailsWithoutRecoverableCorrect(t *testing.T) {
	_, _, err := Repair(
		[]string{"Option 1", "Option 2", "Option 3", "Option 4"},
		"",
		"What is the answer?",
	)
	if err == nil {
		t.Fatal("expected error for empty correct answer")
	}
}

func TestRepair_NonNumericCorrectCannotFill(t *testing.T) {
	// A non-numeric correct answer with no usable distractor source
	// must fail rather than invent options.
	_, _, err := Repair(
		[]string{"Option 1", "Option 2"},
		"an isosceles triangle",
		"What kind of triangle is shown?",
	)
	if err == nil {
		t.Fatal("expected error when options cannot be refilled")
	}
}

func TestRepair_UnitInferredFromQuestion(t *testing.T) {
	opts, _, err := Repair(
		[]string{"120", "150", "180"},
		"150",
		"A tank holds water measured in litres. How many litres remain?",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, o := range opts {
		if !strings.Contains(o, "litres") {
			t.Errorf("option %q missing inferred unit", o)
		}
	}
}
