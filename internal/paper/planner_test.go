package paper

import "testing"

func TestBuildPlan_SeventyThirtySplit(t *testing.T) {
	dist := map[string]int{"Fractions": 10, "Algebra": 10}
	plan := BuildPlan(dist, 20)

	if len(plan) != 20 {
		t.Fatalf("plan length = %d, want 20", len(plan))
	}

	counts := map[string]map[QuestionType]int{}
	for _, s := range plan {
		if counts[s.Topic] == nil {
			counts[s.Topic] = map[QuestionType]int{}
		}
		counts[s.Topic][s.Type]++
	}

	for _, topic := range []string{"Fractions", "Algebra"} {
		if got := counts[topic][MCQ]; got != 7 {
			t.Errorf("%s MCQ slots = %d, want 7", topic, got)
		}
		if got := counts[topic][OpenEnded]; got != 3 {
			t.Errorf("%s open-ended slots = %d, want 3", topic, got)
		}
	}
}

func TestBuildPlan_MCQFirst(t *testing.T) {
	plan := BuildPlan(map[string]int{"Fractions": 6, "Ratio": 4}, 10)

	seenOpen := false
	for i, s := range plan {
		if s.Type == OpenEnded {
			seenOpen = true
		} else if seenOpen {
			t.Fatalf("MCQ slot at position %d after an open-ended slot", i)
		}
	}
}

func TestBuildPlan_Truncates(t *testing.T) {
	plan := BuildPlan(map[string]int{"Fractions": 10}, 5)
	if len(plan) != 5 {
		t.Fatalf("plan length = %d, want 5", len(plan))
	}
}

func TestBuildPlan_PadsToTotal(t *testing.T) {
	plan := BuildPlan(map[string]int{"Fractions": 2, "Algebra": 2}, 10)
	if len(plan) != 10 {
		t.Fatalf("plan length = %d, want 10", len(plan))
	}
	for _, s := range plan {
		if s.Topic != "Fractions" && s.Topic != "Algebra" {
			t.Errorf("pad slot used unknown topic %q", s.Topic)
		}
	}
}

func TestBuildPlan_SmallCountsAllOpenEnded(t *testing.T) {
	// int(1 * 0.7) == 0, so single-question topics plan as open-ended.
	plan := BuildPlan(map[string]int{"Whole Numbers": 1}, 1)
	if len(plan) != 1 || plan[0].Type != OpenEnded {
		t.Fatalf("plan = %+v, want one open-ended slot", plan)
	}
}

func TestCanonicalTopic(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"fraction", "Fractions", true},
		{"Fractions", "Fractions", true},
		{"%", "Percentage", true},
		{"percentages", "Percentage", true},
		{"volume of cube and cuboid", "Volume of Cube and Cuboid", true},
		{"circles and circumference", "Area and Circumference of Circle", true},
		{"angles", "Geometry", true},
		{"history", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := CanonicalTopic(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("CanonicalTopic(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestCanonicalizeDistribution(t *testing.T) {
	resolved, dropped := CanonicalizeDistribution(map[string]int{
		"fraction":  4,
		"Fractions": 2,
		"history":   3,
		"algebra":   1,
		"zeroed":    0,
	})

	if resolved["Fractions"] != 6 {
		t.Errorf("Fractions = %d, want merged 6", resolved["Fractions"])
	}
	if resolved["Algebra"] != 1 {
		t.Errorf("Algebra = %d, want 1", resolved["Algebra"])
	}
	if len(dropped) != 1 || dropped[0] != "history" {
		t.Errorf("dropped = %v, want [history]", dropped)
	}
}

func TestDefaultDistribution_TotalsThirty(t *testing.T) {
	total := 0
	for _, c := range DefaultDistribution() {
		total += c
	}
	if total != 30 {
		t.Errorf("default distribution total = %d, want 30", total)
	}
}
