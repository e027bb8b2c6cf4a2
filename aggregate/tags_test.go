package aggregate

import (
	"testing"

	"github.com/developersajeeb/code-stack-server/models"
)

func questionsWithTags(tags ...[]string) []models.Question {
	out := make([]models.Question, 0, len(tags))
	for _, t := range tags {
		out = append(out, models.Question{Selected: t})
	}
	return out
}

func TestTagHistogramNormalizesAndKeepsFirstSeenOrder(t *testing.T) {
	qs := questionsWithTags(
		[]string{"Go", " react "},
		[]string{"go", "JavaScript"},
		nil,
		[]string{"REACT", "go", "  "},
	)

	got := TagHistogram(qs)
	want := []TagCount{{"go", 3}, {"react", 2}, {"javascript", 1}, {"", 1}}
	if len(got) != len(want) {
		t.Fatalf("expected %d tags, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestTagHistogramTotalsMatchTagCount(t *testing.T) {
	qs := questionsWithTags(
		[]string{"a", "b", "c"},
		[]string{"A", "b"},
		[]string{"d"},
		[]string{},
		[]string{"go", "  ", ""},
	)
	tagged := 0
	for _, q := range qs {
		tagged += len(q.Selected)
	}
	total := 0
	for _, tc := range TagHistogram(qs) {
		total += tc.Count
	}
	if total != tagged {
		t.Fatalf("expected total %d, got %d", tagged, total)
	}
}

func TestTopTags(t *testing.T) {
	qs := questionsWithTags(
		[]string{"a", "b", "c", "d", "e", "f", "g"},
		[]string{"g", "f"},
		[]string{"g", "c"},
	)

	top := TopTags(qs, 5)
	if len(top) != 5 {
		t.Fatalf("expected 5 tags, got %d", len(top))
	}
	want := []string{"g", "c", "f", "a", "b"}
	for i, name := range want {
		if top[i].Name != name {
			t.Fatalf("index %d: expected %s, got %v", i, name, top)
		}
	}

	full := map[string]int{}
	for _, tc := range TagHistogram(qs) {
		full[tc.Name] = tc.Count
	}
	for i, tc := range top {
		if full[tc.Name] != tc.Count {
			t.Fatalf("%s not in histogram with count %d", tc.Name, tc.Count)
		}
		if i > 0 && top[i-1].Count < tc.Count {
			t.Fatalf("not sorted: %v", top)
		}
	}
}

func TestTopTagsShortInput(t *testing.T) {
	if got := TopTags(nil, 5); len(got) != 0 {
		t.Fatalf("expected empty, got %v", got)
	}
	got := TopTags(questionsWithTags([]string{"x"}), 5)
	if len(got) != 1 || got[0].Name != "x" {
		t.Fatalf("unexpected %v", got)
	}
}
