package progress

import (
	"testing"

	"github.com/prepaclassics/backend/core/exercise"
)

func TestSummarize(t *testing.T) {
	exos := []exercise.Exercise{
		{ID: 1, Chapter: "Algèbre", Niveau: exercise.NiveauSup, ExerciseCount: 10},
		{ID: 2, Chapter: "Algèbre", Niveau: exercise.NiveauSpe, ExerciseCount: 5},
		{ID: 3, Chapter: "Analyse", Niveau: exercise.NiveauSup, ExerciseCount: 4},
		{ID: 4, Chapter: "", Niveau: exercise.NiveauOral, ExerciseCount: 3},
	}
	entries := map[Key]Status{
		{ExerciseID: 1, Index: 1}:  StatusDone,
		{ExerciseID: 1, Index: 2}:  StatusDone,
		{ExerciseID: 1, Index: 3}:  StatusReview, // review does not count as done
		{ExerciseID: 2, Index: 5}:  StatusDone,
		{ExerciseID: 2, Index: 9}:  StatusDone, // out of range, ignored
		{ExerciseID: 4, Index: 1}:  StatusDone,
		{ExerciseID: 99, Index: 1}: StatusDone, // not in the visible catalog
	}

	sum := Summarize(exos, entries)

	if want := (Totals{Bubbles: 22, Done: 4}); sum.Overall != want {
		t.Errorf("Overall = %+v, want %+v", sum.Overall, want)
	}

	wantChapters := map[string]Totals{
		"Algèbre": {Bubbles: 15, Done: 3},
		"Analyse": {Bubbles: 4},
		"Autre":   {Bubbles: 3, Done: 1},
	}
	for chapter, want := range wantChapters {
		if got := sum.ByChapter[chapter]; got != want {
			t.Errorf("ByChapter[%s] = %+v, want %+v", chapter, got, want)
		}
	}

	wantLevels := map[string]LevelTotals{
		"Algèbre": {Sup: Totals{Bubbles: 10, Done: 2}, Spe: Totals{Bubbles: 5, Done: 1}},
		"Analyse": {Sup: Totals{Bubbles: 4}},
		"Autre":   {}, // oral bubbles only count in chapter totals
	}
	for chapter, want := range wantLevels {
		if got := sum.ByChapterLevel[chapter]; got != want {
			t.Errorf("ByChapterLevel[%s] = %+v, want %+v", chapter, got, want)
		}
	}

	// done never exceeds bubbles in any bucket
	for chapter, totals := range sum.ByChapter {
		if totals.Done > totals.Bubbles {
			t.Errorf("ByChapter[%s] done %d > bubbles %d", chapter, totals.Done, totals.Bubbles)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil, nil)
	if sum.Overall != (Totals{}) {
		t.Errorf("Overall = %+v, want zero", sum.Overall)
	}
	if len(sum.ByChapter) != 0 || len(sum.ByChapterLevel) != 0 {
		t.Errorf("empty catalog produced buckets: %+v", sum)
	}
}

func TestTotalsPercent(t *testing.T) {
	tests := []struct {
		totals Totals
		want   int
	}{
		{Totals{}, 0},
		{Totals{Bubbles: 10, Done: 0}, 0},
		{Totals{Bubbles: 10, Done: 5}, 50},
		{Totals{Bubbles: 3, Done: 1}, 33},
		{Totals{Bubbles: 10, Done: 10}, 100},
	}
	for _, tt := range tests {
		if got := tt.totals.Percent(); got != tt.want {
			t.Errorf("Percent(%+v) = %d, want %d", tt.totals, got, tt.want)
		}
	}
}
