package progress

import (
	"github.com/prepaclassics/backend/core/exercise"
)

type (
	// Totals is one progress bucket: how many bubbles exist and how many are done.
	Totals struct {
		Bubbles int `json:"bubbles"`
		Done    int `json:"done"`
	}

	// LevelTotals splits a chapter bucket into the Sup and Spé years.
	LevelTotals struct {
		Sup Totals `json:"sup"`
		Spe Totals `json:"spe"`
	}

	// Summary holds every aggregate view derived from a catalog and a
	// progress projection.
	Summary struct {
		Overall        Totals                 `json:"overall"`
		ByChapter      map[string]Totals      `json:"by_chapter"`
		ByChapterLevel map[string]LevelTotals `json:"by_chapter_level"`
	}
)

// Percent returns the completion percentage, 0 when the bucket is empty.
func (t Totals) Percent() int {
	if t.Bubbles == 0 {
		return 0
	}
	return 100 * t.Done / t.Bubbles
}

// Summarize derives every aggregate from the visible catalog and the current
// projection. Pure: no I/O, safe to recompute on every render. Entries whose
// index falls outside 1..exercise_count are ignored, so done never exceeds
// bubbles in any bucket.
func Summarize(exos []exercise.Exercise, entries map[Key]Status) Summary {
	sum := Summary{
		ByChapter:      make(map[string]Totals),
		ByChapterLevel: make(map[string]LevelTotals),
	}

	for _, exo := range exos {
		done := 0
		for idx := 1; idx <= exo.ExerciseCount; idx++ {
			if entries[Key{ExerciseID: exo.ID, Index: idx}] == StatusDone {
				done++
			}
		}

		sum.Overall.Bubbles += exo.ExerciseCount
		sum.Overall.Done += done

		chapter := exo.Chapter
		if chapter == "" {
			chapter = "Autre"
		}
		byCh := sum.ByChapter[chapter]
		byCh.Bubbles += exo.ExerciseCount
		byCh.Done += done
		sum.ByChapter[chapter] = byCh

		levels := sum.ByChapterLevel[chapter]
		switch exercise.NormalizeNiveau(exo.Niveau) {
		case "sup":
			levels.Sup.Bubbles += exo.ExerciseCount
			levels.Sup.Done += done
		case "spe":
			levels.Spe.Bubbles += exo.ExerciseCount
			levels.Spe.Done += done
		default:
			// Oral and unknown niveaux only count in the chapter totals.
		}
		sum.ByChapterLevel[chapter] = levels
	}
	return sum
}
