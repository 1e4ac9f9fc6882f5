package exercise

import (
	"testing"

	"github.com/prepaclassics/backend/core"
)

func TestCategoryMatches(t *testing.T) {
	algSup := Exercise{Chapter: "Algèbre", Niveau: NiveauSup}
	algSpe := Exercise{Chapter: "Algèbre", Niveau: NiveauSpe}
	probSpe := Exercise{Chapter: "Probabilités", Niveau: NiveauSpe}
	oral := Exercise{Chapter: "Analyse", Niveau: NiveauOral}

	tests := []struct {
		name string
		cat  Category
		exo  Exercise
		want bool
	}{
		{name: "empty category matches everything", cat: CategoryAll, exo: algSpe, want: true},
		{name: "chapter and niveau both match", cat: CategoryAlgebreSup, exo: algSup, want: true},
		{name: "niveau mismatch", cat: CategoryAlgebreSup, exo: algSpe},
		{name: "chapter mismatch", cat: CategoryAnalyseSup, exo: algSup},
		{name: "Probabilités counts as Probas", cat: CategoryProbasSpe, exo: probSpe, want: true},
		{name: "Oraux selects by niveau only", cat: CategoryOraux, exo: oral, want: true},
		{name: "Oraux rejects non-oral", cat: CategoryOraux, exo: algSup},
		{name: "unknown category matches nothing", cat: Category("Géométrie"), exo: algSup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cat.Matches(tt.exo); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	exos := []Exercise{
		{ID: 1, Chapter: "Algèbre", Niveau: NiveauSup},
		{ID: 2, Chapter: "Algèbre", Niveau: NiveauSpe},
		{ID: 3, Chapter: "Probabilités", Niveau: NiveauSpe},
		{ID: 4, Chapter: "Analyse", Niveau: NiveauOral},
	}

	got := Filter(exos, CategoryAlgebreSpe)
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("Filter(Algèbre Spé) = %v, want exercise 2 only", got)
	}

	if got = Filter(exos, CategoryAll); len(got) != len(exos) {
		t.Errorf("Filter(all) dropped entries: %d, want %d", len(got), len(exos))
	}

	if got = Filter(exos, CategoryAnalyseSup); len(got) != 0 {
		t.Errorf("Filter(Analyse Sup) = %v, want empty", got)
	}
}

func TestNormalizeNiveau(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sup", "sup"},
		{"SUP", "sup"},
		{"Spé", "spe"},
		{"SPE", "spe"},
		{"spé", "spe"},
		{"Oral", "oral"},
		{"ORAL", "oral"},
		{"", ""},
		{"L3", ""},
	}
	for _, tt := range tests {
		if got := NormalizeNiveau(tt.in); got != tt.want {
			t.Errorf("NormalizeNiveau(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSort(t *testing.T) {
	exos := []Exercise{
		{ID: 1, Title: "B", Chapter: "Analyse", Niveau: NiveauOral},
		{ID: 2, Title: "C", Chapter: "Algèbre", Niveau: NiveauSpe},
		{ID: 3, Title: "A", Chapter: "Analyse", Niveau: NiveauSup},
		{ID: 4, Title: "B", Chapter: "Algèbre", Niveau: NiveauSup},
		{ID: 5, Title: "A", Chapter: "Algèbre", Niveau: NiveauSup},
	}
	Sort(exos)

	wantIDs := []int{5, 4, 3, 2, 1} // Sup before Spé before Oral; chapter then title within
	for i, want := range wantIDs {
		if exos[i].ID != want {
			t.Fatalf("Sort() order = %v, want IDs %v", exos, wantIDs)
		}
	}
}

func TestNewExerciseValidate(t *testing.T) {
	validate, _ := core.NewValidator()

	tests := []struct {
		name    string
		ne      NewExercise
		wantErr bool
	}{
		{
			name: "valid",
			ne:   NewExercise{Title: "Matrices", Chapter: "Algèbre", Niveau: NiveauSup, ExerciseCount: 10},
		},
		{
			name: "valid with url",
			ne: NewExercise{
				Title: "Matrices", Chapter: "Algèbre", Niveau: NiveauSpe,
				ExerciseCount: 3, URLEnonce: "https://docs.test/matrices.pdf",
			},
		},
		{name: "missing title", ne: NewExercise{Chapter: "Algèbre", Niveau: NiveauSup}, wantErr: true},
		{name: "missing chapter", ne: NewExercise{Title: "Matrices", Niveau: NiveauSup}, wantErr: true},
		{name: "unknown niveau", ne: NewExercise{Title: "Matrices", Chapter: "Algèbre", Niveau: "L1"}, wantErr: true},
		{
			name:    "negative count",
			ne:      NewExercise{Title: "Matrices", Chapter: "Algèbre", Niveau: NiveauSup, ExerciseCount: -1},
			wantErr: true,
		},
		{
			name:    "bad url",
			ne:      NewExercise{Title: "Matrices", Chapter: "Algèbre", Niveau: NiveauSup, URLEnonce: "lol"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.ne.Validate(validate); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
