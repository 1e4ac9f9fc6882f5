package exercise

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/prepaclassics/backend/core"
)

// Niveaux
const (
	NiveauSup  = "Sup"
	NiveauSpe  = "Spé"
	NiveauOral = "Oral"
)

// Exercise is one sheet of the catalog. The catalog is owned by the external
// store; this system never mutates it outside the admin importer.
type Exercise struct {
	ID            int       `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Chapter       string    `json:"chapter" db:"chapter"`
	Niveau        string    `json:"niveau" db:"niveau"`
	ExerciseCount int       `json:"exercise_count" db:"exercise_count"`
	IsPremium     bool      `json:"is_premium" db:"is_premium"`
	URLEnonce     string    `json:"url_enonce,omitempty" db:"url_enonce"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// Category is one of the seven fixed filter labels. The empty Category means
// "all" and matches every record.
type Category string

const (
	CategoryAll        Category = ""
	CategoryAlgebreSup Category = "Algèbre Sup"
	CategoryAlgebreSpe Category = "Algèbre Spé"
	CategoryAnalyseSup Category = "Analyse Sup"
	CategoryAnalyseSpe Category = "Analyse Spé"
	CategoryProbasSup  Category = "Probas Sup"
	CategoryProbasSpe  Category = "Probas Spé"
	CategoryOraux      Category = "Oraux"
)

var Categories = []Category{
	CategoryAlgebreSup,
	CategoryAlgebreSpe,
	CategoryAnalyseSup,
	CategoryAnalyseSpe,
	CategoryProbasSup,
	CategoryProbasSpe,
	CategoryOraux,
}

var categoryRules = map[Category]struct {
	chapter string
	niveau  string
}{
	CategoryAlgebreSup: {"Algèbre", NiveauSup},
	CategoryAlgebreSpe: {"Algèbre", NiveauSpe},
	CategoryAnalyseSup: {"Analyse", NiveauSup},
	CategoryAnalyseSpe: {"Analyse", NiveauSpe},
	CategoryProbasSup:  {"Probas", NiveauSup},
	CategoryProbasSpe:  {"Probas", NiveauSpe},
}

// Matches reports whether the exercise belongs to the category.
// "Oraux" selects by niveau only; the six combined labels match chapter and
// niveau exactly, with "Probabilités" treated as "Probas".
func (c Category) Matches(exo Exercise) bool {
	if c == CategoryAll {
		return true
	}
	if c == CategoryOraux {
		return exo.Niveau == NiveauOral
	}
	rule, ok := categoryRules[c]
	if !ok {
		return false
	}
	chapter := exo.Chapter
	if chapter == "Probabilités" {
		chapter = "Probas"
	}
	return chapter == rule.chapter && exo.Niveau == rule.niveau
}

// Filter returns the members of exos selected by the category. It is pure and
// safe to call on every request.
func Filter(exos []Exercise, cat Category) []Exercise {
	if cat == CategoryAll {
		return exos
	}
	res := make([]Exercise, 0, len(exos))
	for _, exo := range exos {
		if cat.Matches(exo) {
			res = append(res, exo)
		}
	}
	return res
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeNiveau folds case and diacritics: "Spé"/"SPE"/"spe" all map to
// "spe". Unknown values map to "".
func NormalizeNiveau(niveau string) string {
	folded, _, err := transform.String(foldTransformer, niveau)
	if err != nil {
		folded = niveau
	}
	folded = strings.ToLower(folded)
	switch {
	case strings.HasPrefix(folded, "sup"):
		return "sup"
	case strings.HasPrefix(folded, "spe"):
		return "spe"
	case strings.HasPrefix(folded, "oral"):
		return "oral"
	}
	return ""
}

// NiveauRank orders niveaux for display: Sup, then Spé, then Oral, others last.
func NiveauRank(niveau string) int {
	switch NormalizeNiveau(niveau) {
	case "sup":
		return 0
	case "spe":
		return 1
	case "oral":
		return 2
	}
	return 3
}

// Sort orders exercises deterministically: niveau rank, then chapter, then title.
func Sort(exos []Exercise) {
	sort.SliceStable(exos, func(i, j int) bool {
		ri, rj := NiveauRank(exos[i].Niveau), NiveauRank(exos[j].Niveau)
		if ri != rj {
			return ri < rj
		}
		if exos[i].Chapter != exos[j].Chapter {
			return exos[i].Chapter < exos[j].Chapter
		}
		return exos[i].Title < exos[j].Title
	})
}

// NewExercise contains information needed to create or update a catalog entry.
type NewExercise struct {
	Title         string `json:"title" validate:"required"`
	Chapter       string `json:"chapter" validate:"required"`
	Niveau        string `json:"niveau" validate:"required,niveau"`
	ExerciseCount int    `json:"exercise_count" validate:"gte=0"`
	IsPremium     bool   `json:"is_premium"`
	URLEnonce     string `json:"url_enonce" validate:"omitempty,url"`
}

func (ne *NewExercise) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	ne.Chapter = core.CleanString(ne.Chapter)
	ne.Niveau = core.CleanString(ne.Niveau)
	ne.URLEnonce = core.CleanString(ne.URLEnonce)
	return validate.Struct(ne)
}
