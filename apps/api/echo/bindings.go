package echoapi

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/prepaclassics/backend/core"
	"github.com/prepaclassics/backend/core/exercise"
	"github.com/prepaclassics/backend/core/progress"
)

var (
	orderingParam = "ordering"
	categoryParam = "category"
)

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// Requests

type ToggleRequest struct {
	ExerciseID int `json:"exercise_id" validate:"required"`
	Index      int `json:"index" validate:"required,gte=1"`
}

func (tr *ToggleRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(tr)
}

type CheckoutRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

func (cr *CheckoutRequest) Validate(validate *validator.Validate) error {
	cr.Email = core.CleanString(cr.Email, true /* lower */)
	return validate.Struct(cr)
}

// Responses

// ExerciseResponse is a catalog entry as seen by one caller: premium sheets
// are flagged locked and their document link withheld until the caller's
// entitlement allows it.
type ExerciseResponse struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Chapter       string `json:"chapter"`
	Niveau        string `json:"niveau"`
	ExerciseCount int    `json:"exercise_count"`
	IsPremium     bool   `json:"is_premium"`
	Locked        bool   `json:"locked"`
	URLEnonce     string `json:"url_enonce,omitempty"`
}

func newExerciseResponse(exo exercise.Exercise, premium bool) ExerciseResponse {
	res := ExerciseResponse{
		ID:            exo.ID,
		Title:         exo.Title,
		Chapter:       exo.Chapter,
		Niveau:        exo.Niveau,
		ExerciseCount: exo.ExerciseCount,
		IsPremium:     exo.IsPremium,
		Locked:        exo.IsPremium && !premium,
	}
	if !res.Locked {
		res.URLEnonce = exo.URLEnonce
	}
	return res
}

type EntryResponse struct {
	ExerciseID int             `json:"exercise_id"`
	Index      int             `json:"index"`
	Status     progress.Status `json:"status"`
}

// ToggleResponse carries the bubble's new status plus the refreshed
// aggregates, so one round-trip updates both the bubble and its sibling
// progress views.
type ToggleResponse struct {
	EntryResponse
	Summary progress.Summary `json:"summary"`
}

type ProgressResponse struct {
	Entries []EntryResponse  `json:"entries"`
	Summary progress.Summary `json:"summary"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}
