package echoapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"github.com/prepaclassics/backend/core"
	"github.com/prepaclassics/backend/core/exercise"
	"github.com/prepaclassics/backend/core/user"
)

type exerciseApi struct {
	svc    *exercise.Service
	usrSvc *user.Service
}

func registerExerciseAPI(g *echo.Group, optJWT echo.MiddlewareFunc, deps *Deps) {
	api := exerciseApi{
		svc:    deps.ExerciseSvc,
		usrSvc: deps.UserSvc,
	}

	eg := g.Group("/exercises", optJWT)
	eg.GET("", api.list)
}

// Handlers

func (api *exerciseApi) list(ctx echo.Context) error {
	rctx := ctx.Request().Context()

	exos := api.svc.List(rctx)
	exos = exercise.Filter(exos, exercise.Category(ctx.QueryParam(categoryParam)))
	exercise.Sort(exos)

	var ord Ordering
	ord.Bind(ctx)
	applyOrderings(exos, ord.Orderings)

	premium := api.usrSvc.IsPremium(rctx, getContextIdentity(ctx).Email)

	res := make([]ExerciseResponse, 0, len(exos))
	for _, exo := range exos {
		res = append(res, newExerciseResponse(exo, premium))
	}
	return ctx.JSON(http.StatusOK, res)
}

// applyOrderings re-sorts the default ordering by the caller's fields, least
// significant first so the first requested field wins. Unknown fields are
// ignored.
func applyOrderings(exos []exercise.Exercise, orderings []core.DBOrdering) {
	for i := len(orderings) - 1; i >= 0; i-- {
		ord := orderings[i]
		less := exerciseLessFunc(exos, ord.Field)
		if less == nil {
			continue
		}
		if ord.Ascending {
			sort.SliceStable(exos, less)
		} else {
			sort.SliceStable(exos, func(i, j int) bool { return less(j, i) })
		}
	}
}

func exerciseLessFunc(exos []exercise.Exercise, field string) func(i, j int) bool {
	switch field {
	case "title":
		return func(i, j int) bool { return exos[i].Title < exos[j].Title }
	case "chapter":
		return func(i, j int) bool { return exos[i].Chapter < exos[j].Chapter }
	case "niveau":
		return func(i, j int) bool {
			return exercise.NiveauRank(exos[i].Niveau) < exercise.NiveauRank(exos[j].Niveau)
		}
	case "exercise_count":
		return func(i, j int) bool { return exos[i].ExerciseCount < exos[j].ExerciseCount }
	}
	return nil
}
