package echoapi

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/prepaclassics/backend/core"
	"github.com/prepaclassics/backend/core/exercise"
	"github.com/prepaclassics/backend/core/progress"
)

type progressApi struct {
	svc      *progress.Service
	exoSvc   *exercise.Service
	validate *validator.Validate
}

func registerProgressAPI(g *echo.Group, jwt, optJWT echo.MiddlewareFunc, deps *Deps) {
	api := progressApi{
		svc:      deps.ProgressSvc,
		exoSvc:   deps.ExerciseSvc,
		validate: deps.Validate,
	}

	pg := g.Group("/progress")
	pg.GET("", api.retrieve, optJWT)
	pg.POST("/toggle", api.toggle, jwt)
}

// Handlers

// retrieve returns the caller's stored bubbles plus the derived aggregates
// over the catalog. Anonymous callers get the empty projection.
func (api *progressApi) retrieve(ctx echo.Context) error {
	rctx := ctx.Request().Context()

	exos := api.exoSvc.List(rctx)
	if idStrs := ctx.QueryParams()["exercise_id"]; len(idStrs) > 0 {
		wanted := make(map[int]bool, len(idStrs))
		for _, idStr := range idStrs {
			id, err := strconv.Atoi(idStr)
			if err != nil {
				return core.NewValidationError(nil, core.FieldError{Field: "exercise_id", Error: "must be an integer"})
			}
			wanted[id] = true
		}
		filtered := make([]exercise.Exercise, 0, len(wanted))
		for _, exo := range exos {
			if wanted[exo.ID] {
				filtered = append(filtered, exo)
			}
		}
		exos = filtered
	}

	ids := make([]int, 0, len(exos))
	for _, exo := range exos {
		ids = append(ids, exo.ID)
	}

	snap := api.svc.Load(rctx, getContextIdentity(ctx).ID, ids)

	entries := make([]EntryResponse, 0, len(snap))
	for key, status := range snap {
		entries = append(entries, EntryResponse{ExerciseID: key.ExerciseID, Index: key.Index, Status: status})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ExerciseID != entries[j].ExerciseID {
			return entries[i].ExerciseID < entries[j].ExerciseID
		}
		return entries[i].Index < entries[j].Index
	})

	return ctx.JSON(http.StatusOK, ProgressResponse{
		Entries: entries,
		Summary: progress.Summarize(exos, snap),
	})
}

func (api *progressApi) toggle(ctx echo.Context) error {
	var data ToggleRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ToggleRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	uid := getContextIdentity(ctx).ID
	status := api.svc.Toggle(rctx, uid, data.ExerciseID, data.Index)

	return ctx.JSON(http.StatusOK, ToggleResponse{
		EntryResponse: EntryResponse{
			ExerciseID: data.ExerciseID,
			Index:      data.Index,
			Status:     status,
		},
		Summary: api.svc.Summary(rctx, uid, api.exoSvc.List(rctx)),
	})
}
