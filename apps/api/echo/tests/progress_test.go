package tests

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/pkg/errors"

	. "github.com/prepaclassics/backend/apps/api/echo"
	"github.com/prepaclassics/backend/core/exercise"
	"github.com/prepaclassics/backend/core/progress"
)

func Test_progressApi_toggle(t *testing.T) {
	app, env := setup(t)

	matrices := createExercise(t, env, "Matrices inversibles", "Algèbre", exercise.NiveauSup, 10, false)
	usr := createUser(t, env, "student@test.cd", false)
	token := getToken(t, usr)

	toggleBody := marchallObj(t, ToggleRequest{ExerciseID: matrices.ID, Index: 3})
	entry := func(status progress.Status, done int) []byte {
		return marchallObj(t, ToggleResponse{
			EntryResponse: EntryResponse{ExerciseID: matrices.ID, Index: 3, Status: status},
			Summary: progress.Summary{
				Overall: progress.Totals{Bubbles: 10, Done: done},
				ByChapter: map[string]progress.Totals{
					"Algèbre": {Bubbles: 10, Done: done},
				},
				ByChapterLevel: map[string]progress.LevelTotals{
					"Algèbre": {Sup: progress.Totals{Bubbles: 10, Done: done}},
				},
			},
		})
	}

	tests := []httpTest{
		{
			name:     "Anonymous toggle is rejected",
			method:   http.MethodPost,
			path:     "/v1/progress/toggle",
			body:     toggleBody,
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "Missing exercise_id",
			method:   http.MethodPost,
			path:     "/v1/progress/toggle",
			body:     marchallObj(t, ToggleRequest{Index: 1}),
			token:    token,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "Missing index",
			method:   http.MethodPost,
			path:     "/v1/progress/toggle",
			body:     marchallObj(t, ToggleRequest{ExerciseID: matrices.ID}),
			token:    token,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "First toggle marks done",
			method:   http.MethodPost,
			path:     "/v1/progress/toggle",
			body:     toggleBody,
			token:    token,
			wantCode: http.StatusOK,
			wantData: entry(progress.StatusDone, 1),
		},
		{
			name:     "Second toggle marks review",
			method:   http.MethodPost,
			path:     "/v1/progress/toggle",
			body:     toggleBody,
			token:    token,
			wantCode: http.StatusOK,
			wantData: entry(progress.StatusReview, 0),
		},
		{
			name:     "Third toggle comes back to todo",
			method:   http.MethodPost,
			path:     "/v1/progress/toggle",
			body:     toggleBody,
			token:    token,
			wantCode: http.StatusOK,
			wantData: entry(progress.StatusTodo, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Persistence failure rolls the toggle back", func(t *testing.T) {
		env.progRepo.FailWrites = errors.New("store down")
		defer func() { env.progRepo.FailWrites = nil }()

		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: entry(progress.StatusTodo, 0), // pre-toggle value
		}
		req, rec := newAuthRequest(http.MethodPost, "/v1/progress/toggle", token, toggleBody)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_progressApi_retrieve(t *testing.T) {
	app, env := setup(t)

	matrices := createExercise(t, env, "Matrices inversibles", "Algèbre", exercise.NiveauSup, 10, false)
	suites := createExercise(t, env, "Suites numériques", "Analyse", exercise.NiveauSup, 4, false)
	usr := createUser(t, env, "student@test.cd", false)
	token := getToken(t, usr)

	// two bubbles done on matrices, one in review on suites
	for _, key := range []progress.Key{
		{ExerciseID: matrices.ID, Index: 1},
		{ExerciseID: matrices.ID, Index: 2},
	} {
		if status := env.progSvc.Toggle(testCtx(), usr.ID, key.ExerciseID, key.Index); status != progress.StatusDone {
			t.Fatalf("seeding toggle: got %q, want %q", status, progress.StatusDone)
		}
	}
	env.progSvc.Toggle(testCtx(), usr.ID, suites.ID, 1)
	env.progSvc.Toggle(testCtx(), usr.ID, suites.ID, 1) // done -> review

	emptySummary := progress.Summary{
		Overall: progress.Totals{Bubbles: 14},
		ByChapter: map[string]progress.Totals{
			"Algèbre": {Bubbles: 10},
			"Analyse": {Bubbles: 4},
		},
		ByChapterLevel: map[string]progress.LevelTotals{
			"Algèbre": {Sup: progress.Totals{Bubbles: 10}},
			"Analyse": {Sup: progress.Totals{Bubbles: 4}},
		},
	}
	usrSummary := progress.Summary{
		Overall: progress.Totals{Bubbles: 14, Done: 2},
		ByChapter: map[string]progress.Totals{
			"Algèbre": {Bubbles: 10, Done: 2},
			"Analyse": {Bubbles: 4},
		},
		ByChapterLevel: map[string]progress.LevelTotals{
			"Algèbre": {Sup: progress.Totals{Bubbles: 10, Done: 2}},
			"Analyse": {Sup: progress.Totals{Bubbles: 4}},
		},
	}

	tests := []httpTest{
		{
			name:     "Anonymous caller gets the empty projection",
			method:   http.MethodGet,
			path:     "/v1/progress",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, ProgressResponse{Entries: []EntryResponse{}, Summary: emptySummary}),
		},
		{
			name:     "Stored bubbles and aggregates",
			method:   http.MethodGet,
			path:     "/v1/progress",
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, ProgressResponse{
				Entries: []EntryResponse{
					{ExerciseID: matrices.ID, Index: 1, Status: progress.StatusDone},
					{ExerciseID: matrices.ID, Index: 2, Status: progress.StatusDone},
					{ExerciseID: suites.ID, Index: 1, Status: progress.StatusReview},
				},
				Summary: usrSummary,
			}),
		},
		{
			name:     "Filtered by exercise",
			method:   http.MethodGet,
			path:     "/v1/progress?exercise_id=" + strconv.Itoa(suites.ID),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, ProgressResponse{
				Entries: []EntryResponse{
					{ExerciseID: suites.ID, Index: 1, Status: progress.StatusReview},
				},
				Summary: progress.Summary{
					Overall: progress.Totals{Bubbles: 4},
					ByChapter: map[string]progress.Totals{
						"Analyse": {Bubbles: 4},
					},
					ByChapterLevel: map[string]progress.LevelTotals{
						"Analyse": {Sup: progress.Totals{Bubbles: 4}},
					},
				},
			}),
		},
		{
			name:     "Repeated exercise_id filters cumulate",
			method:   http.MethodGet,
			path:     "/v1/progress?exercise_id=" + strconv.Itoa(matrices.ID) + "&exercise_id=" + strconv.Itoa(suites.ID),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, ProgressResponse{
				Entries: []EntryResponse{
					{ExerciseID: matrices.ID, Index: 1, Status: progress.StatusDone},
					{ExerciseID: matrices.ID, Index: 2, Status: progress.StatusDone},
					{ExerciseID: suites.ID, Index: 1, Status: progress.StatusReview},
				},
				Summary: usrSummary,
			}),
		},
		{
			name:     "Invalid exercise_id",
			method:   http.MethodGet,
			path:     "/v1/progress?exercise_id=abc",
			token:    token,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
