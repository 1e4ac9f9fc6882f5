package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	. "github.com/prepaclassics/backend/apps/api/echo"
	"github.com/prepaclassics/backend/core"
	"github.com/prepaclassics/backend/core/exercise"
	"github.com/prepaclassics/backend/core/progress"
	"github.com/prepaclassics/backend/core/user"
	emailsvc "github.com/prepaclassics/backend/services/email"
	logsvc "github.com/prepaclassics/backend/services/logger"
	dummydb "github.com/prepaclassics/backend/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

func testCtx() context.Context { return context.Background() }

type testEnv struct {
	exoSvc   *exercise.Service
	progSvc  *progress.Service
	usrSvc   *user.Service
	exoRepo  exercise.Repository
	progRepo *dummydb.ProgressRepository
	usrRepo  user.Repository
	payment  *paymentServiceStub
}

func testConfig() *core.Config {
	return &core.Config{
		TestMode:  true,
		Env:       "TEST",
		AppName:   "PrepaClassics",
		SecretKey: "t0p-s3cret-test-k3y",
		Progress:  core.ProgressConfig{AnonymousRevertDelay: 10 * time.Millisecond},
	}
}

func setup(t *testing.T) (Server, *testEnv) {
	return setupWithPayment(t, true)
}

// setupWithPayment(t, false) builds the server in the degraded, payment-less
// mode main falls back to when the provider is not configured.
func setupWithPayment(t *testing.T, withPayment bool) (Server, *testEnv) {
	t.Helper()
	conf := testConfig()

	// set up DB & repos
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	env := &testEnv{
		exoRepo:  dummydb.NewExerciseRepository(db),
		progRepo: dummydb.NewProgressRepository(db),
		usrRepo:  dummydb.NewUserRepository(db),
		payment:  newPaymentServiceStub(),
	}

	// set up services
	logger := logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	env.exoSvc = exercise.NewService(env.exoRepo, nil, 0, logger)
	env.progSvc = progress.NewService(env.progRepo, conf.Progress.AnonymousRevertDelay, logger)
	env.usrSvc = user.NewService(env.usrRepo, nil, mailSvc, conf.AppName, logger)

	validate, translator := core.NewValidator()

	var paymentSvc core.PaymentService
	if withPayment {
		paymentSvc = env.payment
	}

	// set up server
	app := NewServer(
		"", /* addr */
		&Deps{
			Conf:        conf,
			Logger:      logger,
			ExerciseSvc: env.exoSvc,
			ProgressSvc: env.progSvc,
			UserSvc:     env.usrSvc,
			PaymentSvc:  paymentSvc,
			Validate:    validate,
			Translator:  translator,
		},
	)
	return app, env
}

// paymentServiceStub verifies events against pre-registered signatures.
type paymentServiceStub struct {
	checkoutBase string
	events       map[string]core.PaymentEvent
}

var _ core.PaymentService = (*paymentServiceStub)(nil)

func newPaymentServiceStub() *paymentServiceStub {
	return &paymentServiceStub{
		checkoutBase: "https://checkout.test/session",
		events:       make(map[string]core.PaymentEvent),
	}
}

func (svc *paymentServiceStub) CheckoutURL(email string) (string, error) {
	return svc.checkoutBase + "?prefilled_email=" + email, nil
}

func (svc *paymentServiceStub) VerifyEvent(_ []byte, sigHeader string) (core.PaymentEvent, error) {
	if event, ok := svc.events[sigHeader]; ok {
		return event, nil
	}
	return core.PaymentEvent{}, errors.New("signature verification failed")
}

func (svc *paymentServiceStub) registerEvent(sig string, event core.PaymentEvent) {
	svc.events[sig] = event
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func createExercise(t *testing.T, env *testEnv, title, chapter, niveau string, count int, premium bool) exercise.Exercise {
	t.Helper()
	now := time.Now().UTC()
	exo, err := env.exoRepo.CreateExercise(testCtx(), exercise.Exercise{
		Title:         title,
		Chapter:       chapter,
		Niveau:        niveau,
		ExerciseCount: count,
		IsPremium:     premium,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("createExercise(): %v", err)
	}
	return exo
}

func createUser(t *testing.T, env *testEnv, email string, premium bool) user.User {
	t.Helper()
	usr, err := env.usrRepo.SetUserPremium(testCtx(), email, premium)
	if err != nil {
		t.Fatalf("createUser(): %v", err)
	}
	return usr
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
