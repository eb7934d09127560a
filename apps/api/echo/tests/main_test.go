package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"

	. "github.com/scwportal/backend/apps/api/echo"
	"github.com/scwportal/backend/core"
	"github.com/scwportal/backend/core/exam"
	"github.com/scwportal/backend/core/result"
	"github.com/scwportal/backend/core/setting"
	"github.com/scwportal/backend/core/student"
	logsvc "github.com/scwportal/backend/services/logger"
	"github.com/scwportal/backend/storage"
	inmemdb "github.com/scwportal/backend/storage/database/inmem"
)

const defaultAccessPassword = "123456"

type testApp struct {
	server *Server
	db     *inmemdb.DB
	repos  *storage.Repositories
}

// setup builds the API over an in-memory DB. wrap may replace repositories, before any service
// is built, with ones that fail on purpose.
func setup(t *testing.T, wrap ...func(*storage.Repositories)) testApp {
	t.Helper()

	conf := &core.Config{
		Env:      "TEST",
		TestMode: true,
		Registration: core.RegistrationConfig{
			DefaultAccessPassword: defaultAccessPassword,
			RollNoPrefix:          "SCW",
		},
		Results: core.ResultsConfig{MarksPolicy: string(result.PolicyLenient)},
	}

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	// set up DB & repos
	db := inmemdb.Open()
	repos := storage.NewMemory(db)
	for _, w := range wrap {
		w(repos)
	}

	// set up services
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	settingSvc := setting.NewService(repos.Setting, conf.Registration.DefaultAccessPassword)
	studentSvc := student.NewService(repos.Student, settingSvc, validate, translator, conf.Registration.RollNoPrefix)
	examSvc := exam.NewService(repos.Exam, validate, translator)
	resultSvc := result.NewService(repos.Result, studentSvc, examSvc, result.PolicyLenient)

	// set up server
	server := NewServer(
		"",  /* addr */
		nil, /* shutdown */
		&Deps{
			Conf:       conf,
			Logger:     logger,
			Translator: translator,
			StudentSvc: studentSvc,
			ResultSvc:  resultSvc,
			ExamSvc:    examSvc,
		},
	)
	return testApp{server: server, db: db, repos: repos}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
	extra    interface{}
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarchallObj(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarchallObj() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func checkCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q; want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "authorization, x-client-info, apikey, content-type" {
		t.Errorf("Access-Control-Allow-Headers = %q", got)
	}
}
