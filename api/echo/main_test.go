package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/center"
	"github.com/trezcool/darasa/core/chapter"
	"github.com/trezcool/darasa/core/exam"
	"github.com/trezcool/darasa/core/fee"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	testutil "github.com/trezcool/darasa/tests"
)

var (
	conf *core.Config
	db   *dummydb.DB
	app  Server
	auth *jwtAuth

	usrRepo     user.Repository
	centerRepo  center.Repository
	studentRepo student.Repository
	attnRepo    attendance.Repository
	feeRepo     fee.Repository
	examRepo    exam.Repository
	chapterRepo chapter.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func TestMain(m *testing.M) {
	conf = &core.Config{
		Env:       "test",
		TestMode:  true,
		AppName:   "Darasa",
		SecretKey: []byte("~ not so secret key for tests ~"),

		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,

		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}

	var err error
	if db, err = dummydb.Open(); err != nil {
		panic(err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	centerRepo = dummydb.NewCenterRepository(db)
	studentRepo = dummydb.NewStudentRepository(db)
	attnRepo = dummydb.NewAttendanceRepository(db)
	feeRepo = dummydb.NewFeeRepository(db)
	examRepo = dummydb.NewExamRepository(db)
	chapterRepo = dummydb.NewChapterRepository(db)

	logger := testutil.NewLogger()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	usrSvc := user.NewService(usrRepo, mailSvc, conf, logger)
	centerSvc := center.NewService(centerRepo)
	studentSvc := student.NewService(studentRepo)
	attnSvc := attendance.NewService(attnRepo, studentSvc)
	feeSvc := fee.NewService(feeRepo, studentSvc)
	examSvc := exam.NewService(examRepo, studentSvc)
	chapterSvc := chapter.NewService(chapterRepo)

	validate := validator.New()
	enLoc := en.New()
	translator, _ := ut.New(enLoc, enLoc).GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	auth = newJWTAuth(conf, usrSvc)
	app = NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,

		UserSvc:       usrSvc,
		CenterSvc:     centerSvc,
		StudentSvc:    studentSvc,
		AttendanceSvc: attnSvc,
		FeeSvc:        feeSvc,
		ExamSvc:       examSvc,
		ChapterSvc:    chapterSvc,

		DisableReqLogs: true,
	})

	os.Exit(m.Run())
}

func resetDB(t *testing.T) {
	t.Helper()
	db.Reset()
	emailsvc.ClearSentMessages()
}

type httpErr struct {
	Error interface{} `json:"error"`
}

func (e httpErr) body() interface{} {
	return map[string]interface{}{"success": false, "error": e.Error}
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
	token, err := auth.generateToken(auth.claimsFor(usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	if e, ok := obj.(httpErr); ok {
		obj = e.body()
	}
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj(): %v", err)
	}
	return data
}

func marshalList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshalList(): %v", err)
	}
	return data
}

func unmarshalBody(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarshalBody(): %v", err)
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
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
