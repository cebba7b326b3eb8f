package echoapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/announce"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/message"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	"github.com/trezcool/darasa/services/filestore"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
)

var (
	usrRepo user.Repository
	usrSvc  *user.Service
	stdSvc  *student.Service
	crsSvc  *course.Service
	attSvc  *attendance.Service
	cntSvc  *content.Service
	msgSvc  *message.Service
	annSvc  *announce.Service

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

// testLogger satisfies core.Logger without the error-reporting backend.
type testLogger struct{}

func (testLogger) Debug(msg string, args ...interface{}) { log.Println(append([]interface{}{msg}, args...)...) }
func (testLogger) Info(msg string, args ...interface{})  { log.Println(append([]interface{}{msg}, args...)...) }
func (testLogger) Warn(msg string, args ...interface{})  { log.Println(append([]interface{}{msg}, args...)...) }
func (testLogger) Error(msg string, args ...interface{}) { log.Println(append([]interface{}{msg}, args...)...) }
func (testLogger) Fatal(msg string, args ...interface{}) { log.Fatalln(append([]interface{}{msg}, args...)...) }

func setup(t *testing.T) Server {
	t.Helper()

	// stable error payloads; no recovery
	core.Conf.Debug = false
	core.Conf.TestMode = true

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	usrRepo = inmemdb.NewUserRepository(db)

	validate := validator.New()
	_en := en.New()
	translator, found := ut.New(_en, _en).GetTranslator("en")
	if !found {
		t.Fatal("setup(): english translator not found")
	}
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	files := filestore.NewMemStoreMock()
	mailSvc := emailsvc.NewConsoleServiceMock()

	usrSvc = user.NewService(usrRepo, mailSvc, core.Conf)
	crsSvc = course.NewService(inmemdb.NewCourseRepository(db))
	stdSvc = student.NewService(inmemdb.NewStudentRepository(db), usrSvc, crsSvc)
	attSvc = attendance.NewService(inmemdb.NewAttendanceRepository(db), stdSvc, crsSvc)
	cntSvc = content.NewService(inmemdb.NewContentRepository(db), files, crsSvc, stdSvc)
	msgSvc = message.NewService(inmemdb.NewMessageRepository(db), usrSvc)
	annSvc = announce.NewService(inmemdb.NewAnnounceRepository(db), files)

	return NewServer(ServerDeps{
		DisableReqLogs: true,
		Logger:         testLogger{},
		Validate:       validate,
		Translator:     translator,
		FileStore:      files,
		UserSvc:        usrSvc,
		StudentSvc:     stdSvc,
		CourseSvc:      crsSvc,
		AttendanceSvc:  attSvc,
		ContentSvc:     cntSvc,
		MessageSvc:     msgSvc,
		AnnounceSvc:    annSvc,
	})
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

func newFormRequest(method, path, token string, form url.Values) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

// newUploadRequest builds a multipart request with form fields plus an
// optional "file" part.
func newUploadRequest(t *testing.T, method, path, token string, fields map[string]string, filename, fileBody string, listFields ...map[string][]string) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, value := range fields {
		if err := w.WriteField(field, value); err != nil {
			t.Fatalf("WriteField(%s): %v", field, err)
		}
	}
	for _, lf := range listFields {
		for field, values := range lf {
			for _, value := range values {
				if err := w.WriteField(field, value); err != nil {
					t.Fatalf("WriteField(%s): %v", field, err)
				}
			}
		}
	}
	if filename != "" {
		fw, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("CreateFormFile(): %v", err)
		}
		if _, err = io.Copy(fw, strings.NewReader(fileBody)); err != nil {
			t.Fatalf("io.Copy(): %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("multipart.Writer.Close(): %v", err)
	}

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func createUser(t *testing.T, name, uname, email, pwd string, roles []string, isActive bool) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		IsActive:  isActive,
		Roles:     roles,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	usr, err := usrRepo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func registerStudent(t *testing.T, uname, email, pwd string, courseIDs ...int) (student.Student, user.User) {
	t.Helper()

	std, err := stdSvc.Register(student.NewStudent{
		Username:        uname,
		Password:        pwd,
		PasswordConfirm: pwd,
		FirstName:       "Student",
		LastName:        uname,
		Email:           email,
		Phone:           "+243 990 000 000",
		CourseIDs:       courseIDs,
	})
	if err != nil {
		t.Fatalf("stdSvc.Register(%s): %v", uname, err)
	}
	usr, err := usrSvc.GetByID(std.UserID)
	if err != nil {
		t.Fatalf("usrSvc.GetByID(): %v", err)
	}
	return std, usr
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

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
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
	if l1, ok := j1.([]interface{}); ok {
		if l2, ok := j2.([]interface{}); ok {
			return assert.ElementsMatch(t, l1, l2), nil
		}
	}
	return false, nil
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

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decodeBody(): %v (body %s)", err, rec.Body.String())
	}
}
