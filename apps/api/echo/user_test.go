package echoapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

func Test_userApi_registerTeacher(t *testing.T) {
	app := setup(t)
	core.Conf.TeacherRegistrationOpen = true

	body := marchallObj(t, echo.Map{"username": "t1", "password": "p", "password_confirm": "p"})
	req, rec := newRequest(http.MethodPost, "/v1/users/register", body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; want %v (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var usr user.User
	decodeBody(t, rec, &usr)
	if usr.Username != "t1" {
		t.Errorf("Username = %q; want %q", usr.Username, "t1")
	}
	if !usr.IsTeacher() {
		t.Errorf("IsTeacher() = false; roles %v", usr.Roles)
	}

	// resubmitting the same username fails once and creates nothing
	req, rec = newRequest(http.MethodPost, "/v1/users/register", body)
	app.ServeHTTP(rec, req)
	tt := httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, echo.Map{"username": "a user with this username already exists"}),
	}
	checkCodeAndData(t, tt, rec)
	users, _ := usrSvc.QueryAll()
	if len(users) != 1 {
		t.Errorf("users after duplicate registration = %d; want 1", len(users))
	}

	// registration can be closed by configuration
	core.Conf.TeacherRegistrationOpen = false
	defer func() { core.Conf.TeacherRegistrationOpen = true }()
	body = marchallObj(t, echo.Map{"username": "t2", "password": "letmein2", "password_confirm": "letmein2"})
	req, rec = newRequest(http.MethodPost, "/v1/users/register", body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusForbidden,
		wantData: marchallObj(t, httpErr{Error: "teacher registration is currently closed"}),
	}, rec)
}

func Test_userApi_login(t *testing.T) {
	app := setup(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "s3cretpwd", []string{user.RoleTeacher}, true)
	_, stdUsr := registerStudent(t, "hero", "hero@test.cd", "s3cretpwd")
	createUser(t, "N Dog", "ndog", "ndog@test.cd", "s3cretpwd", []string{user.RoleStudent}, false)

	login := func(uname, pwd string) []byte {
		return marchallObj(t, echo.Map{"username": uname, "password": pwd})
	}
	invalidCreds := marchallObj(t, httpErr{Error: "invalid credentials"})

	tests := []httpTest{
		{
			name: "unknown user", method: http.MethodPost, path: "/v1/users/login",
			body: login("ghost", "s3cretpwd"), wantCode: http.StatusBadRequest, wantData: invalidCreds,
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/v1/users/login",
			body: login("hero", "nope-nope"), wantCode: http.StatusBadRequest, wantData: invalidCreds,
		},
		{
			name: "student login", method: http.MethodPost, path: "/v1/users/login",
			body: login("hero", "s3cretpwd"), wantCode: http.StatusOK,
		},
		{
			name: "login by email", method: http.MethodPost, path: "/v1/users/login",
			body: login("hero@test.cd", "s3cretpwd"), wantCode: http.StatusOK,
		},
		{
			name: "student on the teacher portal", method: http.MethodPost, path: "/v1/users/login/teacher",
			body: login("hero", "s3cretpwd"), wantCode: http.StatusBadRequest, wantData: invalidCreds,
		},
		{
			name: "teacher on the teacher portal", method: http.MethodPost, path: "/v1/users/login/teacher",
			body: login("teacher", "s3cretpwd"), wantCode: http.StatusOK,
		},
		{
			name: "teacher on the admin portal", method: http.MethodPost, path: "/v1/users/login/admin",
			body: login("teacher", "s3cretpwd"), wantCode: http.StatusBadRequest, wantData: invalidCreds,
		},
		{
			name: "deactivated account", method: http.MethodPost, path: "/v1/users/login",
			body: login("ndog", "s3cretpwd"), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{
			name: "already logged in", method: http.MethodPost, path: "/v1/users/login",
			body: login("hero", "s3cretpwd"), token: getToken(t, stdUsr), wantCode: http.StatusOK,
			wantData: marchallObj(t, AlreadyAuthedResponse{Notice: "already logged in", Dashboard: "/student"}),
		},
		{
			name: "already logged in as teacher", method: http.MethodPost, path: "/v1/users/login",
			body: login("teacher", "s3cretpwd"), token: getToken(t, teacher), wantCode: http.StatusOK,
			wantData: marchallObj(t, AlreadyAuthedResponse{Notice: "already logged in", Dashboard: "/teacher"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			// successful logins return a usable token
			if tt.wantCode == http.StatusOK && tt.wantData == nil {
				var resp LoginResponse
				decodeBody(t, rec, &resp)
				if resp.Token == "" {
					t.Error("login returned an empty token")
				}
			}
		})
	}
}

func Test_userApi_query(t *testing.T) {
	app := setup(t)

	admin := createUser(t, "Admin", "admin", "admin@test.cd", "s3cretpwd", []string{user.RoleAdmin}, true)
	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "s3cretpwd", []string{user.RoleTeacher}, true)
	stdUsr := createUser(t, "Hero", "hero", "hero@test.cd", "s3cretpwd", []string{user.RoleStudent}, true)

	adminToken := getToken(t, admin)

	tests := []httpTest{
		{name: "auth required", method: http.MethodGet, path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", method: http.MethodGet, path: "/v1/users", token: getToken(t, stdUsr),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "teacher is not admin", method: http.MethodGet, path: "/v1/users", token: getToken(t, teacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "get all", method: http.MethodGet, path: "/v1/users", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, admin, teacher, stdUsr),
		},
		{
			name: "teachers only", method: http.MethodGet, path: "/v1/users/teachers", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallList(t, teacher),
		},
		{
			name: "available roles", method: http.MethodGet, path: "/v1/users/roles", token: adminToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, user.Roles),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_detail(t *testing.T) {
	app := setup(t)

	admin := createUser(t, "Admin", "admin", "admin@test.cd", "s3cretpwd", []string{user.RoleAdmin}, true)
	hero := createUser(t, "Hero", "hero", "hero@test.cd", "s3cretpwd", []string{user.RoleStudent}, true)
	other := createUser(t, "Other", "other", "other@test.cd", "s3cretpwd", []string{user.RoleStudent}, true)

	adminToken := getToken(t, admin)
	heroToken := getToken(t, hero)

	tests := []httpTest{
		{
			name: "own account", method: http.MethodGet, path: fmt.Sprintf("/v1/users/%d", hero.ID),
			token: heroToken, wantCode: http.StatusOK, wantData: marchallObj(t, hero),
		},
		{
			name: "someone else's account is hidden", method: http.MethodGet, path: fmt.Sprintf("/v1/users/%d", other.ID),
			token: heroToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "admin sees anyone", method: http.MethodGet, path: fmt.Sprintf("/v1/users/%d", other.ID),
			token: adminToken, wantCode: http.StatusOK, wantData: marchallObj(t, other),
		},
		{
			name: "non-admin cannot change roles", method: http.MethodPut, path: fmt.Sprintf("/v1/users/%d", hero.ID),
			token: heroToken, body: marchallObj(t, echo.Map{"roles": []string{user.RoleAdmin}}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "self-deletion is forbidden", method: http.MethodDelete, path: fmt.Sprintf("/v1/users/%d", admin.ID),
			token: adminToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "admin deletes", method: http.MethodDelete, path: fmt.Sprintf("/v1/users/%d", other.ID),
			token: adminToken, wantCode: http.StatusNoContent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	users, _ := usrSvc.QueryAll()
	if len(users) != 2 {
		t.Errorf("users after delete = %d; want 2", len(users))
	}
}
