package echoapi

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

func createCourse(t *testing.T, name string) course.Course {
	t.Helper()
	start := time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC)
	crs, err := crsSvc.Create(course.NewCourse{Name: name, StartDate: start, EndDate: start.AddDate(0, 3, 0)})
	if err != nil {
		t.Fatalf("crsSvc.Create(%s): %v", name, err)
	}
	return crs
}

func Test_courseApi_enroll(t *testing.T) {
	app := setup(t)

	crs := createCourse(t, "Algebra I")
	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "s3cretpwd", []string{user.RoleTeacher}, true)
	std, stdUsr := registerStudent(t, "hero", "hero@test.cd", "s3cretpwd")

	stdToken := getToken(t, stdUsr)
	enrollPath := fmt.Sprintf("/v1/courses/%d/enroll", crs.ID)

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodPost, path: enrollPath,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "students only", method: http.MethodPost, path: enrollPath, token: getToken(t, teacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "unknown course", method: http.MethodPost, path: "/v1/courses/404/enroll", token: stdToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "course not found"}),
		},
		{
			name: "enroll", method: http.MethodPost, path: enrollPath, token: stdToken,
			wantCode: http.StatusCreated, wantData: marchallObj(t, SuccessResponse{Success: "enrolled"}),
		},
		{
			name: "enrolling twice reports the membership", method: http.MethodPost, path: enrollPath, token: stdToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, SuccessResponse{Success: "already enrolled in this course"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	std, err := stdSvc.GetByID(std.ID)
	if err != nil {
		t.Fatalf("stdSvc.GetByID(): %v", err)
	}
	if len(std.CourseIDs) != 1 || std.CourseIDs[0] != crs.ID {
		t.Errorf("CourseIDs = %v; want a single membership in %d", std.CourseIDs, crs.ID)
	}
}

func Test_courseApi_query(t *testing.T) {
	app := setup(t)

	algebra := createCourse(t, "Algebra I")
	latin := createCourse(t, "Latin")
	_, stdUsr := registerStudent(t, "hero", "hero@test.cd", "s3cretpwd", algebra.ID)

	tests := []httpTest{
		{
			name: "anonymous catalog", method: http.MethodGet, path: "/v1/courses", wantCode: http.StatusOK,
			wantData: marchallList(t, CourseListItem{Course: algebra}, CourseListItem{Course: latin}),
		},
		{
			name: "student catalog flags enrollment", method: http.MethodGet, path: "/v1/courses",
			token: getToken(t, stdUsr), wantCode: http.StatusOK,
			wantData: marchallList(t, CourseListItem{Course: algebra, Enrolled: true}, CourseListItem{Course: latin}),
		},
		{
			name: "course detail", method: http.MethodGet, path: fmt.Sprintf("/v1/courses/%d", latin.ID),
			wantCode: http.StatusOK, wantData: marchallObj(t, latin),
		},
		{
			name: "unknown course detail", method: http.MethodGet, path: "/v1/courses/404",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "course not found"}),
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

func Test_courseApi_manage(t *testing.T) {
	app := setup(t)

	admin := createUser(t, "Admin", "admin", "admin@test.cd", "s3cretpwd", []string{user.RoleAdmin}, true)
	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "s3cretpwd", []string{user.RoleTeacher}, true)
	_, stdUsr := registerStudent(t, "hero", "hero@test.cd", "s3cretpwd")

	teacherToken := getToken(t, teacher)

	start := time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC)
	newCourse := marchallObj(t, echo.Map{
		"name":       "Chemistry",
		"start_date": start.Format(time.RFC3339),
		"end_date":   start.AddDate(0, 3, 0).Format(time.RFC3339),
	})

	// staff creates
	req, rec := newAuthRequest(http.MethodPost, "/v1/courses", teacherToken, newCourse)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: code = %v; want %v (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var crs course.Course
	decodeBody(t, rec, &crs)
	if crs.Name != "Chemistry" {
		t.Errorf("Name = %q; want %q", crs.Name, "Chemistry")
	}

	tests := []httpTest{
		{
			name: "students cannot create", method: http.MethodPost, path: "/v1/courses", token: getToken(t, stdUsr),
			body: newCourse, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "staff updates", method: http.MethodPut, path: fmt.Sprintf("/v1/courses/%d", crs.ID), token: teacherToken,
			body: marchallObj(t, echo.Map{"description": "Now with labs"}), wantCode: http.StatusOK,
		},
		{
			name: "teacher cannot delete", method: http.MethodDelete, path: fmt.Sprintf("/v1/courses/%d", crs.ID),
			token: teacherToken, wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "admin deletes", method: http.MethodDelete, path: fmt.Sprintf("/v1/courses/%d", crs.ID),
			token: getToken(t, admin), wantCode: http.StatusNoContent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	if ok, _ := crsSvc.Exists(crs.ID); ok {
		t.Error("course still exists after delete")
	}
}
