package echoapi

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/user"
)

func Test_contentApi_materials(t *testing.T) {
	app := setup(t)

	crs := createCourse(t, "Algebra I")
	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "s3cretpwd", []string{user.RoleTeacher}, true)
	_, stdUsr := registerStudent(t, "hero", "hero@test.cd", "s3cretpwd", crs.ID)

	teacherToken := getToken(t, teacher)
	matPath := fmt.Sprintf("/v1/courses/%d/materials", crs.ID)

	// uploads are staff-only
	req, rec := newUploadRequest(t, http.MethodPost, matPath, getToken(t, stdUsr),
		map[string]string{"title": "Notes"}, "notes.pdf", "%PDF")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)

	// the file part is mandatory
	req, rec = newUploadRequest(t, http.MethodPost, matPath, teacherToken,
		map[string]string{"title": "Ghost"}, "", "")
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, map[string]string{"file": "a file is required"}),
	}, rec)

	req, rec = newUploadRequest(t, http.MethodPost, matPath, teacherToken,
		map[string]string{"title": "Notes", "description": "Chapter 1"}, "notes.pdf", "%PDF")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: code = %v; want %v (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var mat content.StudyMaterial
	decodeBody(t, rec, &mat)
	if mat.UploaderID != teacher.ID || mat.FilePath == "" {
		t.Errorf("material = %+v", mat)
	}

	// enrolled students can list and fetch the file
	req, rec = newAuthRequest(http.MethodGet, matPath, getToken(t, stdUsr))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, mat)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/media/"+mat.FilePath, getToken(t, stdUsr))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("media: code = %v; want %v", rec.Code, http.StatusOK)
	}
	if rec.Body.String() != "%PDF" {
		t.Errorf("media body = %q; want the uploaded bytes", rec.Body.String())
	}

	// traversal is rejected
	req, rec = newAuthRequest(http.MethodGet, "/v1/media/..%2Fsecrets", getToken(t, stdUsr))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("media traversal: code = %v; want %v", rec.Code, http.StatusNotFound)
	}
}

func Test_contentApi_assignments(t *testing.T) {
	app := setup(t)

	crs := createCourse(t, "Algebra I")
	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "s3cretpwd", []string{user.RoleTeacher}, true)
	std, stdUsr := registerStudent(t, "hero", "hero@test.cd", "s3cretpwd", crs.ID)
	_, otherUsr := registerStudent(t, "other", "other@test.cd", "s3cretpwd", crs.ID)

	asgPath := fmt.Sprintf("/v1/courses/%d/assignments", crs.ID)
	req, rec := newUploadRequest(t, http.MethodPost, asgPath, getToken(t, teacher),
		map[string]string{"title": "Homework 1", "due_date": "2021-10-01", "marks": "20"},
		"hw1.pdf", "%PDF",
		map[string][]string{"assignee_ids": {fmt.Sprint(std.ID)}})
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: code = %v; want %v (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var asg content.Assignment
	decodeBody(t, rec, &asg)
	if asg.Marks == nil || *asg.Marks != 20 || len(asg.AssigneeIDs) != 1 {
		t.Errorf("assignment = %+v", asg)
	}

	// an assignee sees it under their own assignments; others do not
	req, rec = newAuthRequest(http.MethodGet, "/v1/assignments/me", getToken(t, stdUsr))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, asg)}, rec)

	req, rec = newAuthRequest(http.MethodGet, "/v1/assignments/me", getToken(t, otherUsr))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t)}, rec)

	// a dangling assignee is a payload error
	req, rec = newUploadRequest(t, http.MethodPost, asgPath, getToken(t, teacher),
		map[string]string{"title": "Homework 2", "due_date": "2021-10-08"},
		"hw2.pdf", "%PDF",
		map[string][]string{"assignee_ids": {"404"}})
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, httpErr{Error: "student not found"}),
	}, rec)
}

func Test_contentApi_results(t *testing.T) {
	app := setup(t)

	crs := createCourse(t, "Algebra I")
	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "s3cretpwd", []string{user.RoleTeacher}, true)
	std, stdUsr := registerStudent(t, "hero", "hero@test.cd", "s3cretpwd", crs.ID)
	_, otherUsr := registerStudent(t, "other", "other@test.cd", "s3cretpwd", crs.ID)

	// the marked-up file is optional on results
	req, rec := newFormRequest(http.MethodPost, "/v1/results", getToken(t, teacher), url.Values{
		"student_id": {fmt.Sprint(std.ID)},
		"course_id":  {fmt.Sprint(crs.ID)},
		"marks":      {"17"},
	})
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record: code = %v; want %v (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var res content.Result
	decodeBody(t, rec, &res)
	if res.Marks == nil || *res.Marks != 17 || res.FilePath != "" {
		t.Errorf("result = %+v", res)
	}

	// the student reads their own results, not a classmate's
	resPath := fmt.Sprintf("/v1/students/%d/results", std.ID)
	req, rec = newAuthRequest(http.MethodGet, resPath, getToken(t, stdUsr))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, res)}, rec)

	req, rec = newAuthRequest(http.MethodGet, resPath, getToken(t, otherUsr))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

	// course-wide results are staff-only
	crsResPath := fmt.Sprintf("/v1/courses/%d/results", crs.ID)
	req, rec = newAuthRequest(http.MethodGet, crsResPath, getToken(t, stdUsr))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)

	req, rec = newAuthRequest(http.MethodGet, crsResPath, getToken(t, teacher))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, res)}, rec)
}
