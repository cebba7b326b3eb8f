package echoapi

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/trezcool/darasa/core/announce"
	"github.com/trezcool/darasa/core/user"
)

func Test_announceApi_create(t *testing.T) {
	app := setup(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "s3cretpwd", []string{user.RoleTeacher}, true)
	_, stdUsr := registerStudent(t, "hero", "hero@test.cd", "s3cretpwd")

	form := url.Values{"title": {"Exam schedule"}, "content": {"Finals start Monday."}, "for_all": {"true"}}

	// unauthenticated callers are rejected outright
	req, rec := newFormRequest(http.MethodPost, "/v1/announcements", "", form)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)

	// students may not post announcements
	req, rec = newFormRequest(http.MethodPost, "/v1/announcements", getToken(t, stdUsr), form)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusForbidden,
		wantData: marchallObj(t, httpErr{Error: "students may not post announcements"}),
	}, rec)
	if anns, _ := annSvc.QueryAll(); len(anns) != 0 {
		t.Errorf("announcements after denied create = %d; want 0", len(anns))
	}

	// staff posts, with an optional attachment
	req, rec = newUploadRequest(t, http.MethodPost, "/v1/announcements", getToken(t, teacher),
		map[string]string{"title": "Exam schedule", "content": "Finals start Monday.", "for_all": "true"},
		"schedule.pdf", "%PDF")
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; want %v (body %s)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var ann announce.Announcement
	decodeBody(t, rec, &ann)
	if ann.CreatorID != teacher.ID || !ann.ForAll || ann.FilePath == "" {
		t.Errorf("announcement = %+v", ann)
	}

	// an untargeted announcement is a validation failure
	req, rec = newFormRequest(http.MethodPost, "/v1/announcements", getToken(t, teacher),
		url.Values{"title": {"Void"}, "content": {"Shouting into it."}})
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusBadRequest,
		wantData: marchallObj(t, map[string]string{"for_role": "this field is required"}),
	}, rec)
}

func Test_announceApi_query(t *testing.T) {
	app := setup(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "s3cretpwd", []string{user.RoleTeacher}, true)
	_, stdUsr := registerStudent(t, "hero", "hero@test.cd", "s3cretpwd")

	forAll, err := annSvc.Create(teacher.ID, false, announce.NewAnnouncement{Title: "Holiday", Content: "Closed Friday.", ForAll: true}, "", nil)
	if err != nil {
		t.Fatalf("annSvc.Create(forAll): %v", err)
	}
	forTeachers, err := annSvc.Create(teacher.ID, false, announce.NewAnnouncement{Title: "Staff meeting", Content: "Room 2, 5pm.", ForRole: "teacher"}, "", nil)
	if err != nil {
		t.Fatalf("annSvc.Create(forTeachers): %v", err)
	}

	tests := []httpTest{
		{
			name: "auth required", method: http.MethodGet, path: "/v1/announcements",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "teacher sees general and role-targeted", method: http.MethodGet, path: "/v1/announcements",
			token: getToken(t, teacher), wantCode: http.StatusOK, wantData: marchallList(t, forTeachers, forAll),
		},
		{
			name: "student sees only general", method: http.MethodGet, path: "/v1/announcements",
			token: getToken(t, stdUsr), wantCode: http.StatusOK, wantData: marchallList(t, forAll),
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

func Test_announceApi_destroy(t *testing.T) {
	app := setup(t)

	admin := createUser(t, "Admin", "admin", "admin@test.cd", "s3cretpwd", []string{user.RoleAdmin}, true)
	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "s3cretpwd", []string{user.RoleTeacher}, true)

	ann, err := annSvc.Create(admin.ID, false, announce.NewAnnouncement{Title: "Old", Content: "Stale.", ForAll: true}, "", nil)
	if err != nil {
		t.Fatalf("annSvc.Create(): %v", err)
	}
	path := fmt.Sprintf("/v1/announcements/%d", ann.ID)

	req, rec := newAuthRequest(http.MethodDelete, path, getToken(t, teacher))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)

	req, rec = newAuthRequest(http.MethodDelete, path, getToken(t, admin))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("code = %v; want %v", rec.Code, http.StatusNoContent)
	}

	req, rec = newAuthRequest(http.MethodDelete, path, getToken(t, admin))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusNotFound,
		wantData: marchallObj(t, httpErr{Error: "announcement not found"}),
	}, rec)
}
