package attendance_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
)

type testEnv struct {
	courses    *course.Service
	students   *student.Service
	attendance *attendance.Service
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}
	usrSvc := user.NewService(inmemdb.NewUserRepository(db), emailsvc.NewConsoleServiceMock(), core.Conf)
	crsSvc := course.NewService(inmemdb.NewCourseRepository(db))
	stdSvc := student.NewService(inmemdb.NewStudentRepository(db), usrSvc, crsSvc)
	attSvc := attendance.NewService(inmemdb.NewAttendanceRepository(db), stdSvc, crsSvc)
	return &testEnv{courses: crsSvc, students: stdSvc, attendance: attSvc}
}

func enrollStudents(t *testing.T, env *testEnv, courseID, n int) []int {
	t.Helper()
	ids := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		std, err := env.students.Register(student.NewStudent{
			Username:        fmt.Sprintf("std%d", i),
			Password:        "s3cretpwd",
			PasswordConfirm: "s3cretpwd",
			FirstName:       fmt.Sprintf("Student %d", i),
			Email:           fmt.Sprintf("std%d@test.cd", i),
			Phone:           fmt.Sprintf("+243 990 000 %03d", i),
			CourseIDs:       []int{courseID},
		})
		if err != nil {
			t.Fatalf("Register(std%d): %v", i, err)
		}
		ids = append(ids, std.ID)
	}
	return ids
}

func present(records []attendance.Attendance) map[int]bool {
	byStudent := make(map[int]bool, len(records))
	for _, att := range records {
		byStudent[att.StudentID] = att.Present
	}
	return byStudent
}

func TestService_Mark(t *testing.T) {
	env := setup(t)

	crs, err := env.courses.Create(course.NewCourse{Name: "Algebra I"})
	if err != nil {
		t.Fatalf("courses.Create(): %v", err)
	}
	stdIDs := enrollStudents(t, env, crs.ID, 3)
	date := time.Date(2021, 3, 2, 10, 30, 0, 0, time.UTC)

	// every enrolled student gets a record: listed ones present, the rest absent
	records, err := env.attendance.Mark(crs.ID, attendance.MarkSheet{Date: date, PresentIDs: []int{stdIDs[0], stdIDs[2]}})
	if err != nil {
		t.Fatalf("Mark(): %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Mark() len = %d; want one record per enrolled student (3)", len(records))
	}
	got := present(records)
	for i, want := range []bool{true, false, true} {
		if got[stdIDs[i]] != want {
			t.Errorf("student %d present = %v; want %v", stdIDs[i], got[stdIDs[i]], want)
		}
	}
	for _, att := range records {
		if !att.Date.Equal(time.Date(2021, 3, 2, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("record date = %v; want the day truncated to midnight UTC", att.Date)
		}
	}

	// re-marking the same day updates in place, no duplicates
	if _, err = env.attendance.Mark(crs.ID, attendance.MarkSheet{Date: date, PresentIDs: []int{stdIDs[1]}}); err != nil {
		t.Fatalf("Mark() re-mark: %v", err)
	}
	records, err = env.attendance.ListByCourseDate(crs.ID, date)
	if err != nil {
		t.Fatalf("ListByCourseDate(): %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("ListByCourseDate() len = %d after re-mark; want 3", len(records))
	}
	got = present(records)
	for i, want := range []bool{false, true, false} {
		if got[stdIDs[i]] != want {
			t.Errorf("student %d present = %v after re-mark; want %v", stdIDs[i], got[stdIDs[i]], want)
		}
	}
}

func TestService_Mark_unknownCourse(t *testing.T) {
	env := setup(t)

	ms := attendance.MarkSheet{Date: time.Now()}
	if _, err := env.attendance.Mark(404, ms); errors.Cause(err) != attendance.ErrCourseNotFound {
		t.Errorf("Mark() error = %v; want %v", err, attendance.ErrCourseNotFound)
	}
	if _, err := env.attendance.ListByCourseDate(404, time.Now()); errors.Cause(err) != attendance.ErrCourseNotFound {
		t.Errorf("ListByCourseDate() error = %v; want %v", err, attendance.ErrCourseNotFound)
	}
}

func TestService_ListByStudent(t *testing.T) {
	env := setup(t)

	crs, err := env.courses.Create(course.NewCourse{Name: "Algebra I"})
	if err != nil {
		t.Fatalf("courses.Create(): %v", err)
	}
	stdIDs := enrollStudents(t, env, crs.ID, 1)

	day1 := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2021, 3, 2, 0, 0, 0, 0, time.UTC)
	if _, err = env.attendance.Mark(crs.ID, attendance.MarkSheet{Date: day1, PresentIDs: stdIDs}); err != nil {
		t.Fatalf("Mark(day1): %v", err)
	}
	if _, err = env.attendance.Mark(crs.ID, attendance.MarkSheet{Date: day2}); err != nil {
		t.Fatalf("Mark(day2): %v", err)
	}

	records, err := env.attendance.ListByStudent(stdIDs[0])
	if err != nil {
		t.Fatalf("ListByStudent(): %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ListByStudent() len = %d; want 2", len(records))
	}
	// newest first
	if !records[0].Date.Equal(day2) || records[0].Present {
		t.Errorf("records[0] = %+v; want absent on %v", records[0], day2)
	}
	if !records[1].Date.Equal(day1) || !records[1].Present {
		t.Errorf("records[1] = %+v; want present on %v", records[1], day1)
	}
}
