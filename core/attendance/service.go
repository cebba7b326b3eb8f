package attendance

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrCourseNotFound = errors.New("course not found")
)

type (
	Repository interface {
		// UpsertAttendance creates the record, or updates its Present status
		// if one already exists for the same (student, date).
		UpsertAttendance(att Attendance) (Attendance, error)
		QueryAttendanceByStudent(studentID int) ([]Attendance, error)
		QueryAttendanceByDate(date time.Time, studentIDs []int) ([]Attendance, error)
	}

	// Roster lists the students enrolled in a course; satisfied by student.Service.
	Roster interface {
		EnrolledStudentIDs(courseID int) ([]int, error)
	}

	// CourseDirectory reports course existence; satisfied by course.Service.
	CourseDirectory interface {
		Exists(id int) (bool, error)
	}

	Service struct {
		repo    Repository
		roster  Roster
		courses CourseDirectory
	}
)

func NewService(repo Repository, roster Roster, courses CourseDirectory) *Service {
	return &Service{repo: repo, roster: roster, courses: courses}
}

// Mark writes one attendance record per student enrolled in the course for
// the sheet's date: present if listed, absent otherwise. Re-submitting the
// same (course, date) updates the existing records instead of duplicating.
func (svc *Service) Mark(courseID int, ms MarkSheet) ([]Attendance, error) {
	ok, err := svc.courses.Exists(courseID)
	if err != nil {
		return nil, errors.Wrap(err, "checking course")
	}
	if !ok {
		return nil, ErrCourseNotFound
	}

	studentIDs, err := svc.roster.EnrolledStudentIDs(courseID)
	if err != nil {
		return nil, errors.Wrap(err, "listing enrolled students")
	}

	records := make([]Attendance, 0, len(studentIDs))
	for _, studentID := range studentIDs {
		att, err := svc.repo.UpsertAttendance(Attendance{
			StudentID: studentID,
			Date:      core.DateOnly(ms.Date),
			Present:   ms.isPresent(studentID),
		})
		if err != nil {
			return nil, errors.Wrap(err, "recording attendance")
		}
		records = append(records, att)
	}
	return records, nil
}

func (svc *Service) ListByStudent(studentID int) ([]Attendance, error) {
	return svc.repo.QueryAttendanceByStudent(studentID)
}

// ListByCourseDate returns the attendance records of a course's enrolled
// students for a given date.
func (svc *Service) ListByCourseDate(courseID int, date time.Time) ([]Attendance, error) {
	ok, err := svc.courses.Exists(courseID)
	if err != nil {
		return nil, errors.Wrap(err, "checking course")
	}
	if !ok {
		return nil, ErrCourseNotFound
	}
	studentIDs, err := svc.roster.EnrolledStudentIDs(courseID)
	if err != nil {
		return nil, errors.Wrap(err, "listing enrolled students")
	}
	return svc.repo.QueryAttendanceByDate(core.DateOnly(date), studentIDs)
}
