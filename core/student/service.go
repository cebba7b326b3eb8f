package student

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

var (
	// errors
	ErrNotFound       = errors.New("student not found")
	ErrEmailExists    = errors.New("a student with this email already exists")
	ErrCourseNotFound = errors.New("course not found")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string, excludedStudents ...Student) error
		CreateStudent(std Student) (Student, error)
		QueryAllStudents() ([]Student, error)
		GetStudentByID(id int) (Student, error)
		GetStudentByUserID(userID int) (Student, error)
		GetStudentByEmail(email string) (Student, error)
		// SetEnrolledCourses replaces the student's enrollment relation.
		SetEnrolledCourses(studentID int, courseIDs []int) error
		// AddEnrolledCourse is a no-op if the student is already enrolled.
		AddEnrolledCourse(studentID, courseID int) error
		// QueryEnrolledStudentIDs lists the IDs of students enrolled in a course.
		QueryEnrolledStudentIDs(courseID int) ([]int, error)
		CreateFee(fee Fee) (Fee, error)
		QueryFeesByStudent(studentID int) ([]Fee, error)
	}

	// CourseDirectory reports course existence; satisfied by course.Service.
	CourseDirectory interface {
		Exists(id int) (bool, error)
	}

	Service struct {
		repo    Repository
		users   *user.Service
		courses CourseDirectory
	}
)

func NewService(repo Repository, users *user.Service, courses CourseDirectory) *Service {
	return &Service{repo: repo, users: users, courses: courses}
}

// CheckEmailUniqueness maps a repository uniqueness failure to a field-level
// validation error.
func (svc *Service) CheckEmailUniqueness(email string, exclStudents ...Student) error {
	if err := svc.repo.CheckEmailUniqueness(email, exclStudents...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Register creates the identity account and the Student profile in one
// operation. A profile-creation failure rolls the identity back and is
// always surfaced, never swallowed.
func (svc *Service) Register(ns NewStudent) (Student, error) {
	for _, courseID := range ns.CourseIDs {
		ok, err := svc.courses.Exists(courseID)
		if err != nil {
			return Student{}, errors.Wrap(err, "checking selected course")
		}
		if !ok {
			return Student{}, ErrCourseNotFound
		}
	}

	usr, err := svc.users.Create(user.NewUser{
		Name:            ns.FirstName + " " + ns.LastName,
		Username:        ns.Username,
		Email:           ns.Email,
		Password:        ns.Password,
		PasswordConfirm: ns.PasswordConfirm,
		Roles:           []string{user.RoleStudent},
	})
	if err != nil {
		return Student{}, errors.Wrap(err, "creating identity account")
	}

	std := Student{
		UserID:    usr.ID,
		FirstName: ns.FirstName,
		LastName:  ns.LastName,
		Email:     ns.Email,
		Phone:     ns.Phone,
		Address:   ns.Address,
		DOB:       ns.DOB,
		Gender:    ns.Gender,
		JoinedAt:  time.Now().UTC(),
	}
	std, err = svc.repo.CreateStudent(std)
	if err != nil {
		if delErr := svc.users.Delete(usr.ID); delErr != nil {
			return Student{}, errors.Wrapf(err, "creating student profile (identity rollback also failed: %v)", delErr)
		}
		return Student{}, errors.Wrap(err, "creating student profile")
	}

	if len(ns.CourseIDs) > 0 {
		if err = svc.repo.SetEnrolledCourses(std.ID, ns.CourseIDs); err != nil {
			return Student{}, errors.Wrap(err, "setting enrolled courses")
		}
		std.CourseIDs = ns.CourseIDs
	}
	return std, nil
}

// Enroll adds the student to a course. Enrolling twice is not an error;
// the returned flag reports whether the student was already enrolled.
func (svc *Service) Enroll(studentID, courseID int) (already bool, err error) {
	ok, err := svc.courses.Exists(courseID)
	if err != nil {
		return false, errors.Wrap(err, "checking course")
	}
	if !ok {
		return false, ErrCourseNotFound
	}

	std, err := svc.repo.GetStudentByID(studentID)
	if err != nil {
		return false, err
	}
	if std.IsEnrolled(courseID) {
		return true, nil
	}
	return false, svc.repo.AddEnrolledCourse(studentID, courseID)
}

func (svc *Service) QueryAll() ([]Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) GetByID(id int) (Student, error) {
	return svc.repo.GetStudentByID(id)
}

// StudentExists reports whether a profile exists for the given ID.
func (svc *Service) StudentExists(id int) (bool, error) {
	if _, err := svc.repo.GetStudentByID(id); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetByUserID resolves the Student profile owned by an identity account.
// ErrNotFound is a valid state for accounts with no profile yet.
func (svc *Service) GetByUserID(userID int) (Student, error) {
	return svc.repo.GetStudentByUserID(userID)
}

// GetByEmail is the legacy lookup; profiles are owned via UserID.
func (svc *Service) GetByEmail(email string) (Student, error) {
	return svc.repo.GetStudentByEmail(core.CleanString(email, true /* lower */))
}

// EnrolledStudentIDs lists the IDs of students enrolled in the given course.
func (svc *Service) EnrolledStudentIDs(courseID int) ([]int, error) {
	return svc.repo.QueryEnrolledStudentIDs(courseID)
}

// RecordFee records a payment against a student.
func (svc *Service) RecordFee(studentID int, nf NewFee) (Fee, error) {
	if _, err := svc.repo.GetStudentByID(studentID); err != nil {
		return Fee{}, err
	}
	return svc.repo.CreateFee(Fee{
		StudentID:   studentID,
		AmountCents: nf.AmountCents,
		PaidOn:      core.DateOnly(nf.PaidOn),
	})
}

func (svc *Service) ListFees(studentID int) ([]Fee, error) {
	return svc.repo.QueryFeesByStudent(studentID)
}
