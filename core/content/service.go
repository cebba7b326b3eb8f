package content

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrMaterialNotFound   = errors.New("study material not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrStudentNotFound    = errors.New("student not found")
	errMissingFile        = errors.New("a file is required")
)

type (
	Repository interface {
		CreateMaterial(mat StudyMaterial) (StudyMaterial, error)
		QueryMaterialsByCourse(courseID int) ([]StudyMaterial, error)
		GetMaterialByID(id int) (StudyMaterial, error)
		CreateAssignment(asg Assignment) (Assignment, error)
		QueryAssignmentsByCourse(courseID int) ([]Assignment, error)
		QueryAssignmentsByAssignee(studentID int) ([]Assignment, error)
		GetAssignmentByID(id int) (Assignment, error)
		CreateResult(res Result) (Result, error)
		QueryResultsByStudent(studentID int) ([]Result, error)
		QueryResultsByCourse(courseID int) ([]Result, error)
	}

	// CourseDirectory reports course existence; satisfied by course.Service.
	CourseDirectory interface {
		Exists(id int) (bool, error)
	}

	// StudentDirectory reports student existence; satisfied by student.Service.
	StudentDirectory interface {
		StudentExists(id int) (bool, error)
	}

	Service struct {
		repo     Repository
		files    core.FileStore
		courses  CourseDirectory
		students StudentDirectory
	}
)

func NewService(repo Repository, files core.FileStore, courses CourseDirectory, students StudentDirectory) *Service {
	return &Service{repo: repo, files: files, courses: courses, students: students}
}

// UploadMaterial stores the file and creates the material record. The file
// is mandatory.
func (svc *Service) UploadMaterial(nm NewMaterial, file *FileUpload, uploaderID int) (StudyMaterial, error) {
	if file == nil || file.Content == nil {
		return StudyMaterial{}, core.NewValidationError(errMissingFile, core.FieldError{Field: "file", Error: "a file is required"})
	}
	if err := svc.checkCourse(nm.CourseID); err != nil {
		return StudyMaterial{}, err
	}

	ref, err := svc.files.Save("materials", file.Filename, file.Content)
	if err != nil {
		return StudyMaterial{}, errors.Wrap(err, "saving material file")
	}
	mat := StudyMaterial{
		Title:       nm.Title,
		Description: nm.Description,
		FilePath:    ref,
		CourseID:    nm.CourseID,
		UploaderID:  uploaderID,
		UploadedAt:  time.Now().UTC(),
	}
	mat, err = svc.repo.CreateMaterial(mat)
	if err != nil {
		_ = svc.files.Delete(ref)
		return StudyMaterial{}, errors.Wrap(err, "creating material")
	}
	return mat, nil
}

func (svc *Service) MaterialsByCourse(courseID int) ([]StudyMaterial, error) {
	return svc.repo.QueryMaterialsByCourse(courseID)
}

func (svc *Service) GetMaterial(id int) (StudyMaterial, error) {
	return svc.repo.GetMaterialByID(id)
}

// CreateAssignment stores the file and creates the assignment with its
// assignees. The file is mandatory; each assignee must be a known student.
func (svc *Service) CreateAssignment(na NewAssignment, file *FileUpload, assignerID int) (Assignment, error) {
	if file == nil || file.Content == nil {
		return Assignment{}, core.NewValidationError(errMissingFile, core.FieldError{Field: "file", Error: "a file is required"})
	}
	if err := svc.checkCourse(na.CourseID); err != nil {
		return Assignment{}, err
	}
	for _, studentID := range na.AssigneeIDs {
		ok, err := svc.students.StudentExists(studentID)
		if err != nil {
			return Assignment{}, errors.Wrap(err, "checking assignee")
		}
		if !ok {
			return Assignment{}, ErrStudentNotFound
		}
	}

	ref, err := svc.files.Save("assignments", file.Filename, file.Content)
	if err != nil {
		return Assignment{}, errors.Wrap(err, "saving assignment file")
	}
	asg := Assignment{
		Title:       na.Title,
		Description: na.Description,
		FilePath:    ref,
		CourseID:    na.CourseID,
		AssignerID:  assignerID,
		AssigneeIDs: na.AssigneeIDs,
		DueDate:     na.DueDate,
		Marks:       na.Marks,
		CreatedAt:   time.Now().UTC(),
	}
	asg, err = svc.repo.CreateAssignment(asg)
	if err != nil {
		_ = svc.files.Delete(ref)
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return asg, nil
}

func (svc *Service) AssignmentsByCourse(courseID int) ([]Assignment, error) {
	return svc.repo.QueryAssignmentsByCourse(courseID)
}

func (svc *Service) AssignmentsForStudent(studentID int) ([]Assignment, error) {
	return svc.repo.QueryAssignmentsByAssignee(studentID)
}

func (svc *Service) GetAssignment(id int) (Assignment, error) {
	return svc.repo.GetAssignmentByID(id)
}

// RecordResult creates a result for a student on a course. The file is
// optional; when present it is stored first.
func (svc *Service) RecordResult(nr NewResult, file *FileUpload) (Result, error) {
	if err := svc.checkCourse(nr.CourseID); err != nil {
		return Result{}, err
	}
	ok, err := svc.students.StudentExists(nr.StudentID)
	if err != nil {
		return Result{}, errors.Wrap(err, "checking student")
	}
	if !ok {
		return Result{}, ErrStudentNotFound
	}

	var ref string
	if file != nil && file.Content != nil {
		if ref, err = svc.files.Save("results", file.Filename, file.Content); err != nil {
			return Result{}, errors.Wrap(err, "saving result file")
		}
	}
	res := Result{
		StudentID:   nr.StudentID,
		CourseID:    nr.CourseID,
		Marks:       nr.Marks,
		FilePath:    ref,
		Description: nr.Description,
		UploadedAt:  time.Now().UTC(),
	}
	res, err = svc.repo.CreateResult(res)
	if err != nil {
		if ref != "" {
			_ = svc.files.Delete(ref)
		}
		return Result{}, errors.Wrap(err, "creating result")
	}
	return res, nil
}

func (svc *Service) ResultsByStudent(studentID int) ([]Result, error) {
	return svc.repo.QueryResultsByStudent(studentID)
}

func (svc *Service) ResultsByCourse(courseID int) ([]Result, error) {
	return svc.repo.QueryResultsByCourse(courseID)
}

func (svc *Service) checkCourse(id int) error {
	ok, err := svc.courses.Exists(id)
	if err != nil {
		return errors.Wrap(err, "checking course")
	}
	if !ok {
		return ErrCourseNotFound
	}
	return nil
}
