package course

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("course not found")
)

type (
	Repository interface {
		CreateCourse(crs Course) (Course, error)
		QueryAllCourses() ([]Course, error)
		GetCourseByID(id int) (Course, error)
		UpdateCourse(crs Course) (Course, error)
		// DeleteCourse removes the course and all records referencing it:
		// enrollments, results, study materials and assignments. Attendance
		// and fees belong to students and survive.
		DeleteCourse(id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Name:        nc.Name,
		Description: nc.Description,
		StartDate:   nc.StartDate,
		EndDate:     nc.EndDate,
		ImagePath:   nc.ImagePath,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateCourse(crs)
}

func (svc *Service) QueryAll() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *Service) GetByID(id int) (Course, error) {
	return svc.repo.GetCourseByID(id)
}

// Exists reports whether a course with the given ID exists.
func (svc *Service) Exists(id int) (bool, error) {
	if _, err := svc.repo.GetCourseByID(id); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (svc *Service) Update(id int, uc UpdateCourse) (Course, error) {
	crs := Course{
		ID:          id,
		Name:        uc.Name,
		Description: uc.Description,
		StartDate:   uc.StartDate,
		EndDate:     uc.EndDate,
		ImagePath:   uc.ImagePath,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateCourse(crs)
}

func (svc *Service) Delete(id int) error {
	return svc.repo.DeleteCourse(id)
}
