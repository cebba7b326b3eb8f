package inmemdb

import (
	"sort"

	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	repo.db.course.Lock()
	defer repo.db.course.Unlock()

	repo.db.course.seq++
	crs.ID = repo.db.course.seq
	repo.db.course.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	repo.db.course.RLock()
	defer repo.db.course.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.course.table))
	for _, crs := range repo.db.course.table {
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(id int) (course.Course, error) {
	repo.db.course.RLock()
	defer repo.db.course.RUnlock()

	if crs, ok := repo.db.course.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) UpdateCourse(crs course.Course) (course.Course, error) {
	repo.db.course.Lock()
	defer repo.db.course.Unlock()

	if _, ok := repo.db.course.table[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.course.table[crs.ID] = &crs
	return crs, nil
}

// DeleteCourse mimics the schema's ON DELETE rules: enrollments, results,
// materials and assignments referencing the course go with it.
func (repo *courseRepository) DeleteCourse(id int) error {
	repo.db.course.Lock()
	if _, ok := repo.db.course.table[id]; !ok {
		repo.db.course.Unlock()
		return course.ErrNotFound
	}
	delete(repo.db.course.table, id)
	repo.db.course.Unlock()

	// enrollments
	repo.db.student.Lock()
	for _, std := range repo.db.student.table {
		for i, courseID := range std.CourseIDs {
			if courseID == id {
				std.CourseIDs = append(std.CourseIDs[:i], std.CourseIDs[i+1:]...)
				break
			}
		}
	}
	repo.db.student.Unlock()

	// dependent content
	repo.db.content.Lock()
	for matID, mat := range repo.db.content.materials {
		if mat.CourseID == id {
			delete(repo.db.content.materials, matID)
		}
	}
	for asgID, asg := range repo.db.content.assignments {
		if asg.CourseID == id {
			delete(repo.db.content.assignments, asgID)
		}
	}
	for resID, res := range repo.db.content.results {
		if res.CourseID == id {
			delete(repo.db.content.results, resID)
		}
	}
	repo.db.content.Unlock()
	return nil
}
