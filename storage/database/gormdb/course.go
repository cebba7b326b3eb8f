package gormdb

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/darasa/core/course"
)

type courseRepository struct {
	db *gorm.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *gorm.DB) course.Repository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(crs course.Course) (course.Course, error) {
	row := courseToRow(crs)
	row.ID = 0
	if err := repo.db.Create(&row).Error; err != nil {
		return course.Course{}, errors.Wrap(err, "creating course")
	}
	return row.toCourse(), nil
}

func (repo *courseRepository) QueryAllCourses() ([]course.Course, error) {
	var rows []courseRow
	if err := repo.db.Order("id").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toCourse())
	}
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(id int) (course.Course, error) {
	var row courseRow
	if err := repo.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "getting course")
	}
	return row.toCourse(), nil
}

func (repo *courseRepository) UpdateCourse(crs course.Course) (course.Course, error) {
	row := courseToRow(crs)
	res := repo.db.Model(&courseRow{ID: crs.ID}).Updates(map[string]interface{}{
		"name":        row.Name,
		"description": row.Description,
		"start_date":  row.StartDate,
		"end_date":    row.EndDate,
		"image_path":  row.ImagePath,
		"updated_at":  row.UpdatedAt,
	})
	if res.Error != nil {
		return course.Course{}, errors.Wrap(res.Error, "updating course")
	}
	if res.RowsAffected == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return repo.GetCourseByID(crs.ID)
}

// DeleteCourse relies on the schema's ON DELETE rules: enrollments,
// results, materials and assignments referencing the course go with it.
func (repo *courseRepository) DeleteCourse(id int) error {
	res := repo.db.Delete(&courseRow{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "deleting course")
	}
	if res.RowsAffected == 0 {
		return course.ErrNotFound
	}
	return nil
}
