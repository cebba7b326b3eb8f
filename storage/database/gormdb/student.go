package gormdb

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/darasa/core/student"
)

type studentRepository struct {
	db *gorm.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *gorm.DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CheckEmailUniqueness(email string, excludedStudents ...student.Student) error {
	q := repo.db.Model(&studentRow{}).Where("email = ?", email)
	if len(excludedStudents) > 0 {
		exclIDs := make([]int, 0, len(excludedStudents))
		for _, std := range excludedStudents {
			exclIDs = append(exclIDs, std.ID)
		}
		q = q.Where("id NOT IN ?", exclIDs)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return errors.Wrap(err, "checking student email")
	}
	if n > 0 {
		return student.ErrEmailExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(std student.Student) (student.Student, error) {
	row := studentToRow(std)
	row.ID = 0
	if err := repo.db.Create(&row).Error; err != nil {
		return student.Student{}, errors.Wrap(err, "creating student")
	}
	return repo.GetStudentByID(row.ID)
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.Preload("Courses").Order("id").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toStudent())
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(id int) (student.Student, error) {
	return repo.getStudentWhere("id = ?", id)
}

func (repo *studentRepository) GetStudentByUserID(userID int) (student.Student, error) {
	return repo.getStudentWhere("user_id = ?", userID)
}

func (repo *studentRepository) GetStudentByEmail(email string) (student.Student, error) {
	return repo.getStudentWhere("email = ?", email)
}

func (repo *studentRepository) getStudentWhere(cond string, args ...interface{}) (student.Student, error) {
	var row studentRow
	if err := repo.db.Preload("Courses").Where(cond, args...).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return row.toStudent(), nil
}

func (repo *studentRepository) SetEnrolledCourses(studentID int, courseIDs []int) error {
	courses := make([]courseRow, 0, len(courseIDs))
	for _, id := range courseIDs {
		courses = append(courses, courseRow{ID: id})
	}
	err := repo.db.Model(&studentRow{ID: studentID}).Association("Courses").Replace(courses)
	return errors.Wrap(err, "setting enrolled courses")
}

func (repo *studentRepository) AddEnrolledCourse(studentID, courseID int) error {
	err := repo.db.Model(&studentRow{ID: studentID}).Association("Courses").Append(&courseRow{ID: courseID})
	return errors.Wrap(err, "adding enrolled course")
}

func (repo *studentRepository) QueryEnrolledStudentIDs(courseID int) ([]int, error) {
	var ids []int
	err := repo.db.Table("student_courses").
		Where("course_id = ?", courseID).
		Order("student_id").
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying enrolled students")
	}
	return ids, nil
}

func (repo *studentRepository) CreateFee(fee student.Fee) (student.Fee, error) {
	row := feeRow{StudentID: fee.StudentID, AmountCents: fee.AmountCents, PaidOn: fee.PaidOn}
	if err := repo.db.Create(&row).Error; err != nil {
		return student.Fee{}, errors.Wrap(err, "creating fee")
	}
	return row.toFee(), nil
}

func (repo *studentRepository) QueryFeesByStudent(studentID int) ([]student.Fee, error) {
	var rows []feeRow
	if err := repo.db.Where("student_id = ?", studentID).Order("paid_on DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying fees")
	}
	fees := make([]student.Fee, 0, len(rows))
	for _, row := range rows {
		fees = append(fees, row.toFee())
	}
	return fees, nil
}
