package gormdb

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/darasa/core/content"
)

type contentRepository struct {
	db *gorm.DB
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *gorm.DB) content.Repository {
	return &contentRepository{db: db}
}

func (repo *contentRepository) CreateMaterial(mat content.StudyMaterial) (content.StudyMaterial, error) {
	row := studyMaterialRow{
		Title:       mat.Title,
		Description: mat.Description,
		FilePath:    mat.FilePath,
		CourseID:    mat.CourseID,
		UploaderID:  mat.UploaderID,
		UploadedAt:  mat.UploadedAt,
	}
	if err := repo.db.Create(&row).Error; err != nil {
		return content.StudyMaterial{}, errors.Wrap(err, "creating material")
	}
	return row.toMaterial(), nil
}

func (repo *contentRepository) QueryMaterialsByCourse(courseID int) ([]content.StudyMaterial, error) {
	var rows []studyMaterialRow
	if err := repo.db.Where("course_id = ?", courseID).Order("uploaded_at DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying materials")
	}
	mats := make([]content.StudyMaterial, 0, len(rows))
	for _, row := range rows {
		mats = append(mats, row.toMaterial())
	}
	return mats, nil
}

func (repo *contentRepository) GetMaterialByID(id int) (content.StudyMaterial, error) {
	var row studyMaterialRow
	if err := repo.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return content.StudyMaterial{}, content.ErrMaterialNotFound
		}
		return content.StudyMaterial{}, errors.Wrap(err, "getting material")
	}
	return row.toMaterial(), nil
}

func (repo *contentRepository) CreateAssignment(asg content.Assignment) (content.Assignment, error) {
	row := assignmentRow{
		Title:       asg.Title,
		Description: asg.Description,
		FilePath:    asg.FilePath,
		CourseID:    asg.CourseID,
		AssignerID:  asg.AssignerID,
		DueDate:     asg.DueDate,
		Marks:       asg.Marks,
		CreatedAt:   asg.CreatedAt,
	}
	for _, studentID := range asg.AssigneeIDs {
		row.Assignees = append(row.Assignees, studentRow{ID: studentID})
	}
	if err := repo.db.Omit("Assignees.*").Create(&row).Error; err != nil {
		return content.Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return repo.GetAssignmentByID(row.ID)
}

func (repo *contentRepository) QueryAssignmentsByCourse(courseID int) ([]content.Assignment, error) {
	var rows []assignmentRow
	err := repo.db.Preload("Assignees").
		Where("course_id = ?", courseID).
		Order("due_date").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	return toAssignmentList(rows), nil
}

func (repo *contentRepository) QueryAssignmentsByAssignee(studentID int) ([]content.Assignment, error) {
	var rows []assignmentRow
	err := repo.db.Preload("Assignees").
		Joins("JOIN assignment_assignees aa ON aa.assignment_id = assignments.id").
		Where("aa.student_id = ?", studentID).
		Order("due_date").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	return toAssignmentList(rows), nil
}

func (repo *contentRepository) GetAssignmentByID(id int) (content.Assignment, error) {
	var row assignmentRow
	if err := repo.db.Preload("Assignees").First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return content.Assignment{}, content.ErrAssignmentNotFound
		}
		return content.Assignment{}, errors.Wrap(err, "getting assignment")
	}
	return row.toAssignment(), nil
}

func (repo *contentRepository) CreateResult(res content.Result) (content.Result, error) {
	row := resultRow{
		StudentID:   res.StudentID,
		CourseID:    res.CourseID,
		Marks:       res.Marks,
		FilePath:    res.FilePath,
		Description: res.Description,
		UploadedAt:  res.UploadedAt,
	}
	if err := repo.db.Create(&row).Error; err != nil {
		return content.Result{}, errors.Wrap(err, "creating result")
	}
	return row.toResult(), nil
}

func (repo *contentRepository) QueryResultsByStudent(studentID int) ([]content.Result, error) {
	return repo.queryResults("student_id = ?", studentID)
}

func (repo *contentRepository) QueryResultsByCourse(courseID int) ([]content.Result, error) {
	return repo.queryResults("course_id = ?", courseID)
}

func (repo *contentRepository) queryResults(cond string, arg interface{}) ([]content.Result, error) {
	var rows []resultRow
	if err := repo.db.Where(cond, arg).Order("uploaded_at DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying results")
	}
	results := make([]content.Result, 0, len(rows))
	for _, row := range rows {
		results = append(results, row.toResult())
	}
	return results, nil
}

func toAssignmentList(rows []assignmentRow) []content.Assignment {
	asgs := make([]content.Assignment, 0, len(rows))
	for _, row := range rows {
		asgs = append(asgs, row.toAssignment())
	}
	return asgs
}
