package content

import (
	"io"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

type (
	// StudyMaterial is a teacher-uploaded document attached to a course.
	StudyMaterial struct {
		ID          int       `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description,omitempty"`
		FilePath    string    `json:"file_path"`
		CourseID    int       `json:"course_id"`
		UploaderID  int       `json:"uploader_id"`
		UploadedAt  time.Time `json:"uploaded_at"`
	}

	// Assignment is work given to a set of students on a course.
	Assignment struct {
		ID          int       `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description,omitempty"`
		FilePath    string    `json:"file_path"`
		CourseID    int       `json:"course_id"`
		AssignerID  int       `json:"assigner_id"`
		AssigneeIDs []int     `json:"assignee_ids"`
		DueDate     time.Time `json:"due_date"`
		Marks       *int      `json:"marks,omitempty"`
		CreatedAt   time.Time `json:"created_at"`
	}

	// Result records a student's marks on a course, optionally with a
	// marked-up document.
	Result struct {
		ID          int       `json:"id"`
		StudentID   int       `json:"student_id"`
		CourseID    int       `json:"course_id"`
		Marks       *int      `json:"marks,omitempty"`
		FilePath    string    `json:"file_path,omitempty"`
		Description string    `json:"description,omitempty"`
		UploadedAt  time.Time `json:"uploaded_at"`
	}

	// FileUpload carries an incoming file before it hits the FileStore.
	FileUpload struct {
		Filename string
		Content  io.Reader
	}

	NewMaterial struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		CourseID    int    `json:"course_id" validate:"required"`
	}

	NewAssignment struct {
		Title       string    `json:"title" validate:"required"`
		Description string    `json:"description"`
		CourseID    int       `json:"course_id" validate:"required"`
		AssigneeIDs []int     `json:"assignee_ids"`
		DueDate     time.Time `json:"due_date" validate:"required"`
		Marks       *int      `json:"marks" validate:"omitempty,gte=0"`
	}

	NewResult struct {
		StudentID   int    `json:"student_id" validate:"required"`
		CourseID    int    `json:"course_id" validate:"required"`
		Marks       *int   `json:"marks" validate:"omitempty,gte=0"`
		Description string `json:"description"`
	}
)

func (nm *NewMaterial) Validate(validate *validator.Validate) error {
	nm.Title = core.CleanString(nm.Title)
	return validate.Struct(nm)
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	return validate.Struct(na)
}

func (nr *NewResult) Validate(validate *validator.Validate) error {
	return validate.Struct(nr)
}
