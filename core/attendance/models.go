package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Attendance records a student's presence on a given date.
type Attendance struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	Date      time.Time `json:"date"`
	Present   bool      `json:"present"`
}

// MarkSheet is one day's attendance submission for a course: every student
// enrolled in the course gets a record, present if listed in PresentIDs.
type MarkSheet struct {
	Date       time.Time `json:"date" validate:"required"`
	PresentIDs []int     `json:"present_ids"`
}

func (ms *MarkSheet) Validate(validate *validator.Validate) error {
	return validate.Struct(ms)
}

func (ms *MarkSheet) isPresent(studentID int) bool {
	for _, id := range ms.PresentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}
