package student

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

// Student is an enrollee's profile record, owned by its identity account.
type Student struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address,omitempty"`
	DOB       time.Time `json:"dob,omitempty"`
	Gender    string    `json:"gender,omitempty"`
	JoinedAt  time.Time `json:"joined_at"` // UTC

	// CourseIDs is the enrollment relation.
	CourseIDs []int `json:"course_ids"`
}

func (s *Student) Name() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// IsEnrolled reports whether the student is enrolled in the given course.
func (s *Student) IsEnrolled(courseID int) bool {
	for _, id := range s.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}

// NewStudent contains information needed to register a new Student:
// the identity account fields plus the profile and course selection.
type NewStudent struct {
	Username        string `json:"username" validate:"required,alphanum_"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`

	FirstName string    `json:"first_name" validate:"required"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email" validate:"required,email"`
	Phone     string    `json:"phone" validate:"required"`
	Address   string    `json:"address"`
	DOB       time.Time `json:"dob"`
	Gender    string    `json:"gender" validate:"omitempty,oneof=male female other"`

	// CourseIDs is the initial course selection; empty selection is allowed.
	CourseIDs []int `json:"course_ids"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, svc *Service) error {
	ns.Username = core.CleanString(ns.Username, true /* lower */)
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	ns.Address = core.CleanString(ns.Address)
	ns.Gender = core.CleanString(ns.Gender, true /* lower */)

	if err := validate.Struct(ns); err != nil {
		return err
	}
	if err := svc.users.CheckUniqueness(ns.Username, ns.Email); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(ns.Email)
}

// Fee is a payment recorded against a student.
type Fee struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	// AmountCents is the paid amount in the smallest currency unit.
	AmountCents int64     `json:"amount_cents"`
	PaidOn      time.Time `json:"paid_on"`
}

// NewFee contains information needed to record a Fee payment.
type NewFee struct {
	AmountCents int64     `json:"amount_cents" validate:"gte=0"`
	PaidOn      time.Time `json:"paid_on" validate:"required"`
}

func (nf *NewFee) Validate(validate *validator.Validate) error {
	return validate.Struct(nf)
}
