package gormdb

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/darasa/core/announce"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/message"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
)

// row models; kept separate from the core types so schema tags
// never leak into the domain.
type (
	userRow struct {
		ID           int    `gorm:"primaryKey"`
		Name         string `gorm:"size:255"`
		Username     string `gorm:"size:255;uniqueIndex"`
		Email        string `gorm:"size:255;uniqueIndex"`
		IsActive     bool
		Roles        string `gorm:"size:255"` // comma-separated role prefixes
		PasswordHash []byte
		CreatedAt    time.Time
		UpdatedAt    time.Time
		LastLogin    time.Time
	}

	courseRow struct {
		ID          int    `gorm:"primaryKey"`
		Name        string `gorm:"size:255"`
		Description string
		StartDate   time.Time
		EndDate     time.Time
		ImagePath   string `gorm:"size:512"`
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	studentRow struct {
		ID        int     `gorm:"primaryKey"`
		UserID    int     `gorm:"uniqueIndex"`
		User      userRow `gorm:"constraint:OnDelete:CASCADE"`
		FirstName string  `gorm:"size:255"`
		LastName  string  `gorm:"size:255"`
		Email     string  `gorm:"size:255;uniqueIndex"`
		Phone     string  `gorm:"size:32"`
		Address   string
		DOB       time.Time
		Gender    string      `gorm:"size:16"`
		JoinedAt  time.Time
		Courses   []courseRow `gorm:"many2many:student_courses;joinForeignKey:StudentID;joinReferences:CourseID;constraint:OnDelete:CASCADE"`
	}

	feeRow struct {
		ID          int        `gorm:"primaryKey"`
		StudentID   int        `gorm:"index"`
		Student     studentRow `gorm:"constraint:OnDelete:CASCADE"`
		AmountCents int64
		PaidOn      time.Time
	}

	attendanceRow struct {
		ID        int        `gorm:"primaryKey"`
		StudentID int        `gorm:"uniqueIndex:idx_attendance_student_date"`
		Student   studentRow `gorm:"constraint:OnDelete:CASCADE"`
		Date      time.Time  `gorm:"uniqueIndex:idx_attendance_student_date"`
		Present   bool
	}

	studyMaterialRow struct {
		ID          int    `gorm:"primaryKey"`
		Title       string `gorm:"size:255"`
		Description string
		FilePath    string    `gorm:"size:512"`
		CourseID    int       `gorm:"index"`
		Course      courseRow `gorm:"constraint:OnDelete:CASCADE"`
		UploaderID  int
		UploadedAt  time.Time
	}

	assignmentRow struct {
		ID          int    `gorm:"primaryKey"`
		Title       string `gorm:"size:255"`
		Description string
		FilePath    string    `gorm:"size:512"`
		CourseID    int       `gorm:"index"`
		Course      courseRow `gorm:"constraint:OnDelete:CASCADE"`
		AssignerID  int
		Assignees   []studentRow `gorm:"many2many:assignment_assignees;joinForeignKey:AssignmentID;joinReferences:StudentID;constraint:OnDelete:CASCADE"`
		DueDate     time.Time
		Marks       *int
		CreatedAt   time.Time
	}

	resultRow struct {
		ID          int        `gorm:"primaryKey"`
		StudentID   int        `gorm:"index"`
		Student     studentRow `gorm:"constraint:OnDelete:CASCADE"`
		CourseID    int        `gorm:"index"`
		Course      courseRow  `gorm:"constraint:OnDelete:CASCADE"`
		Marks       *int
		FilePath    string `gorm:"size:512"`
		Description string
		UploadedAt  time.Time
	}

	messageRow struct {
		ID             int `gorm:"primaryKey"`
		SenderID       int `gorm:"index"`
		ReceiverID     int `gorm:"index"`
		Content        string
		ReplyToID      *int
		ReplyTo        *messageRow `gorm:"foreignKey:ReplyToID;constraint:OnDelete:SET NULL"`
		SentAt         time.Time
		IsAnnouncement bool
	}

	announcementRow struct {
		ID        int    `gorm:"primaryKey"`
		Title     string `gorm:"size:255"`
		Content   string
		FilePath  string `gorm:"size:512"`
		CreatorID int
		CreatedAt time.Time
		ForAll    bool
		ForRole   string `gorm:"size:16"`
	}
)

func (userRow) TableName() string          { return "users" }
func (courseRow) TableName() string        { return "courses" }
func (studentRow) TableName() string       { return "students" }
func (feeRow) TableName() string           { return "fees" }
func (attendanceRow) TableName() string    { return "attendance" }
func (studyMaterialRow) TableName() string { return "study_materials" }
func (assignmentRow) TableName() string    { return "assignments" }
func (resultRow) TableName() string        { return "results" }
func (messageRow) TableName() string       { return "messages" }
func (announcementRow) TableName() string  { return "announcements" }

// Migrate brings the schema up to date.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&userRow{},
		&courseRow{},
		&studentRow{},
		&feeRow{},
		&attendanceRow{},
		&studyMaterialRow{},
		&assignmentRow{},
		&resultRow{},
		&messageRow{},
		&announcementRow{},
	)
	return errors.Wrap(err, "migrating database")
}

// row <-> core converters

func (r userRow) toUser() user.User {
	var roles []string
	if r.Roles != "" {
		roles = strings.Split(r.Roles, ",")
	}
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Username:     r.Username,
		Email:        r.Email,
		IsActive:     r.IsActive,
		Roles:        roles,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		LastLogin:    r.LastLogin,
	}
}

func userToRow(usr user.User) userRow {
	return userRow{
		ID:           usr.ID,
		Name:         usr.Name,
		Username:     usr.Username,
		Email:        usr.Email,
		IsActive:     usr.IsActive,
		Roles:        strings.Join(usr.Roles, ","),
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt,
		UpdatedAt:    usr.UpdatedAt,
		LastLogin:    usr.LastLogin,
	}
}

func (r courseRow) toCourse() course.Course {
	return course.Course{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		ImagePath:   r.ImagePath,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func courseToRow(crs course.Course) courseRow {
	return courseRow{
		ID:          crs.ID,
		Name:        crs.Name,
		Description: crs.Description,
		StartDate:   crs.StartDate,
		EndDate:     crs.EndDate,
		ImagePath:   crs.ImagePath,
		CreatedAt:   crs.CreatedAt,
		UpdatedAt:   crs.UpdatedAt,
	}
}

func (r studentRow) toStudent() student.Student {
	courseIDs := make([]int, 0, len(r.Courses))
	for _, crs := range r.Courses {
		courseIDs = append(courseIDs, crs.ID)
	}
	return student.Student{
		ID:        r.ID,
		UserID:    r.UserID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		DOB:       r.DOB,
		Gender:    r.Gender,
		JoinedAt:  r.JoinedAt,
		CourseIDs: courseIDs,
	}
}

func studentToRow(std student.Student) studentRow {
	return studentRow{
		ID:        std.ID,
		UserID:    std.UserID,
		FirstName: std.FirstName,
		LastName:  std.LastName,
		Email:     std.Email,
		Phone:     std.Phone,
		Address:   std.Address,
		DOB:       std.DOB,
		Gender:    std.Gender,
		JoinedAt:  std.JoinedAt,
	}
}

func (r feeRow) toFee() student.Fee {
	return student.Fee{ID: r.ID, StudentID: r.StudentID, AmountCents: r.AmountCents, PaidOn: r.PaidOn}
}

func (r attendanceRow) toAttendance() attendance.Attendance {
	return attendance.Attendance{ID: r.ID, StudentID: r.StudentID, Date: r.Date, Present: r.Present}
}

func (r studyMaterialRow) toMaterial() content.StudyMaterial {
	return content.StudyMaterial{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		FilePath:    r.FilePath,
		CourseID:    r.CourseID,
		UploaderID:  r.UploaderID,
		UploadedAt:  r.UploadedAt,
	}
}

func (r assignmentRow) toAssignment() content.Assignment {
	assigneeIDs := make([]int, 0, len(r.Assignees))
	for _, std := range r.Assignees {
		assigneeIDs = append(assigneeIDs, std.ID)
	}
	return content.Assignment{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		FilePath:    r.FilePath,
		CourseID:    r.CourseID,
		AssignerID:  r.AssignerID,
		AssigneeIDs: assigneeIDs,
		DueDate:     r.DueDate,
		Marks:       r.Marks,
		CreatedAt:   r.CreatedAt,
	}
}

func (r resultRow) toResult() content.Result {
	return content.Result{
		ID:          r.ID,
		StudentID:   r.StudentID,
		CourseID:    r.CourseID,
		Marks:       r.Marks,
		FilePath:    r.FilePath,
		Description: r.Description,
		UploadedAt:  r.UploadedAt,
	}
}

func (r messageRow) toMessage() message.Message {
	return message.Message{
		ID:             r.ID,
		SenderID:       r.SenderID,
		ReceiverID:     r.ReceiverID,
		Content:        r.Content,
		ReplyToID:      r.ReplyToID,
		SentAt:         r.SentAt,
		IsAnnouncement: r.IsAnnouncement,
	}
}

func (r announcementRow) toAnnouncement() announce.Announcement {
	return announce.Announcement{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		FilePath:  r.FilePath,
		CreatorID: r.CreatorID,
		CreatedAt: r.CreatedAt,
		ForAll:    r.ForAll,
		ForRole:   r.ForRole,
	}
}
