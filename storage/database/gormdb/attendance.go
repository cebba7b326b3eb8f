package gormdb

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trezcool/darasa/core/attendance"
)

type attendanceRepository struct {
	db *gorm.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *gorm.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) UpsertAttendance(att attendance.Attendance) (attendance.Attendance, error) {
	row := attendanceRow{StudentID: att.StudentID, Date: att.Date, Present: att.Present}
	err := repo.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"present"}),
	}).Create(&row).Error
	if err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "upserting attendance")
	}
	// the conflict path does not report the existing PK; fetch it
	if err = repo.db.Where("student_id = ? AND date = ?", att.StudentID, att.Date).First(&row).Error; err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "getting attendance")
	}
	return row.toAttendance(), nil
}

func (repo *attendanceRepository) QueryAttendanceByStudent(studentID int) ([]attendance.Attendance, error) {
	var rows []attendanceRow
	if err := repo.db.Where("student_id = ?", studentID).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	return toAttendanceList(rows), nil
}

func (repo *attendanceRepository) QueryAttendanceByDate(date time.Time, studentIDs []int) ([]attendance.Attendance, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	var rows []attendanceRow
	err := repo.db.Where("date = ? AND student_id IN ?", date, studentIDs).
		Order("student_id").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	return toAttendanceList(rows), nil
}

func toAttendanceList(rows []attendanceRow) []attendance.Attendance {
	atts := make([]attendance.Attendance, 0, len(rows))
	for _, row := range rows {
		atts = append(atts, row.toAttendance())
	}
	return atts
}
