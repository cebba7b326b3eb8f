package inmemdb

import (
	"sort"
	"time"

	"github.com/trezcool/darasa/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) UpsertAttendance(att attendance.Attendance) (attendance.Attendance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.table {
		if existing.StudentID == att.StudentID && existing.Date.Equal(att.Date) {
			existing.Present = att.Present
			return *existing, nil
		}
	}
	repo.db.seq++
	att.ID = repo.db.seq
	repo.db.table[att.ID] = &att
	return att, nil
}

func (repo *attendanceRepository) QueryAttendanceByStudent(studentID int) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var atts []attendance.Attendance
	for _, att := range repo.db.table {
		if att.StudentID == studentID {
			atts = append(atts, *att)
		}
	}
	sort.Slice(atts, func(i, j int) bool { return atts[i].Date.After(atts[j].Date) })
	return atts, nil
}

func (repo *attendanceRepository) QueryAttendanceByDate(date time.Time, studentIDs []int) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	wanted := make(map[int]bool, len(studentIDs))
	for _, id := range studentIDs {
		wanted[id] = true
	}

	var atts []attendance.Attendance
	for _, att := range repo.db.table {
		if att.Date.Equal(date) && wanted[att.StudentID] {
			atts = append(atts, *att)
		}
	}
	sort.Slice(atts, func(i, j int) bool { return atts[i].StudentID < atts[j].StudentID })
	return atts, nil
}
