package inmemdb

import (
	"sync"

	"github.com/trezcool/darasa/core/announce"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/message"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
)

type (
	DB struct {
		user       *userTable
		course     *courseTable
		student    *studentTable
		attendance *attendanceTable
		content    *contentTable
		message    *messageTable
		announce   *announceTable
	}

	userTable struct {
		sync.RWMutex
		seq   int
		table map[int]*user.User
	}

	courseTable struct {
		sync.RWMutex
		seq   int
		table map[int]*course.Course
	}

	studentTable struct {
		sync.RWMutex
		seq    int
		feeSeq int
		table  map[int]*student.Student
		fees   map[int]*student.Fee
	}

	attendanceTable struct {
		sync.RWMutex
		seq   int
		table map[int]*attendance.Attendance
	}

	contentTable struct {
		sync.RWMutex
		matSeq      int
		asgSeq      int
		resSeq      int
		materials   map[int]*content.StudyMaterial
		assignments map[int]*content.Assignment
		results     map[int]*content.Result
	}

	messageTable struct {
		sync.RWMutex
		seq   int
		table map[int]*message.Message
	}

	announceTable struct {
		sync.RWMutex
		seq   int
		table map[int]*announce.Announcement
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[int]*user.User)},
		course:     &courseTable{table: make(map[int]*course.Course)},
		student:    &studentTable{table: make(map[int]*student.Student), fees: make(map[int]*student.Fee)},
		attendance: &attendanceTable{table: make(map[int]*attendance.Attendance)},
		content: &contentTable{
			materials:   make(map[int]*content.StudyMaterial),
			assignments: make(map[int]*content.Assignment),
			results:     make(map[int]*content.Result),
		},
		message:  &messageTable{table: make(map[int]*message.Message)},
		announce: &announceTable{table: make(map[int]*announce.Announcement)},
	}
	return db, nil
}
