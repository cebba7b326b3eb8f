package inmemdb

import (
	"sort"

	"github.com/trezcool/darasa/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, std := range repo.db.table {
		students = append(students, *std)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students
}

func (repo *studentRepository) CheckEmailUniqueness(email string, excludedStudents ...student.Student) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excluded := make(map[int]bool, len(excludedStudents))
	for _, std := range excludedStudents {
		excluded[std.ID] = true
	}
	for _, std := range repo.query() {
		if std.Email == email && !excluded[std.ID] {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	std.ID = repo.db.seq
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) QueryAllStudents() ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *studentRepository) GetStudentByID(id int) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByUserID(userID int) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.query() {
		if std.UserID == userID {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByEmail(email string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.query() {
		if std.Email == email {
			return std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) SetEnrolledCourses(studentID int, courseIDs []int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	std, ok := repo.db.table[studentID]
	if !ok {
		return student.ErrNotFound
	}
	std.CourseIDs = append([]int(nil), courseIDs...)
	return nil
}

func (repo *studentRepository) AddEnrolledCourse(studentID, courseID int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	std, ok := repo.db.table[studentID]
	if !ok {
		return student.ErrNotFound
	}
	for _, id := range std.CourseIDs {
		if id == courseID {
			return nil
		}
	}
	std.CourseIDs = append(std.CourseIDs, courseID)
	return nil
}

func (repo *studentRepository) QueryEnrolledStudentIDs(courseID int) ([]int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var ids []int
	for _, std := range repo.query() {
		if std.IsEnrolled(courseID) {
			ids = append(ids, std.ID)
		}
	}
	return ids, nil
}

func (repo *studentRepository) CreateFee(fee student.Fee) (student.Fee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[fee.StudentID]; !ok {
		return student.Fee{}, student.ErrNotFound
	}
	repo.db.feeSeq++
	fee.ID = repo.db.feeSeq
	repo.db.fees[fee.ID] = &fee
	return fee, nil
}

func (repo *studentRepository) QueryFeesByStudent(studentID int) ([]student.Fee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var fees []student.Fee
	for _, fee := range repo.db.fees {
		if fee.StudentID == studentID {
			fees = append(fees, *fee)
		}
	}
	sort.Slice(fees, func(i, j int) bool { return fees[i].PaidOn.After(fees[j].PaidOn) })
	return fees, nil
}
