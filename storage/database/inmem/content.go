package inmemdb

import (
	"sort"

	"github.com/trezcool/darasa/core/content"
)

type contentRepository struct {
	db *contentTable
}

var _ content.Repository = (*contentRepository)(nil) // interface compliance check

func NewContentRepository(db *DB) content.Repository {
	return &contentRepository{db: db.content}
}

func (repo *contentRepository) CreateMaterial(mat content.StudyMaterial) (content.StudyMaterial, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.matSeq++
	mat.ID = repo.db.matSeq
	repo.db.materials[mat.ID] = &mat
	return mat, nil
}

func (repo *contentRepository) QueryMaterialsByCourse(courseID int) ([]content.StudyMaterial, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var mats []content.StudyMaterial
	for _, mat := range repo.db.materials {
		if mat.CourseID == courseID {
			mats = append(mats, *mat)
		}
	}
	sort.Slice(mats, func(i, j int) bool { return mats[i].UploadedAt.After(mats[j].UploadedAt) })
	return mats, nil
}

func (repo *contentRepository) GetMaterialByID(id int) (content.StudyMaterial, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if mat, ok := repo.db.materials[id]; ok {
		return *mat, nil
	}
	return content.StudyMaterial{}, content.ErrMaterialNotFound
}

func (repo *contentRepository) CreateAssignment(asg content.Assignment) (content.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.asgSeq++
	asg.ID = repo.db.asgSeq
	repo.db.assignments[asg.ID] = &asg
	return asg, nil
}

func (repo *contentRepository) QueryAssignmentsByCourse(courseID int) ([]content.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var asgs []content.Assignment
	for _, asg := range repo.db.assignments {
		if asg.CourseID == courseID {
			asgs = append(asgs, *asg)
		}
	}
	sortAssignments(asgs)
	return asgs, nil
}

func (repo *contentRepository) QueryAssignmentsByAssignee(studentID int) ([]content.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var asgs []content.Assignment
	for _, asg := range repo.db.assignments {
		for _, id := range asg.AssigneeIDs {
			if id == studentID {
				asgs = append(asgs, *asg)
				break
			}
		}
	}
	sortAssignments(asgs)
	return asgs, nil
}

func (repo *contentRepository) GetAssignmentByID(id int) (content.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if asg, ok := repo.db.assignments[id]; ok {
		return *asg, nil
	}
	return content.Assignment{}, content.ErrAssignmentNotFound
}

func (repo *contentRepository) CreateResult(res content.Result) (content.Result, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.resSeq++
	res.ID = repo.db.resSeq
	repo.db.results[res.ID] = &res
	return res, nil
}

func (repo *contentRepository) QueryResultsByStudent(studentID int) ([]content.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var results []content.Result
	for _, res := range repo.db.results {
		if res.StudentID == studentID {
			results = append(results, *res)
		}
	}
	sortResults(results)
	return results, nil
}

func (repo *contentRepository) QueryResultsByCourse(courseID int) ([]content.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var results []content.Result
	for _, res := range repo.db.results {
		if res.CourseID == courseID {
			results = append(results, *res)
		}
	}
	sortResults(results)
	return results, nil
}

func sortAssignments(asgs []content.Assignment) {
	sort.Slice(asgs, func(i, j int) bool { return asgs[i].DueDate.Before(asgs[j].DueDate) })
}

func sortResults(results []content.Result) {
	sort.Slice(results, func(i, j int) bool { return results[i].UploadedAt.After(results[j].UploadedAt) })
}
