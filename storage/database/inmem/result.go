package inmemdb

import (
	"context"
	"sort"

	"github.com/scwportal/backend/core/result"
)

type resultRepository struct {
	db       *resultTable
	students *studentTable
	exams    *examTable
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(db *DB) result.Repository {
	return &resultRepository{db: db.result, students: db.student, exams: db.exam}
}

func (repo *resultRepository) find(studentID, examID string) (*result.Result, bool) {
	for _, res := range repo.db.table {
		if res.StudentID == studentID && res.ExamID == examID {
			return res, true
		}
	}
	return nil, false
}

func (repo *resultRepository) GetResult(_ context.Context, studentID, examID string) (result.Result, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if res, ok := repo.find(studentID, examID); ok {
		return *res, nil
	}
	return result.Result{}, result.ErrNotFound
}

func (repo *resultRepository) CreateResult(_ context.Context, res result.Result) (result.Result, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.find(res.StudentID, res.ExamID); ok {
		return result.Result{}, result.ErrResultExists
	}
	repo.db.table[res.ID] = &res
	return res, nil
}

func (repo *resultRepository) UpdateResult(_ context.Context, res result.Result) (result.Result, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// only the marks are writable
	orig, ok := repo.db.table[res.ID]
	if !ok {
		return result.Result{}, result.ErrNotFound
	}
	orig.MarksObtained = res.MarksObtained
	orig.TotalMarks = res.TotalMarks
	orig.Percentage = res.Percentage
	orig.Grade = res.Grade
	orig.Remarks = res.Remarks
	return *orig, nil
}

func (repo *resultRepository) ListResults(_ context.Context, studentID string) ([]result.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	repo.students.RLock()
	defer repo.students.RUnlock()
	repo.exams.RLock()
	defer repo.exams.RUnlock()

	entries := make([]result.Entry, 0)
	for _, res := range repo.db.table {
		if studentID != "" && res.StudentID != studentID {
			continue
		}
		entry := result.Entry{Result: *res}
		if ex, ok := repo.exams.table[res.ExamID]; ok {
			entry.Exam = &result.ExamSummary{Title: ex.Title, Course: ex.Course}
		}
		if stu, ok := repo.students.table[res.StudentID]; ok {
			entry.Student = &result.StudentSummary{Name: stu.Name, RollNo: stu.RollNo}
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// QueryResults returns every stored result of a student for an exam; there is at most one.
func (db *DB) QueryResults(studentID, examID string) []result.Result {
	db.result.RLock()
	defer db.result.RUnlock()

	results := make([]result.Result, 0, 1)
	for _, res := range db.result.table {
		if res.StudentID == studentID && res.ExamID == examID {
			results = append(results, *res)
		}
	}
	return results
}
