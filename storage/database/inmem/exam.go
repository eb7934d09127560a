package inmemdb

import (
	"context"
	"sort"

	"github.com/scwportal/backend/core/exam"
)

type examRepository struct {
	db *examTable
}

var _ exam.Repository = (*examRepository)(nil) // interface compliance check

func NewExamRepository(db *DB) exam.Repository {
	return &examRepository{db: db.exam}
}

func (repo *examRepository) GetExamByID(_ context.Context, id string) (exam.Exam, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ex, ok := repo.db.table[id]; ok {
		return *ex, nil
	}
	return exam.Exam{}, exam.ErrNotFound
}

func (repo *examRepository) CreateExam(_ context.Context, ex exam.Exam) (exam.Exam, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[ex.ID] = &ex
	return ex, nil
}

func (repo *examRepository) ListExams(_ context.Context) ([]exam.Exam, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	exams := make([]exam.Exam, 0, len(repo.db.table))
	for _, ex := range repo.db.table {
		exams = append(exams, *ex)
	}
	sort.Slice(exams, func(i, j int) bool {
		a, b := exams[i], exams[j]
		if a.ExamDate.Valid != b.ExamDate.Valid {
			return !a.ExamDate.Valid // nulls first, as postgres sorts them DESC
		}
		if a.ExamDate.Valid && !a.ExamDate.Time.Equal(b.ExamDate.Time) {
			return a.ExamDate.Time.After(b.ExamDate.Time)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return exams, nil
}
