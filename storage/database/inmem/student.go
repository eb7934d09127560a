package inmemdb

import (
	"context"

	"github.com/scwportal/backend/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) GetStudent(_ context.Context, filter student.GetFilter) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if filter.ID != "" {
		if stu, ok := repo.db.table[filter.ID]; ok {
			return *stu, nil
		}
		return student.Student{}, student.ErrNotFound
	}
	for _, stu := range repo.db.table {
		if (filter.Email != "" && stu.Email == filter.Email) ||
			(filter.Email == "" && filter.RollNo != "" && stu.RollNo == filter.RollNo) {
			return *stu, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) CreateStudent(_ context.Context, stu student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, s := range repo.db.table {
		if s.Email == stu.Email {
			return student.Student{}, student.ErrEmailExists
		}
		if s.RollNo == stu.RollNo {
			return student.Student{}, student.ErrRollNoExists
		}
	}
	repo.db.table[stu.ID] = &stu
	return stu, nil
}

// CountStudents returns the number of stored students.
func (db *DB) CountStudents() int {
	db.student.RLock()
	defer db.student.RUnlock()
	return len(db.student.table)
}
