// Package inmemdb keeps the core tables in memory. It enforces the same unique
// constraints as the PostgreSQL schema.
package inmemdb

import (
	"sync"

	"github.com/scwportal/backend/core/exam"
	"github.com/scwportal/backend/core/result"
	"github.com/scwportal/backend/core/setting"
	"github.com/scwportal/backend/core/student"
)

type (
	DB struct {
		student *studentTable
		exam    *examTable
		result  *resultTable
		setting *settingTable
	}

	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student // {id: Student}
	}

	examTable struct {
		sync.RWMutex
		table map[string]*exam.Exam
	}

	resultTable struct {
		sync.RWMutex
		table map[string]*result.Result
	}

	settingTable struct {
		sync.RWMutex
		table map[string]*setting.Setting // {key: Setting}
	}
)

func Open() *DB {
	return &DB{
		student: &studentTable{table: make(map[string]*student.Student)},
		exam:    &examTable{table: make(map[string]*exam.Exam)},
		result:  &resultTable{table: make(map[string]*result.Result)},
		setting: &settingTable{table: make(map[string]*setting.Setting)},
	}
}
