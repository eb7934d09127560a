// Package storage wires the repositories of the configured database engine.
package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/scwportal/backend/core"
	"github.com/scwportal/backend/core/exam"
	"github.com/scwportal/backend/core/result"
	"github.com/scwportal/backend/core/setting"
	"github.com/scwportal/backend/core/student"
	"github.com/scwportal/backend/storage/database"
	inmemdb "github.com/scwportal/backend/storage/database/inmem"
	"github.com/scwportal/backend/storage/database/sqlxdb"
)

type Repositories struct {
	DB      *sqlx.DB // nil for the memory engine
	Student student.Repository
	Exam    exam.Repository
	Result  result.Repository
	Setting setting.Repository
}

func (repos *Repositories) Close() error {
	if repos.DB == nil {
		return nil
	}
	return repos.DB.Close()
}

// Open returns the repositories of conf.Database.Engine.
// The postgres engine creates the database if needed and migrates it when migrate is set.
func Open(ctx context.Context, conf *core.Config, migrate bool) (*Repositories, error) {
	switch conf.Database.Engine {
	case core.EngineMemory:
		return NewMemory(inmemdb.Open()), nil
	case core.EnginePostgres:
	default:
		return nil, errors.Errorf("unknown database engine %q", conf.Database.Engine)
	}

	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return nil, errors.Wrap(err, "creating database")
	}
	db, err := database.Open(ctx, conf)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err = database.Migrate(ctx, db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &Repositories{
		DB:      db,
		Student: sqlxdb.NewStudentRepository(db),
		Exam:    sqlxdb.NewExamRepository(db),
		Result:  sqlxdb.NewResultRepository(db),
		Setting: sqlxdb.NewSettingRepository(db),
	}, nil
}

func NewMemory(db *inmemdb.DB) *Repositories {
	return &Repositories{
		Student: inmemdb.NewStudentRepository(db),
		Exam:    inmemdb.NewExamRepository(db),
		Result:  inmemdb.NewResultRepository(db),
		Setting: inmemdb.NewSettingRepository(db),
	}
}
