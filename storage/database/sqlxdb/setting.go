package sqlxdb

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/scwportal/backend/core"
	"github.com/scwportal/backend/core/setting"
)

type settingRow struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r settingRow) unpack() setting.Setting {
	return setting.Setting{Key: r.Key, Value: r.Value, UpdatedAt: r.UpdatedAt.UTC()}
}

type settingRepository struct {
	exec core.DBExecutor
}

var _ setting.Repository = (*settingRepository)(nil) // interface compliance check

func NewSettingRepository(exec core.DBExecutor) setting.Repository {
	return &settingRepository{exec: exec}
}

func (repo *settingRepository) GetSetting(ctx context.Context, key string) (setting.Setting, error) {
	q, args, err := psql.Select("key", "value", "updated_at").From("settings").Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return setting.Setting{}, errors.Wrap(err, "building setting query")
	}
	var row settingRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return setting.Setting{}, trapNoRowsErr(err, setting.ErrNotFound, "selecting setting")
	}
	return row.unpack(), nil
}

func (repo *settingRepository) SetSetting(ctx context.Context, s setting.Setting) (setting.Setting, error) {
	q, args, err := psql.Insert("settings").
		Columns("key", "value", "created_at", "updated_at").
		Values(s.Key, s.Value, s.UpdatedAt, s.UpdatedAt).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		Suffix("RETURNING key, value, updated_at").
		ToSql()
	if err != nil {
		return setting.Setting{}, errors.Wrap(err, "building setting upsert")
	}
	var row settingRow
	if err = repo.exec.GetContext(ctx, &row, q, args...); err != nil {
		return setting.Setting{}, errors.Wrap(err, "upserting setting")
	}
	return row.unpack(), nil
}
