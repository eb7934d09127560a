package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/scwportal/backend/storage/database"
)

var (
	gooseRunFunc = database.RunMigrations // mockable

	errNoSQLDatabase = errors.New("migrate needs the postgres database engine")
)

func (cli *commandLine) migrate(args []string) error {
	if cli.repos == nil || cli.repos.DB == nil {
		return errNoSQLDatabase
	}
	return gooseRunFunc(context.Background(), cli.repos.DB.DB, args[0], args[1:]...)
}
