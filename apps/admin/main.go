package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/scwportal/backend/core"
	"github.com/scwportal/backend/core/exam"
	"github.com/scwportal/backend/core/setting"
	"github.com/scwportal/backend/storage"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// set up DB; migrations are run by the migrate command only
	repos, err := storage.Open(context.Background(), conf, false)
	errAndDie(err)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		repos:      repos,
		settingSvc: setting.NewService(repos.Setting, conf.Registration.DefaultAccessPassword),
		examSvc:    exam.NewService(repos.Exam, validate, translator),
	}
	err = cli.run(os.Args)
	if cerr := repos.Close(); cerr != nil {
		logger.Printf("closing database: %s", cerr)
	}
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
