package main

import (
	"context"
	"flag"
	"fmt"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/scwportal/backend/core/exam"
	"github.com/scwportal/backend/storage"
)

const dateLayout = "2006-01-02"

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type (
	settingService interface {
		SetAccessPassword(ctx context.Context, pwd string) error
	}

	examService interface {
		Create(ctx context.Context, ne exam.NewExam) (exam.Exam, error)
	}

	commandLine struct {
		repos      *storage.Repositories
		settingSvc settingService
		examSvc    examService
	}
)

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) on the database")
	fmt.Println("  setaccesspassword - set the password students must give to register")
	fmt.Println("  addexam -title TITLE -course COURSE [-status STATUS] [-date YYYY-MM-DD] [-form URL] [-instructions TEXT] - create an exam")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addExamCmd := flag.NewFlagSet("addexam", flag.ExitOnError)
	addExamTitle := addExamCmd.String("title", "", "The exam's title.")
	addExamCourse := addExamCmd.String("course", "", "The course the exam belongs to.")
	addExamStatus := addExamCmd.String("status", "", "upcoming (default), active or completed.")
	addExamDate := addExamCmd.String("date", "", "The exam's date, YYYY-MM-DD.")
	addExamForm := addExamCmd.String("form", "", "The URL of the exam's form.")
	addExamInstructions := addExamCmd.String("instructions", "", "Instructions shown to students.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			fmt.Println("Usage: migrate up|up-by-one|up-to VERSION|down|down-to VERSION|redo|reset|status|version|create NAME [go|sql]|fix")
			return errHelp
		}
		return cli.migrate(args[2:])

	case "setaccesspassword":
		fmt.Print("Enter access password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			fmt.Println("Usage: setaccesspassword (the password will be prompted)")
			return errHelp
		}
		return cli.setAccessPassword(string(pwd))

	case "addexam":
		if err := addExamCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addExamTitle == "" || *addExamCourse == "" {
			addExamCmd.Usage()
			return errHelp
		}
		ne := exam.NewExam{
			Title:  *addExamTitle,
			Course: *addExamCourse,
			Status: *addExamStatus,
		}
		if *addExamInstructions != "" {
			ne.Instructions = addExamInstructions
		}
		if *addExamForm != "" {
			ne.FormURL = addExamForm
		}
		if *addExamDate != "" {
			date, err := time.Parse(dateLayout, *addExamDate)
			if err != nil {
				return errors.Errorf("date must be of form YYYY-MM-DD (got '%s')", *addExamDate)
			}
			ne.ExamDate = &date
		}
		return cli.addExam(ne)

	default:
		cli.printUsage()
		return errHelp
	}
}
