package main

import (
	"context"
	"fmt"

	"github.com/scwportal/backend/core/exam"
)

// addExam creates an exam.Exam and prints its id, the value form automations must send as exam_id.
func (cli *commandLine) addExam(ne exam.NewExam) error {
	ex, err := cli.examSvc.Create(context.Background(), ne)
	if err != nil {
		return err
	}
	fmt.Printf("exam %q created: %s\n", ex.Title, ex.ID)
	return nil
}
