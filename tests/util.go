package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/scwportal/backend/core/exam"
	"github.com/scwportal/backend/core/setting"
	"github.com/scwportal/backend/core/student"
)

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	id, name, email, rollNo string,
	createdAt ...time.Time,
) student.Student {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	stu, err := repo.CreateStudent(context.Background(), student.Student{
		ID:        id,
		Name:      name,
		Email:     email,
		Course:    "Web Development",
		RollNo:    rollNo,
		IsActive:  true,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stu
}

func CreateExam(t *testing.T, repo exam.Repository, id, title string, status exam.Status) exam.Exam {
	now := time.Now().UTC()
	ex, err := repo.CreateExam(context.Background(), exam.Exam{
		ID:        id,
		Title:     title,
		Course:    "Web Development",
		FormURL:   null.StringFrom("https://forms.example.com/" + id),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateExam() failed: %v", err)
	}
	return ex
}

func SetAccessPassword(t *testing.T, repo setting.Repository, pwd string) {
	_, err := repo.SetSetting(context.Background(), setting.Setting{
		Key:       setting.AccessPasswordKey,
		Value:     pwd,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("SetAccessPassword() failed: %v", err)
	}
}
