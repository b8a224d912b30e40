package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var userRowColumns = []string{"id", "email", "full_name", "resume_path", "technical_skills", "soft_skills", "job_preferences", "resume_score", "created_at", "updated_at"}

func TestPGRepoUpdateResumeAnalysisWritesAllFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	analysis := ResumeAnalysis{
		ResumePath:      "abc/uuid_cv.pdf",
		TechnicalSkills: []string{"Go", "Postgres"},
		SoftSkills:      nil,
		JobPreferences:  "Backend",
		ResumeScore:     77,
	}

	mock.ExpectQuery("UPDATE users SET").
		WithArgs("user-1", "abc/uuid_cv.pdf", `["Go","Postgres"]`, `[]`, "Backend", 77).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("user-1", "a@b.c", "Ann", "abc/uuid_cv.pdf", []byte(`["Go","Postgres"]`), []byte(`[]`), "Backend", 77, now, now))

	user, err := repo.UpdateResumeAnalysis(context.Background(), "user-1", analysis)
	if err != nil {
		t.Fatalf("UpdateResumeAnalysis: %v", err)
	}
	if user.ResumeScore != 77 || user.ResumePath != "abc/uuid_cv.pdf" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if len(user.TechnicalSkills) != 2 || user.SoftSkills == nil || len(user.SoftSkills) != 0 {
		t.Fatalf("unexpected skills: %v %v", user.TechnicalSkills, user.SoftSkills)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateResumeAnalysisMissingUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("UPDATE users SET").WillReturnError(sql.ErrNoRows)

	repo := &PGRepo{DB: db}
	_, err = repo.UpdateResumeAnalysis(context.Background(), "ghost", ResumeAnalysis{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDHandlesNulls(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	now := time.Now().UTC()
	mock.ExpectQuery("FROM users").
		WithArgs("guest:1").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("guest:1", nil, nil, nil, []byte(`[]`), []byte(`[]`), "", 0, now, nil))

	repo := &PGRepo{DB: db}
	user, err := repo.GetByID(context.Background(), "guest:1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.Email != "" || user.ResumePath != "" {
		t.Fatalf("expected empty strings for null columns, got %+v", user)
	}
	if user.UpdatedAt.IsZero() {
		t.Fatalf("expected updated_at fallback")
	}
}

func TestPGRepoUpsertPassesNullsForBlankFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("INSERT INTO users").
		WithArgs("guest:1", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := &PGRepo{DB: db}
	if err := repo.Upsert(context.Background(), User{ID: "guest:1"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
