package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, email, full_name, resume_path, technical_skills, soft_skills, job_preferences, resume_score, created_at, updated_at`

func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		nullableString(user.Email),
		nullableString(user.FullName),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	query := `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1`
	return scanUser(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) UpdateResumeAnalysis(ctx context.Context, userID string, analysis ResumeAnalysis) (User, error) {
	technical, err := json.Marshal(nonNil(analysis.TechnicalSkills))
	if err != nil {
		return User{}, fmt.Errorf("encode technical skills: %w", err)
	}
	soft, err := json.Marshal(nonNil(analysis.SoftSkills))
	if err != nil {
		return User{}, fmt.Errorf("encode soft skills: %w", err)
	}
	query := `
UPDATE users SET
  resume_path = $2,
  technical_skills = $3::jsonb,
  soft_skills = $4::jsonb,
  job_preferences = $5,
  resume_score = $6,
  updated_at = now()
WHERE id = $1
RETURNING ` + userColumns
	return scanUser(r.DB.QueryRowContext(ctx, query,
		userID,
		nullableString(analysis.ResumePath),
		string(technical),
		string(soft),
		analysis.JobPreferences,
		analysis.ResumeScore,
	))
}

func scanUser(row *sql.Row) (User, error) {
	var user User
	var email sql.NullString
	var fullName sql.NullString
	var resumePath sql.NullString
	var technical []byte
	var soft []byte
	var updatedAt sql.NullTime
	err := row.Scan(
		&user.ID,
		&email,
		&fullName,
		&resumePath,
		&technical,
		&soft,
		&user.JobPreferences,
		&user.ResumeScore,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.Email = email.String
	user.FullName = fullName.String
	user.ResumePath = resumePath.String
	if user.TechnicalSkills, err = decodeSkills(technical); err != nil {
		return User{}, fmt.Errorf("decode technical skills: %w", err)
	}
	if user.SoftSkills, err = decodeSkills(soft); err != nil {
		return User{}, fmt.Errorf("decode soft skills: %w", err)
	}
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	} else {
		user.UpdatedAt = time.Now().UTC()
	}
	return user, nil
}

func decodeSkills(raw []byte) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
