package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/cv-perfecto/internal/contacts"
)

const resumeColumns = `id, user_id, original_file_name, job_description, extracted_text,
	extracted_contacts, optimized_latex, status, stage, error, output_key, created_at, updated_at`

func scanResume(row pgx.Row) (*Resume, error) {
	var r Resume
	var contactsJSON []byte
	var status string
	err := row.Scan(&r.ID, &r.UserID, &r.OriginalFileName, &r.JobDescription, &r.ExtractedText,
		&contactsJSON, &r.OptimizedLatex, &status, &r.Stage, &r.Error, &r.OutputKey, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.Status = ResumeStatus(status)
	if len(contactsJSON) > 0 {
		if err := json.Unmarshal(contactsJSON, &r.ExtractedContacts); err != nil {
			return nil, fmt.Errorf("failed to decode extracted contacts: %w", err)
		}
	}
	return &r, nil
}

// CreateResume inserts a record in the processing state.
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, fileName, jobDescription string) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, original_file_name, job_description, status, stage)
		 VALUES ($1, $2, $3, 'processing', 'processing')
		 RETURNING `+resumeColumns,
		userID, fileName, jobDescription,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return r, nil
}

// SaveExtraction stores the text and contacts sent to the model.
func (db *DB) SaveExtraction(ctx context.Context, id uuid.UUID, text string, c contacts.Contacts) error {
	contactsJSON, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal contacts: %w", err)
	}
	return db.execOne(ctx, "save extraction",
		`UPDATE resumes SET extracted_text = $1, extracted_contacts = $2, updated_at = NOW() WHERE id = $3`,
		text, contactsJSON, id)
}

// UpdateStage records pipeline progress without changing the status.
func (db *DB) UpdateStage(ctx context.Context, id uuid.UUID, stage string) error {
	return db.execOne(ctx, "update stage",
		`UPDATE resumes SET stage = $1, updated_at = NOW() WHERE id = $2`,
		stage, id)
}

// CompleteResume stores the final LaTeX and marks the record completed.
func (db *DB) CompleteResume(ctx context.Context, id uuid.UUID, latex, outputKey string) error {
	return db.execOne(ctx, "complete resume",
		`UPDATE resumes SET optimized_latex = $1, output_key = $2, status = 'completed', stage = 'completed',
		 error = NULL, updated_at = NOW() WHERE id = $3`,
		latex, outputKey, id)
}

// FailResume marks the record failed with a message.
func (db *DB) FailResume(ctx context.Context, id uuid.UUID, message string) error {
	return db.execOne(ctx, "fail resume",
		`UPDATE resumes SET status = 'failed', stage = 'failed', error = $1, updated_at = NOW() WHERE id = $2`,
		message, id)
}

// GetResume returns the user's record, or (nil, nil) if it does not exist
// or belongs to someone else.
func (db *DB) GetResume(ctx context.Context, id, userID uuid.UUID) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// ListResumesByUser returns the user's records, newest first.
func (db *DB) ListResumesByUser(ctx context.Context, userID uuid.UUID) ([]Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resumes: %w", err)
	}
	return resumes, nil
}

func (db *DB) execOne(ctx context.Context, op, sql string, args ...any) error {
	tag, err := db.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to %s: %w", op, ErrNotFound)
	}
	return nil
}

// ErrNotFound is returned by updates that matched no row.
var ErrNotFound = errors.New("record not found")
