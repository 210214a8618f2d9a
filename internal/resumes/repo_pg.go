package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectResume = `
SELECT id, user_id, title, original_content, storage_key, parsed_data, skills, metadata, created_at, updated_at
FROM resumes
`

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (
    id,
    user_id,
    title,
    original_content,
    storage_key,
    parsed_data,
    skills,
    metadata,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`

	parsed, err := json.Marshal(resume.ParsedData)
	if err != nil {
		return fmt.Errorf("marshal parsed data: %w", err)
	}
	skills, err := json.Marshal(nonNilStrings(resume.Skills))
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	meta, err := json.Marshal(resume.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.Title,
		resume.OriginalContent,
		resume.StorageKey,
		parsed,
		skills,
		meta,
		resume.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Resume, error) {
	row := r.DB.QueryRowContext(ctx, selectResume+"WHERE id = $1", id)
	resume, err := scanResume(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Resume{}, ErrNotFound
	}
	return resume, err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	rows, err := r.DB.QueryContext(ctx, selectResume+"WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3", userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Resume{}
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) DeleteByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `DELETE FROM resumes WHERE user_id = $1 RETURNING storage_key`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var parsed, skills, meta []byte
	if err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&resume.OriginalContent,
		&resume.StorageKey,
		&parsed,
		&skills,
		&meta,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	); err != nil {
		return Resume{}, err
	}
	if err := unmarshalJSONB(parsed, &resume.ParsedData); err != nil {
		return Resume{}, fmt.Errorf("decode parsed_data: %w", err)
	}
	if err := unmarshalJSONB(skills, &resume.Skills); err != nil {
		return Resume{}, fmt.Errorf("decode skills: %w", err)
	}
	if err := unmarshalJSONB(meta, &resume.Metadata); err != nil {
		return Resume{}, fmt.Errorf("decode metadata: %w", err)
	}
	resume.Skills = nonNilStrings(resume.Skills)
	return resume, nil
}

func unmarshalJSONB(raw []byte, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

var _ Repo = (*PGRepo)(nil)
