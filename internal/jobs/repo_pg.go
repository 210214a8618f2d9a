package jobs

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

const selectJob = `
SELECT id, user_id, title, company, original_content, required_skills, preferred_skills, job_metadata, parsed_sections, created_at, updated_at
FROM job_descriptions
`

func (r *PGRepo) Create(ctx context.Context, job Job) error {
	const query = `
INSERT INTO job_descriptions (
    id,
    user_id,
    title,
    company,
    original_content,
    required_skills,
    preferred_skills,
    job_metadata,
    parsed_sections,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`

	cols, err := marshalJSONColumns(job)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		job.ID,
		job.UserID,
		job.Title,
		job.Company,
		job.OriginalContent,
		cols.required,
		cols.preferred,
		cols.metadata,
		cols.sections,
		job.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Job, error) {
	job, err := scanJob(r.DB.QueryRowContext(ctx, selectJob+"WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return Job{}, ErrNotFound
	}
	return job, err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Job, error) {
	rows, err := r.DB.QueryContext(ctx, selectJob+"WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3", userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (r *PGRepo) Update(ctx context.Context, job Job) error {
	const query = `
UPDATE job_descriptions SET
  title = $2,
  company = $3,
  original_content = $4,
  required_skills = $5,
  preferred_skills = $6,
  job_metadata = $7,
  parsed_sections = $8,
  updated_at = now()
WHERE id = $1`

	cols, err := marshalJSONColumns(job)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		job.ID,
		job.Title,
		job.Company,
		job.OriginalContent,
		cols.required,
		cols.preferred,
		cols.metadata,
		cols.sections,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM job_descriptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM job_descriptions WHERE user_id = $1`, userID)
	return err
}

type jsonColumns struct {
	required, preferred, metadata, sections []byte
}

func marshalJSONColumns(job Job) (jsonColumns, error) {
	var cols jsonColumns
	var err error
	if cols.required, err = json.Marshal(nonNilStrings(job.RequiredSkills)); err != nil {
		return cols, fmt.Errorf("marshal required_skills: %w", err)
	}
	if cols.preferred, err = json.Marshal(nonNilStrings(job.PreferredSkills)); err != nil {
		return cols, fmt.Errorf("marshal preferred_skills: %w", err)
	}
	if cols.metadata, err = json.Marshal(job.Metadata); err != nil {
		return cols, fmt.Errorf("marshal job_metadata: %w", err)
	}
	if cols.sections, err = json.Marshal(job.Sections); err != nil {
		return cols, fmt.Errorf("marshal parsed_sections: %w", err)
	}
	return cols, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var required, preferred, metadata, sections []byte
	if err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.Title,
		&job.Company,
		&job.OriginalContent,
		&required,
		&preferred,
		&metadata,
		&sections,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return Job{}, err
	}
	for _, col := range []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"required_skills", required, &job.RequiredSkills},
		{"preferred_skills", preferred, &job.PreferredSkills},
		{"job_metadata", metadata, &job.Metadata},
		{"parsed_sections", sections, &job.Sections},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return Job{}, fmt.Errorf("decode %s: %w", col.name, err)
		}
	}
	job.RequiredSkills = nonNilStrings(job.RequiredSkills)
	job.PreferredSkills = nonNilStrings(job.PreferredSkills)
	return job, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

var _ Repo = (*PGRepo)(nil)
