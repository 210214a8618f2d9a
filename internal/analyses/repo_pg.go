package analyses

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

const selectAnalysis = `
SELECT id, user_id, resume_id, job_description_id, match_percentage, matching_skills, missing_skills, analysis_details, created_at
FROM analysis_results
`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analysis_results (
    id,
    user_id,
    resume_id,
    job_description_id,
    match_percentage,
    matching_skills,
    missing_skills,
    analysis_details,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	matching, err := json.Marshal(nonNilStrings(analysis.MatchingSkills))
	if err != nil {
		return fmt.Errorf("marshal matching skills: %w", err)
	}
	missing, err := json.Marshal(nonNilStrings(analysis.MissingSkills))
	if err != nil {
		return fmt.Errorf("marshal missing skills: %w", err)
	}
	details, err := json.Marshal(analysis.Details)
	if err != nil {
		return fmt.Errorf("marshal analysis details: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.UserID,
		analysis.ResumeID,
		analysis.JobID,
		analysis.MatchPercentage,
		matching,
		missing,
		details,
		analysis.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Analysis, error) {
	row := r.DB.QueryRowContext(ctx, selectAnalysis+"WHERE id = $1", id)
	analysis, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return analysis, err
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	rows, err := r.DB.QueryContext(ctx, selectAnalysis+"WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3", userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Analysis{}
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

// Stats aggregates match percentages in SQL. An empty resumeID matches every resume.
func (r *PGRepo) Stats(ctx context.Context, userID, resumeID string) (Stats, error) {
	const query = `
SELECT COUNT(*), AVG(match_percentage), MAX(match_percentage), MIN(match_percentage)
FROM analysis_results
WHERE user_id = $1 AND ($2 = '' OR resume_id::text = $2)`

	var stats Stats
	var avg, high, low sql.NullFloat64
	if err := r.DB.QueryRowContext(ctx, query, userID, resumeID).Scan(&stats.TotalAnalyses, &avg, &high, &low); err != nil {
		return Stats{}, err
	}
	stats.AverageMatch = nullFloat(avg)
	stats.HighestMatch = nullFloat(high)
	stats.LowestMatch = nullFloat(low)
	return stats, nil
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM analysis_results WHERE id = $1`, id)
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

func (r *PGRepo) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM analysis_results WHERE user_id = $1`, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var matching, missing, details []byte
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.ResumeID,
		&a.JobID,
		&a.MatchPercentage,
		&matching,
		&missing,
		&details,
		&a.CreatedAt,
	); err != nil {
		return Analysis{}, err
	}
	if err := unmarshalJSONB(matching, &a.MatchingSkills); err != nil {
		return Analysis{}, fmt.Errorf("decode matching_skills: %w", err)
	}
	if err := unmarshalJSONB(missing, &a.MissingSkills); err != nil {
		return Analysis{}, fmt.Errorf("decode missing_skills: %w", err)
	}
	if err := unmarshalJSONB(details, &a.Details); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis_details: %w", err)
	}
	a.MatchingSkills = nonNilStrings(a.MatchingSkills)
	a.MissingSkills = nonNilStrings(a.MissingSkills)
	return a, nil
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

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

var _ Repo = (*PGRepo)(nil)
