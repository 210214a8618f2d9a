package jobs

import (
	"time"

	"resume-matcher/internal/analysis"
)

// UnknownCompany is stored when the posting names no employer.
const UnknownCompany = "Unknown Company"

// Job is a persisted job description.
type Job struct {
	ID              string                  `json:"id"`
	UserID          string                  `json:"user_id"`
	Title           string                  `json:"title"`
	Company         string                  `json:"company"`
	OriginalContent string                  `json:"original_content"`
	RequiredSkills  []string                `json:"required_skills"`
	PreferredSkills []string                `json:"preferred_skills"`
	Metadata        analysis.JobMetadata    `json:"job_metadata"`
	Sections        analysis.ParsedSections `json:"parsed_sections"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// Facts rebuilds the pipeline value for comparison.
func (j Job) Facts() analysis.JobFacts {
	company := j.Company
	return analysis.JobFacts{
		Title:           j.Title,
		Company:         &company,
		RequiredSkills:  j.RequiredSkills,
		PreferredSkills: j.PreferredSkills,
		Metadata:        j.Metadata,
		Sections:        j.Sections,
	}
}

// UpdateInput is a partial update. Nil fields keep their stored value.
type UpdateInput struct {
	Title           *string               `json:"title"`
	Company         *string               `json:"company"`
	OriginalContent *string               `json:"original_content"`
	RequiredSkills  *[]string             `json:"required_skills"`
	PreferredSkills *[]string             `json:"preferred_skills"`
	Metadata        *analysis.JobMetadata `json:"job_metadata"`
}
