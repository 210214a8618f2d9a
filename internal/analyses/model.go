package analyses

import (
	"time"

	"resume-matcher/internal/analysis"
)

// Analysis is a persisted resume/job comparison.
type Analysis struct {
	ID              string                    `json:"id"`
	UserID          string                    `json:"user_id"`
	ResumeID        string                    `json:"resume_id"`
	JobID           string                    `json:"job_description_id"`
	MatchPercentage float64                   `json:"match_percentage"`
	MatchingSkills  []string                  `json:"matching_skills"`
	MissingSkills   []string                  `json:"missing_skills"`
	Details         analysis.DetailedAnalysis `json:"analysis_details"`
	CreatedAt       time.Time                 `json:"created_at"`
}

// ListItem is an analysis annotated with the titles of its sources.
type ListItem struct {
	Analysis
	ResumeTitle string `json:"resume_title"`
	JobTitle    string `json:"job_title"`
}

type ResumeDetails struct {
	Title  string   `json:"title"`
	Skills []string `json:"skills"`
}

type JobDetails struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills"`
}

// Detail is a single analysis with a summary of both sources.
type Detail struct {
	Analysis
	ResumeDetails ResumeDetails `json:"resume_details"`
	JobDetails    JobDetails    `json:"job_details"`
}

// Stats aggregates match percentages. The match fields are nil when there are no analyses.
type Stats struct {
	TotalAnalyses int      `json:"total_analyses"`
	AverageMatch  *float64 `json:"average_match"`
	HighestMatch  *float64 `json:"highest_match"`
	LowestMatch   *float64 `json:"lowest_match"`
}

type Summary struct {
	Statistics     Stats      `json:"statistics"`
	RecentAnalyses []Analysis `json:"recent_analyses"`
}

const (
	resumeNotFoundTitle = "Resume not found"
	jobNotFoundTitle    = "Job not found"
	recentLimit         = 5
)
