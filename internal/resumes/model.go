package resumes

import (
	"time"

	"resume-matcher/internal/analysis"
)

// Metadata records facts about the uploaded file.
type Metadata struct {
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	UploadDate   time.Time `json:"uploadDate"`
}

// Resume is an uploaded resume with its extracted text and parsed facts.
type Resume struct {
	ID              string               `json:"id"`
	UserID          string               `json:"user_id"`
	Title           string               `json:"title"`
	OriginalContent string               `json:"original_content"`
	StorageKey      string               `json:"-"`
	ParsedData      analysis.ResumeFacts `json:"parsed_data"`
	Skills          []string             `json:"skills"`
	Metadata        Metadata             `json:"metadata"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}
