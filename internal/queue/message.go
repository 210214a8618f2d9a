package queue

import (
	"encoding/json"
	"time"
)

// EventAnalysisCompleted is emitted after a comparison has been persisted.
const EventAnalysisCompleted = "analysis.completed"

const eventVersion = 1

// Event is the payload sent to downstream consumers.
type Event struct {
	Type            string  `json:"type"`
	AnalysisID      string  `json:"analysisId"`
	UserID          string  `json:"userId"`
	ResumeID        string  `json:"resumeId"`
	JobID           string  `json:"jobId"`
	MatchPercentage float64 `json:"matchPercentage"`
	OccurredAt      string  `json:"occurredAt"`
	Version         int     `json:"version"`
}

// NewAnalysisCompleted builds an analysis.completed event stamped with now.
func NewAnalysisCompleted(analysisID, userID, resumeID, jobID string, match float64, now time.Time) Event {
	return Event{
		Type:            EventAnalysisCompleted,
		AnalysisID:      analysisID,
		UserID:          userID,
		ResumeID:        resumeID,
		JobID:           jobID,
		MatchPercentage: match,
		OccurredAt:      now.UTC().Format(time.RFC3339),
		Version:         eventVersion,
	}
}

// EncodeEvent returns the JSON representation of an event.
func EncodeEvent(evt Event) ([]byte, error) {
	return json.Marshal(evt)
}

// DecodeEvent parses a JSON payload into an Event.
func DecodeEvent(payload []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return Event{}, err
	}
	return evt, nil
}
