package analysis

import (
	"math"
	"strings"
	"unicode/utf8"
)

const (
	NotSpecified     = "Not specified"
	UntitledPosition = "Untitled Position"
	DefaultCurrency  = "USD"

	AnalysisNotAvailable       = "Analysis not available"
	DetailedAnalysisNotPresent = "Detailed analysis not available"
	AnalysisFailedText         = "Analysis failed"
	RetryRecommendation        = "Please try analysis again"

	descriptionPreviewRunes = 200
)

// matchOutcome selects the sentinel texts used when filling a MatchResult.
type matchOutcome int

const (
	matchParsed matchOutcome = iota
	matchFailed
)

func defaultResumeFacts(f ResumeFacts) ResumeFacts {
	f.Skills = nonNil(f.Skills)
	f.Experience = nonNil(f.Experience)
	f.Education = nonNil(f.Education)
	f.Certifications = nonNil(f.Certifications)
	return f
}

// defaultJobFacts fills every absent field of f. source is the posting text the
// title and description fall back to.
func defaultJobFacts(f JobFacts, source string) JobFacts {
	f.Title = strings.TrimSpace(f.Title)
	if f.Title == "" {
		f.Title = titleFromText(source)
	}
	if f.Company != nil && strings.TrimSpace(*f.Company) == "" {
		f.Company = nil
	}
	f.RequiredSkills = nonNil(f.RequiredSkills)
	f.PreferredSkills = nonNil(f.PreferredSkills)

	f.Metadata.EmploymentType = orDefault(f.Metadata.EmploymentType, NotSpecified)
	f.Metadata.ExperienceLevel = orDefault(f.Metadata.ExperienceLevel, NotSpecified)
	f.Metadata.Location = orDefault(f.Metadata.Location, NotSpecified)
	f.Metadata.SalaryRange.Currency = orDefault(f.Metadata.SalaryRange.Currency, DefaultCurrency)

	if strings.TrimSpace(f.Sections.Description) == "" {
		f.Sections.Description = descriptionPreview(source)
	}
	f.Sections.Responsibilities = nonNil(f.Sections.Responsibilities)
	f.Sections.Requirements = nonNil(f.Sections.Requirements)
	f.Sections.Benefits = nonNil(f.Sections.Benefits)
	return f
}

// defaultMatchResult fills every absent field of m from job. Skill lists taken from job
// are copied so the result never aliases its inputs.
func defaultMatchResult(m MatchResult, job JobFacts, outcome matchOutcome) MatchResult {
	sentinel, recommendation := AnalysisNotAvailable, DetailedAnalysisNotPresent
	if outcome == matchFailed {
		sentinel, recommendation = AnalysisFailedText, RetryRecommendation
	}

	m.MatchPercentage = clampPercentage(m.MatchPercentage)
	m.MatchingSkills = nonNil(m.MatchingSkills)
	if m.MissingSkills == nil {
		m.MissingSkills = copyStrings(job.RequiredSkills)
	}

	sm := &m.Detail.SkillsMatch
	sm.MatchedRequired = nonNil(sm.MatchedRequired)
	sm.MatchedPreferred = nonNil(sm.MatchedPreferred)
	if sm.MissingRequired == nil {
		sm.MissingRequired = copyStrings(job.RequiredSkills)
	}
	if sm.MissingPreferred == nil {
		sm.MissingPreferred = copyStrings(job.PreferredSkills)
	}

	m.Detail.ExperienceMatch = orDefault(m.Detail.ExperienceMatch, sentinel)
	m.Detail.EducationMatch = orDefault(m.Detail.EducationMatch, sentinel)
	if len(m.Detail.Recommendations) == 0 {
		m.Detail.Recommendations = []string{recommendation}
	}
	return m
}

func defaultSkillSet(s SkillSet) SkillSet {
	s.RequiredSkills = nonNil(s.RequiredSkills)
	s.PreferredSkills = nonNil(s.PreferredSkills)
	return s
}

// titleFromText returns the first line of text, or UntitledPosition when that line is blank.
func titleFromText(text string) string {
	first, _, _ := strings.Cut(text, "\n")
	first = strings.TrimSpace(first)
	if first == "" {
		return UntitledPosition
	}
	return first
}

// descriptionPreview returns the first 200 characters of text followed by "...".
func descriptionPreview(text string) string {
	if utf8.RuneCountInString(text) <= descriptionPreviewRunes {
		return text + "..."
	}
	return string([]rune(text)[:descriptionPreviewRunes]) + "..."
}

func clampPercentage(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func copyStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
