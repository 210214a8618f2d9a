package analysis

// ResumeFacts is the structured view of an uploaded resume. Only RawText is required.
type ResumeFacts struct {
	RawText        string       `json:"rawText"`
	PersonalInfo   PersonalInfo `json:"personalInfo"`
	Skills         []string     `json:"skills"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Certifications []string     `json:"certifications"`
}

type PersonalInfo struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

type Experience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// JobFacts is the structured view of a job posting. Title is never empty.
type JobFacts struct {
	Title           string         `json:"title"`
	Company         *string        `json:"company"`
	RequiredSkills  []string       `json:"required_skills"`
	PreferredSkills []string       `json:"preferred_skills"`
	Metadata        JobMetadata    `json:"job_metadata"`
	Sections        ParsedSections `json:"parsed_sections"`
}

type JobMetadata struct {
	EmploymentType  string      `json:"employment_type"`
	ExperienceLevel string      `json:"experience_level"`
	Location        string      `json:"location"`
	SalaryRange     SalaryRange `json:"salary_range"`
}

type SalaryRange struct {
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Currency string   `json:"currency"`
}

type ParsedSections struct {
	Description      string   `json:"description"`
	Responsibilities []string `json:"responsibilities"`
	Requirements     []string `json:"requirements"`
	Benefits         []string `json:"benefits"`
}

// MatchResult is the outcome of comparing a resume with a job. MatchPercentage is within [0,100].
type MatchResult struct {
	MatchPercentage float64          `json:"match_percentage"`
	MatchingSkills  []string         `json:"matching_skills"`
	MissingSkills   []string         `json:"missing_skills"`
	Detail          DetailedAnalysis `json:"detailed_analysis"`
}

type DetailedAnalysis struct {
	SkillsMatch     SkillsMatch `json:"skills_match"`
	ExperienceMatch string      `json:"experience_match"`
	EducationMatch  string      `json:"education_match"`
	Recommendations []string    `json:"recommendations"`
}

type SkillsMatch struct {
	MatchedRequired  []string `json:"matched_required_skills"`
	MatchedPreferred []string `json:"matched_preferred_skills"`
	MissingRequired  []string `json:"missing_required_skills"`
	MissingPreferred []string `json:"missing_preferred_skills"`
}

// SkillSet lists the skills found in free text.
type SkillSet struct {
	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills"`
}
