package llm

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// TaskKind selects a prompt template.
type TaskKind string

const (
	TaskParseResume         TaskKind = "parse_resume"
	TaskParseJobDescription TaskKind = "parse_job_description"
	TaskCompareResumeJob    TaskKind = "compare_resume_job"
	TaskExtractSkills       TaskKind = "extract_skills"
)

var (
	//go:embed prompts/resume.txt
	promptResume string
	//go:embed prompts/job.txt
	promptJob string
	//go:embed prompts/compare.txt
	promptCompare string
	//go:embed prompts/skills.txt
	promptSkills string
)

var (
	ErrUnknownTask    = errors.New("unknown prompt task")
	ErrInvalidPayload = errors.New("invalid prompt payload")
)

// ComparePayload carries both structured inputs of a comparison prompt.
type ComparePayload struct {
	Resume any
	Job    any
}

// BuildPrompt renders the template for task with payload embedded verbatim. Text tasks take a
// string payload; TaskCompareResumeJob takes a ComparePayload whose values are serialized as
// indented JSON.
func BuildPrompt(task TaskKind, payload any) (string, error) {
	switch task {
	case TaskParseResume:
		text, err := textPayload(task, payload)
		if err != nil {
			return "", err
		}
		return render(promptResume, "{{RESUME_TEXT}}", text), nil
	case TaskParseJobDescription:
		text, err := textPayload(task, payload)
		if err != nil {
			return "", err
		}
		return render(promptJob, "{{JOB_TEXT}}", text), nil
	case TaskExtractSkills:
		text, err := textPayload(task, payload)
		if err != nil {
			return "", err
		}
		return render(promptSkills, "{{TEXT}}", text), nil
	case TaskCompareResumeJob:
		cmp, ok := payload.(ComparePayload)
		if !ok {
			return "", fmt.Errorf("%w: %s expects ComparePayload, got %T", ErrInvalidPayload, task, payload)
		}
		resumeJSON, err := json.MarshalIndent(cmp.Resume, "", "  ")
		if err != nil {
			return "", fmt.Errorf("%w: marshal resume: %v", ErrInvalidPayload, err)
		}
		jobJSON, err := json.MarshalIndent(cmp.Job, "", "  ")
		if err != nil {
			return "", fmt.Errorf("%w: marshal job: %v", ErrInvalidPayload, err)
		}
		return render(promptCompare, "{{RESUME_JSON}}", string(resumeJSON), "{{JOB_JSON}}", string(jobJSON)), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTask, task)
	}
}

func textPayload(task TaskKind, payload any) (string, error) {
	text, ok := payload.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s expects string, got %T", ErrInvalidPayload, task, payload)
	}
	return text, nil
}

// render substitutes placeholders in a single pass so payload text containing a
// placeholder is never expanded again.
func render(template string, oldnew ...string) string {
	return strings.NewReplacer(oldnew...).Replace(strings.TrimRight(template, "\n"))
}
