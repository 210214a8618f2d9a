package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"resume-matcher/internal/llm"
	"resume-matcher/internal/shared/metrics"
)

const (
	opParseResume    = "parse_resume"
	opParseJob       = "parse_job_description"
	opCompare        = "compare_resume_job"
	opExtractSkills  = "extract_skills"
	previewLogLength = 200
)

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, document []byte, mimeType string) (string, error)
}

// Pipeline runs document analysis against a generative model. It holds no per-call
// state and is safe for concurrent use.
type Pipeline struct {
	extractor TextExtractor
	model     llm.Generator
	logger    *zap.Logger
}

// NewPipeline wires a pipeline. A nil logger discards logs.
func NewPipeline(extractor TextExtractor, model llm.Generator, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{extractor: extractor, model: model, logger: logger}
}

// ParseResume extracts text from document and asks the model to structure it.
// Extraction failures are returned as is (matching ErrExtraction). A rate-limited model
// yields facts holding only the raw text; other model failures and malformed responses
// return ErrAnalysisFailed.
func (p *Pipeline) ParseResume(ctx context.Context, document []byte, mimeType string) (ResumeFacts, error) {
	text, err := p.extractor.Extract(ctx, document, mimeType)
	if err != nil {
		return ResumeFacts{}, fmt.Errorf("parse resume: %w", err)
	}

	prompt, err := llm.BuildPrompt(llm.TaskParseResume, text)
	if err != nil {
		return ResumeFacts{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	raw, err := p.generate(ctx, opParseResume, prompt)
	if err != nil {
		switch kind := llm.KindOf(err); kind {
		case llm.KindRateLimited:
			p.degraded(opParseResume, kind.String(), err)
			return defaultResumeFacts(ResumeFacts{RawText: text}), nil
		default:
			return ResumeFacts{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
		}
	}

	value, err := llm.Normalize(raw)
	if err != nil {
		p.logMalformed(opParseResume, raw, err)
		return ResumeFacts{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}
	facts, err := decodeResumeFacts(value)
	if err != nil {
		p.logMalformed(opParseResume, raw, err)
		return ResumeFacts{}, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	facts.RawText = text
	return defaultResumeFacts(facts), nil
}

// ParseJobDescription structures a job posting. Blank text returns ErrInvalidInput;
// after that the call never fails and serves a fallback built from text instead.
func (p *Pipeline) ParseJobDescription(ctx context.Context, text string) (JobFacts, error) {
	if strings.TrimSpace(text) == "" {
		return JobFacts{}, ErrInvalidInput
	}

	facts, err := p.requestJobFacts(ctx, text)
	if err != nil {
		p.degraded(opParseJob, failureReason(err), err)
		return defaultJobFacts(JobFacts{}, text), nil
	}
	return defaultJobFacts(facts, text), nil
}

func (p *Pipeline) requestJobFacts(ctx context.Context, text string) (JobFacts, error) {
	prompt, err := llm.BuildPrompt(llm.TaskParseJobDescription, text)
	if err != nil {
		return JobFacts{}, err
	}
	raw, err := p.generate(ctx, opParseJob, prompt)
	if err != nil {
		return JobFacts{}, err
	}
	value, err := llm.Normalize(raw)
	if err != nil {
		p.logMalformed(opParseJob, raw, err)
		return JobFacts{}, err
	}
	facts, err := decodeJobFacts(value)
	if err != nil {
		p.logMalformed(opParseJob, raw, err)
		return JobFacts{}, err
	}
	return facts, nil
}

// CompareResumeJob scores resume against job. It never fails: any model or response
// failure yields a zero-confidence result listing every required skill as missing.
func (p *Pipeline) CompareResumeJob(ctx context.Context, resume ResumeFacts, job JobFacts) (MatchResult, error) {
	result, err := p.requestMatch(ctx, resume, job)
	if err != nil {
		p.degraded(opCompare, failureReason(err), err)
		return defaultMatchResult(MatchResult{}, job, matchFailed), nil
	}
	return defaultMatchResult(result, job, matchParsed), nil
}

func (p *Pipeline) requestMatch(ctx context.Context, resume ResumeFacts, job JobFacts) (MatchResult, error) {
	prompt, err := llm.BuildPrompt(llm.TaskCompareResumeJob, llm.ComparePayload{Resume: resume, Job: job})
	if err != nil {
		return MatchResult{}, err
	}
	raw, err := p.generate(ctx, opCompare, prompt)
	if err != nil {
		return MatchResult{}, err
	}
	value, err := llm.Normalize(raw)
	if err != nil {
		p.logMalformed(opCompare, raw, err)
		return MatchResult{}, err
	}
	result, err := decodeMatchResult(value)
	if err != nil {
		p.logMalformed(opCompare, raw, err)
		return MatchResult{}, err
	}
	return result, nil
}

// ExtractSkills lists the skills mentioned in text. Blank text returns ErrInvalidInput;
// model or response failures yield empty lists.
func (p *Pipeline) ExtractSkills(ctx context.Context, text string) (SkillSet, error) {
	if strings.TrimSpace(text) == "" {
		return SkillSet{}, ErrInvalidInput
	}

	skills, err := p.requestSkills(ctx, text)
	if err != nil {
		p.degraded(opExtractSkills, failureReason(err), err)
		return defaultSkillSet(SkillSet{}), nil
	}
	return defaultSkillSet(skills), nil
}

func (p *Pipeline) requestSkills(ctx context.Context, text string) (SkillSet, error) {
	prompt, err := llm.BuildPrompt(llm.TaskExtractSkills, text)
	if err != nil {
		return SkillSet{}, err
	}
	raw, err := p.generate(ctx, opExtractSkills, prompt)
	if err != nil {
		return SkillSet{}, err
	}
	value, err := llm.Normalize(raw)
	if err != nil {
		return SkillSet{}, err
	}
	return decodeSkillSet(value)
}

// generate performs the single model round-trip of an operation.
func (p *Pipeline) generate(ctx context.Context, op, prompt string) (string, error) {
	p.logger.Debug("model request",
		zap.String("operation", op),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)
	raw, err := p.model.Generate(ctx, prompt)
	if err != nil {
		metrics.IncModelCall(llm.KindOf(err).String())
		return "", err
	}
	metrics.IncModelCall("ok")
	p.logger.Debug("model response",
		zap.String("operation", op),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", truncateForLog(raw, previewLogLength)),
	)
	return raw, nil
}

func (p *Pipeline) degraded(op, reason string, err error) {
	metrics.IncDegraded(op)
	p.logger.Warn("analysis degraded to fallback",
		zap.String("operation", op),
		zap.String("reason", reason),
		zap.Error(err),
	)
}

func (p *Pipeline) logMalformed(op, raw string, err error) {
	p.logger.Warn("model response rejected",
		zap.String("operation", op),
		zap.String("response_preview", truncateForLog(raw, previewLogLength)),
		zap.Error(err),
	)
}

// failureReason names the failure kind behind a degraded result.
func failureReason(err error) string {
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		return llm.KindRateLimited.String()
	case errors.Is(err, llm.ErrUnavailable):
		return llm.KindUnavailable.String()
	case errors.Is(err, llm.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, llm.ErrUnexpected):
		return llm.KindUnexpected.String()
	default:
		return "internal"
	}
}

func truncateForLog(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}
