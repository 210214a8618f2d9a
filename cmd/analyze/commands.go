package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"resume-matcher/internal/analysis"
	"resume-matcher/internal/bootstrap"
	"resume-matcher/internal/extract"
	"resume-matcher/internal/shared/telemetry"
)

var (
	resumeFile string
	jobFile    string
	textFile   string
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Parse a resume (pdf, docx, doc or txt) into structured facts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := newPipeline(cmd.Context())
		if err != nil {
			return err
		}
		facts, err := parseResumeFile(cmd.Context(), p, resumeFile)
		if err != nil {
			return err
		}
		return writeJSON(facts)
	},
}

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Parse a job description text file into structured facts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := newPipeline(cmd.Context())
		if err != nil {
			return err
		}
		facts, err := parseJobFile(cmd.Context(), p, jobFile)
		if err != nil {
			return err
		}
		return writeJSON(facts)
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Score a resume against a job description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		p, err := newPipeline(ctx)
		if err != nil {
			return err
		}

		var resume analysis.ResumeFacts
		var job analysis.JobFacts
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			resume, err = parseResumeFile(gctx, p, resumeFile)
			return err
		})
		g.Go(func() error {
			var err error
			job, err = parseJobFile(gctx, p, jobFile)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		result, err := p.CompareResumeJob(ctx, resume, job)
		if err != nil {
			return err
		}
		return writeJSON(result)
	},
}

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List the skills mentioned in a text file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := newPipeline(cmd.Context())
		if err != nil {
			return err
		}
		text, err := os.ReadFile(textFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", textFile, err)
		}
		skills, err := p.ExtractSkills(cmd.Context(), string(text))
		if err != nil {
			return err
		}
		return writeJSON(skills)
	},
}

func init() {
	resumeCmd.Flags().StringVarP(&resumeFile, "file", "f", "", "resume file")
	_ = resumeCmd.MarkFlagRequired("file")

	jobCmd.Flags().StringVarP(&jobFile, "file", "f", "", "job description file")
	_ = jobCmd.MarkFlagRequired("file")

	compareCmd.Flags().StringVar(&resumeFile, "resume", "", "resume file")
	compareCmd.Flags().StringVar(&jobFile, "job", "", "job description file")
	_ = compareCmd.MarkFlagRequired("resume")
	_ = compareCmd.MarkFlagRequired("job")

	skillsCmd.Flags().StringVarP(&textFile, "file", "f", "", "text file")
	_ = skillsCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(resumeCmd, jobCmd, compareCmd, skillsCmd)
}

func newPipeline(ctx context.Context) (*analysis.Pipeline, error) {
	cfg := loadConfig()
	generator, err := bootstrap.BuildGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return analysis.NewPipeline(extract.New(), generator, telemetry.L()), nil
}

func parseResumeFile(ctx context.Context, p *analysis.Pipeline, path string) (analysis.ResumeFacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analysis.ResumeFacts{}, fmt.Errorf("read %s: %w", path, err)
	}
	return p.ParseResume(ctx, data, extract.NormalizeMimeType("", path, data))
}

func parseJobFile(ctx context.Context, p *analysis.Pipeline, path string) (analysis.JobFacts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return analysis.JobFacts{}, fmt.Errorf("read %s: %w", path, err)
	}
	return p.ParseJobDescription(ctx, strings.TrimSpace(string(data)))
}

func writeJSON(v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("format json: %w", err)
	}
	pretty = append(pretty, '\n')
	if outPath != "" {
		return os.WriteFile(outPath, pretty, 0o644)
	}
	_, err = os.Stdout.Write(pretty)
	return err
}
