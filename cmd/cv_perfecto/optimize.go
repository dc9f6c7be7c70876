package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-perfecto/internal/latex"
	"github.com/jonathan/cv-perfecto/internal/logger"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize a local resume file",
	Long:  "Runs extraction, the model chain and post-processing on a local PDF or DOCX resume and writes the LaTeX result. Nothing is stored in the database.",
	RunE:  runOptimize,
}

var (
	optimizeResume string
	optimizeJob    string
	optimizeOut    string
	optimizePDF    bool
)

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeResume, "resume", "r", "", "Path to the PDF or DOCX resume (required)")
	optimizeCmd.Flags().StringVarP(&optimizeJob, "job", "j", "", "Path to a text file with the job description (required)")
	optimizeCmd.Flags().StringVarP(&optimizeOut, "out", "o", "", "Output .ltx path (default: <resume>_optimized.ltx)")
	optimizeCmd.Flags().BoolVar(&optimizePDF, "pdf", false, "Compile the result with pdflatex")

	if err := optimizeCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	if err := optimizeCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	data, err := os.ReadFile(optimizeResume)
	if err != nil {
		return fmt.Errorf("failed to read resume: %w", err)
	}
	jd, err := os.ReadFile(optimizeJob)
	if err != nil {
		return fmt.Errorf("failed to read job description: %w", err)
	}
	jobDescription := strings.TrimSpace(string(jd))
	if jobDescription == "" {
		return fmt.Errorf("job description file %s is empty", optimizeJob)
	}

	p, err := newPipeline(ctx, appConfig, nil, nil)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	result, err := p.service.Optimize(ctx, filepath.Base(optimizeResume), data, jobDescription)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		logger.Warn().Str("warning", w).Msg("content check")
	}

	out := optimizeOut
	if out == "" {
		out = strings.TrimSuffix(optimizeResume, filepath.Ext(optimizeResume)) + "_optimized.ltx"
	}
	if err := os.WriteFile(out, []byte(result.Latex), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)

	if optimizePDF {
		pdfPath, _, err := latex.Compile(ctx, out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Compiled %s\n", pdfPath)

		pages, err := latex.PageCount(pdfPath)
		if err != nil {
			return err
		}
		if pages > latex.MaxPages {
			logger.Warn().Int("pages", pages).Int("max", latex.MaxPages).Msg("compiled resume is longer than one page")
		}
	}
	return nil
}
