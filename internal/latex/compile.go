package latex

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// CompilationTimeout is the maximum time to wait for pdflatex
const CompilationTimeout = 30 * time.Second

// AuxExtensions are the files pdflatex leaves next to its input.
var AuxExtensions = []string{".aux", ".log", ".out", ".toc", ".fdb_latexmk", ".fls", ".synctex.gz"}

// PDFLatexAvailable reports whether pdflatex is on PATH.
func PDFLatexAvailable() bool {
	_, err := exec.LookPath("pdflatex")
	return err == nil
}

// Compile runs pdflatex on texPath inside its own directory and returns the
// PDF path. Auxiliary files are removed afterwards.
func Compile(ctx context.Context, texPath string) (string, string, error) {
	if !PDFLatexAvailable() {
		return "", "", &CompilationError{Message: "pdflatex not found in PATH"}
	}

	ctx, cancel := context.WithTimeout(ctx, CompilationTimeout)
	defer cancel()

	workDir := filepath.Dir(texPath)
	cmd := exec.CommandContext(ctx, "pdflatex", "-interaction=nonstopmode", "-output-directory", workDir, texPath)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()
	logOutput := stdout.String() + stderr.String()

	defer CleanupAuxFiles(texPath)

	pdfPath := strings.TrimSuffix(texPath, filepath.Ext(texPath)) + ".pdf"
	if _, err := os.Stat(pdfPath); err != nil {
		return "", logOutput, &CompilationError{
			Message:   "PDF was not generated",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}
	if runErr != nil {
		return pdfPath, logOutput, &CompilationError{
			Message:   "completed with errors (PDF may be incomplete)",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}
	return pdfPath, logOutput, nil
}

// CleanupAuxFiles deletes the auxiliary files belonging to texPath and
// returns the ones it could not remove.
func CleanupAuxFiles(texPath string) []error {
	base := strings.TrimSuffix(texPath, filepath.Ext(texPath))
	var errs []error
	for _, ext := range AuxExtensions {
		if err := os.Remove(base + ext); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove %s: %w", base+ext, err))
		}
	}
	return errs
}
