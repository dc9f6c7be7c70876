package latex

import "fmt"

// InvalidStructureError reports a document missing its required markers.
type InvalidStructureError struct {
	MissingDocumentClass bool
	MissingEndDocument   bool
}

func (e *InvalidStructureError) Error() string {
	switch {
	case e.MissingDocumentClass && e.MissingEndDocument:
		return `invalid LaTeX content: missing \documentclass and \end{document}`
	case e.MissingDocumentClass:
		return `invalid LaTeX content: missing \documentclass`
	default:
		return `invalid LaTeX content: missing \end{document}`
	}
}

// CompilationError represents a pdflatex failure
type CompilationError struct {
	Message   string
	LogOutput string
	Cause     error
}

func (e *CompilationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("LaTeX compilation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("LaTeX compilation error: %s", e.Message)
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}

// TemplateError wraps a failure to read the template file.
type TemplateError struct {
	Path  string
	Cause error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("failed to load LaTeX template %s: %v", e.Path, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}
