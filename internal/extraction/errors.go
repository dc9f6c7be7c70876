package extraction

import "fmt"

// UnsupportedFormatError is returned for file extensions other than .pdf and .docx.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s. Only PDF and DOCX files are supported", e.Ext)
}

// ExtractionError wraps a hard failure of a format that has a single
// extraction path (DOCX).
type ExtractionError struct {
	Format string
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to extract text from %s: %v", e.Format, e.Cause)
	}
	return fmt.Sprintf("failed to extract text from %s", e.Format)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
