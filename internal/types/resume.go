package types

// FormatInfo describes accepted upload formats.
type FormatInfo struct {
	Resume         ResumeFormats         `json:"resume"`
	JobDescription JobDescriptionFormats `json:"jobDescription"`
}

// ResumeFormats lists accepted résumé files.
type ResumeFormats struct {
	Formats   []string `json:"formats"`
	MimeTypes []string `json:"mimeTypes"`
	MaxSize   string   `json:"maxSize"`
}

// OptimizeRequest holds the text fields of the optimize multipart form.
type OptimizeRequest struct {
	JobDescription string `form:"jobDescription" validate:"required,min=50,max=10000"`
}

// JobDescriptionFormats describes the job description field.
type JobDescriptionFormats struct {
	Formats   []string `json:"formats"`
	MaxLength int      `json:"maxLength"`
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Services  HealthServices `json:"services"`
}

// HealthServices reports dependency availability.
type HealthServices struct {
	Directories map[string]bool `json:"directories"`
	PDFLatex    bool            `json:"pdflatex"`
	LLM         bool            `json:"llm"`
	Database    bool            `json:"database"`
	Storage     bool            `json:"storage"`
}
