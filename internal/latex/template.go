package latex

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

const (
	documentClassMarker = `\documentclass`
	beginDocumentMarker = `\begin{document}`
	endDocumentMarker   = `\end{document}`
)

// Template is the house LaTeX layout the generated résumé is forced onto.
type Template struct {
	Source string
}

// LoadTemplate reads a template file. Files that wrap the LaTeX in a
// backtick-quoted string keep only the text between the first and last
// backtick. A missing file yields a nil template and no error.
func LoadTemplate(path string) (*Template, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &TemplateError{Path: path, Cause: err}
	}
	return ParseTemplate(string(raw)), nil
}

// ParseTemplate applies the backtick unwrapping used by LoadTemplate.
func ParseTemplate(raw string) *Template {
	first := strings.Index(raw, "`")
	last := strings.LastIndex(raw, "`")
	if first != -1 && last > first {
		return &Template{Source: raw[first+1 : last]}
	}
	return &Template{Source: raw}
}

// Preamble returns the template text from \documentclass up to, not
// including, \begin{document}.
func (t *Template) Preamble() (string, bool) {
	if t == nil {
		return "", false
	}
	start := strings.Index(t.Source, documentClassMarker)
	begin := strings.Index(t.Source, beginDocumentMarker)
	if start == -1 || begin == -1 || begin <= start {
		return "", false
	}
	return t.Source[start:begin], true
}

// ApplyPreamble swaps the generated document's preamble for the template's.
// The input is returned unchanged when either side lacks the markers.
func (t *Template) ApplyPreamble(latex string) string {
	preamble, ok := t.Preamble()
	if !ok {
		return latex
	}
	start := strings.Index(latex, documentClassMarker)
	begin := strings.Index(latex, beginDocumentMarker)
	if start == -1 || begin == -1 || begin <= start {
		return latex
	}
	return latex[:start] + preamble + latex[begin:]
}

// Text returns the template source, or "" for a nil template.
func (t *Template) Text() string {
	if t == nil {
		return ""
	}
	return t.Source
}
