package latex

import (
	"github.com/jonathan/cv-perfecto/internal/contacts"
	"github.com/jonathan/cv-perfecto/internal/logger"
)

// PostProcessor cleans model output before it is stored.
type PostProcessor struct {
	template *Template
}

// NewPostProcessor creates a PostProcessor. A nil template skips preamble
// replacement.
func NewPostProcessor(t *Template) *PostProcessor {
	return &PostProcessor{template: t}
}

// Template returns the configured template, possibly nil.
func (p *PostProcessor) Template() *Template {
	return p.template
}

// Process removes placeholder sections the original never had, applies the
// template preamble, restores the original contact links, then strips
// trailing page breaks.
func (p *PostProcessor) Process(aiLatex, originalText string, c contacts.Contacts) string {
	out, removed := RemoveHallucinatedSections(aiLatex, originalText)
	for _, r := range removed {
		logger.Info().Str("section", r.Name).Int("count", r.Count).Msg("removed placeholder section")
	}

	out = p.template.ApplyPreamble(out)
	out = EnforceContactLinks(out, c)
	return SanitizePagination(out)
}
