// Package extraction turns uploaded résumé documents into plain text and
// harvests hyperlinks from their structure.
//
// PDF text goes through an ordered list of strategies; the first candidate
// whose trimmed length exceeds the confidence threshold wins. DOCX has a
// single conversion path and its failures are returned to the caller.
package extraction

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/cv-perfecto/internal/logger"
)

// Supported extensions.
const (
	ExtPDF  = ".pdf"
	ExtDOCX = ".docx"
)

// Strategy is one way of turning a PDF buffer into text.
type Strategy struct {
	Name string
	Run  func(ctx context.Context, data []byte) (string, error)
}

// Extractor runs format-specific extraction. The zero value is not usable;
// construct with New.
type Extractor struct {
	pdfStrategies []Strategy
	recovery      []Strategy
	metadata      func(data []byte) string
	docxText      func(data []byte) (string, error)
	pdfLinks      func(data []byte) ([]string, error)
	threshold     int
	thresholds    GarbleThresholds
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPDFStrategies replaces the PDF strategy chain.
func WithPDFStrategies(strategies ...Strategy) Option {
	return func(e *Extractor) {
		e.pdfStrategies = strategies
	}
}

// WithRecoveryStrategies replaces the chain Recover walks when the primary
// chain produced nothing.
func WithRecoveryStrategies(strategies ...Strategy) Option {
	return func(e *Extractor) {
		e.recovery = strategies
	}
}

// WithMetadataScanner replaces the garbled-text metadata fallback.
func WithMetadataScanner(fn func(data []byte) string) Option {
	return func(e *Extractor) {
		e.metadata = fn
	}
}

// WithPDFLinkHarvester replaces the PDF link-annotation reader used by
// AdditionalURLs.
func WithPDFLinkHarvester(fn func(data []byte) ([]string, error)) Option {
	return func(e *Extractor) {
		e.pdfLinks = fn
	}
}

// WithConfidenceThreshold overrides ConfidenceThreshold.
func WithConfidenceThreshold(n int) Option {
	return func(e *Extractor) {
		e.threshold = n
	}
}

// WithGarbleThresholds overrides the detector thresholds used by Recover.
func WithGarbleThresholds(t GarbleThresholds) Option {
	return func(e *Extractor) {
		e.thresholds = t
	}
}

// New returns an Extractor wired with the library-backed strategies.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		pdfStrategies: DefaultPDFStrategies(),
		recovery:      DefaultRecoveryStrategies(),
		metadata:      MetadataText,
		docxText:      docxPlainText,
		pdfLinks:      pdfLinkURIs,
		threshold:     ConfidenceThreshold,
		thresholds:    DefaultGarbleThresholds(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Thresholds returns the detector thresholds in effect.
func (e *Extractor) Thresholds() GarbleThresholds {
	return e.thresholds
}

// NormalizeExt lowercases ext and guarantees a leading dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ExtFromFilename returns the normalized extension of name.
func ExtFromFilename(name string) string {
	return NormalizeExt(filepath.Ext(name))
}

// Extract returns best-effort plain text for data.
// PDF never fails: exhausting every strategy yields "".
func (e *Extractor) Extract(ctx context.Context, data []byte, ext string) (string, error) {
	switch ext = NormalizeExt(ext); ext {
	case ExtPDF:
		return e.firstConfident(ctx, e.pdfStrategies, data), nil
	case ExtDOCX:
		text, err := e.docxText(data)
		if err != nil {
			return "", &ExtractionError{Format: "DOCX", Cause: err}
		}
		return strings.TrimSpace(text), nil
	default:
		return "", &UnsupportedFormatError{Ext: ext}
	}
}

// Recover applies the fallbacks for PDF text that came back garbled or empty.
// The metadata scan replaces garbled text only when it clears the confidence
// bar; the recovery chain runs when the text is still empty. Non-PDF input is
// returned unchanged.
func (e *Extractor) Recover(ctx context.Context, data []byte, ext, text string) string {
	if NormalizeExt(ext) != ExtPDF {
		return text
	}
	log := logger.Ctx(ctx)

	if text != "" && e.thresholds.IsGarbled(text) {
		log.Warn().Int("length", len(text)).Msg("garbled PDF text, trying metadata scan")
		if meta := e.metadata(data); len(strings.TrimSpace(meta)) > e.threshold {
			text = meta
		}
	}

	if strings.TrimSpace(text) != "" {
		return text
	}

	for _, s := range e.recovery {
		candidate, err := runStrategy(ctx, s, data)
		if err != nil {
			log.Debug().Err(err).Str("strategy", s.Name).Msg("recovery strategy failed")
			continue
		}
		if strings.TrimSpace(candidate) != "" {
			log.Info().Str("strategy", s.Name).Int("length", len(candidate)).Msg("recovered PDF text")
			return candidate
		}
	}
	return text
}

func (e *Extractor) firstConfident(ctx context.Context, strategies []Strategy, data []byte) string {
	log := logger.Ctx(ctx)
	for _, s := range strategies {
		start := time.Now()
		candidate, err := runStrategy(ctx, s, data)
		if err != nil {
			log.Debug().Err(err).Str("strategy", s.Name).Msg("PDF strategy failed")
			continue
		}
		trimmed := strings.TrimSpace(candidate)
		log.Debug().
			Str("strategy", s.Name).
			Int("length", len(trimmed)).
			Dur("took", time.Since(start)).
			Msg("PDF strategy finished")
		if len(trimmed) > e.threshold {
			return trimmed
		}
	}
	return ""
}

// runStrategy isolates third-party parser panics on malformed input.
func runStrategy(ctx context.Context, s Strategy, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("strategy %s panicked: %v", s.Name, r)
		}
	}()
	return s.Run(ctx, data)
}
