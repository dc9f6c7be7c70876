package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Thresholds inherited from the production heuristics. They have no derivation
// beyond observation and are kept tunable rather than tuned.
const (
	// ConfidenceThreshold is the trimmed length a strategy candidate must exceed.
	ConfidenceThreshold = 50
	// MinClassifiableLength is the shortest text IsGarbled will judge.
	MinClassifiableLength = 100
	// MinPrintableRatio is the printable-ASCII share below which text is garbled.
	MinPrintableRatio = 0.3
	// MaxBinaryPatterns is the structural-token count above which text is garbled.
	MaxBinaryPatterns = 10
)

var binaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`endstream endobj`),
	regexp.MustCompile(`/Filter /FlateDecode`),
	regexp.MustCompile(`/Length \d+`),
	regexp.MustCompile(`/Type /[A-Za-z]+`),
	regexp.MustCompile(`/Contents \d+ 0 R`),
}

// GarbleThresholds parameterises IsGarbled.
type GarbleThresholds struct {
	MinLength         int     `json:"min_length"`
	MinPrintableRatio float64 `json:"min_printable_ratio"`
	MaxBinaryPatterns int     `json:"max_binary_patterns"`
}

// DefaultGarbleThresholds returns the stock thresholds.
func DefaultGarbleThresholds() GarbleThresholds {
	return GarbleThresholds{
		MinLength:         MinClassifiableLength,
		MinPrintableRatio: MinPrintableRatio,
		MaxBinaryPatterns: MaxBinaryPatterns,
	}
}

// IsGarbled reports whether text looks like binary PDF structure rather than
// prose, using the default thresholds.
func IsGarbled(text string) bool {
	return DefaultGarbleThresholds().IsGarbled(text)
}

// IsGarbled classifies text. Texts shorter than MinLength are never garbled.
func (t GarbleThresholds) IsGarbled(text string) bool {
	total := utf8.RuneCountInString(text)
	if total < t.MinLength || total == 0 {
		return false
	}

	printable := 0
	for _, r := range text {
		if r >= 0x20 && r <= 0x7E {
			printable++
		}
	}
	ratio := float64(printable) / float64(total)

	return ratio < t.MinPrintableRatio || countBinaryPatterns(text) > t.MaxBinaryPatterns
}

func countBinaryPatterns(text string) int {
	n := 0
	for _, re := range binaryPatterns {
		n += len(re.FindAllStringIndex(text, -1))
	}
	return n
}

// Outcome is the tri-state result of a text extraction.
type Outcome int

const (
	OutcomeEmpty Outcome = iota
	OutcomeReadable
	OutcomeGarbled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeReadable:
		return "readable"
	case OutcomeGarbled:
		return "garbled"
	default:
		return "empty"
	}
}

// Classify maps extracted text onto an Outcome.
func (t GarbleThresholds) Classify(text string) Outcome {
	if strings.TrimSpace(text) == "" {
		return OutcomeEmpty
	}
	if t.IsGarbled(text) {
		return OutcomeGarbled
	}
	return OutcomeReadable
}
