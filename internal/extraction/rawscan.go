package extraction

import (
	"regexp"
	"strings"
)

// Raw-buffer scans used when structured parsing yields garbage or nothing.
// They read the file bytes directly and keep anything that looks like words.

var (
	nonPrintable   = regexp.MustCompile(`[^\x20-\x7E]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	shortWord      = regexp.MustCompile(`\b\w{1,2}\b`)
	hasLetter      = regexp.MustCompile(`[A-Za-z]`)
	digitsOnly     = regexp.MustCompile(`^[0-9\s]+$`)
	slashesOnly    = regexp.MustCompile(`^[/\\]+$`)
	metadataFields = []*regexp.Regexp{
		regexp.MustCompile(`/Title\s*\(([^)]+)\)`),
		regexp.MustCompile(`/Author\s*\(([^)]+)\)`),
		regexp.MustCompile(`/Subject\s*\(([^)]+)\)`),
		regexp.MustCompile(`/Keywords\s*\(([^)]+)\)`),
		regexp.MustCompile(`/Creator\s*\(([^)]+)\)`),
	}
	metadataTokens = []*regexp.Regexp{
		regexp.MustCompile(`\(([A-Za-z0-9\s@.\-_]+)\)`),
		regexp.MustCompile(`\[([A-Za-z0-9\s@.\-_]+)\]`),
		regexp.MustCompile(`[A-Za-z]{3,}`),
	}
	advancedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\(([^)]+)\)`),
		regexp.MustCompile(`\[([^\]]+)\]`),
		regexp.MustCompile(`BT\s+([^E]+)ET`),
		regexp.MustCompile(`([A-Za-z0-9\s@.\-_]+)\s+Tj`),
		regexp.MustCompile(`\[([^\]]+)\]\s+TJ`),
		regexp.MustCompile(`"([^"]+)"`),
		regexp.MustCompile(`/F\d+\s+([A-Za-z0-9\s@.\-_]+)`),
		regexp.MustCompile(`stream\s+((?s:.*?))\s+endstream`),
	}
	simplePatterns = []*regexp.Regexp{
		regexp.MustCompile(`BT\s+([^E]+)ET`),
		regexp.MustCompile(`\(([^)]+)\)`),
		regexp.MustCompile(`\[([^\]]+)\]`),
		regexp.MustCompile(`/[A-Za-z]+\s+([^\s]+)`),
	}
)

func printableOnly(s string) string {
	s = nonPrintable.ReplaceAllString(s, " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

func dropShortWords(s string) string {
	s = shortWord.ReplaceAllString(s, "")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// MetadataText pulls document-information strings and word-like tokens out of
// the raw file. Used to replace garbled extraction output.
func MetadataText(data []byte) string {
	raw := string(data)
	var sb strings.Builder

	for _, re := range metadataFields {
		if matches := re.FindAllString(raw, -1); len(matches) > 0 {
			sb.WriteString(strings.Join(matches, " "))
			sb.WriteByte(' ')
		}
	}

	for _, re := range metadataTokens {
		matches := re.FindAllString(raw, -1)
		kept := matches[:0]
		for _, m := range matches {
			if len(m) > 2 && !strings.ContainsAny(m, `/\`) && hasLetter.MatchString(m) {
				kept = append(kept, m)
			}
		}
		if len(kept) > 0 {
			sb.WriteString(strings.Join(kept, " "))
			sb.WriteByte(' ')
		}
	}

	return dropShortWords(printableOnly(sb.String()))
}

// AdvancedScan matches common text-object shapes in the raw file and keeps
// matches that contain letters.
func AdvancedScan(data []byte) string {
	raw := string(data)
	var sb strings.Builder

	for _, re := range advancedPatterns {
		for _, m := range re.FindAllString(raw, -1) {
			clean := printableOnly(m)
			if len(clean) > 2 && hasLetter.MatchString(clean) &&
				!digitsOnly.MatchString(clean) && !slashesOnly.MatchString(clean) {
				sb.WriteString(clean)
				sb.WriteByte(' ')
			}
		}
	}

	return dropShortWords(sb.String())
}

// SimpleScan is the bluntest raw scan: every match of a handful of patterns,
// reduced to printable ASCII.
func SimpleScan(data []byte) string {
	raw := string(data)
	var sb strings.Builder

	for _, re := range simplePatterns {
		if matches := re.FindAllString(raw, -1); len(matches) > 0 {
			sb.WriteString(strings.Join(matches, " "))
			sb.WriteByte(' ')
		}
	}

	return printableOnly(sb.String())
}
