package latex

import "regexp"

var (
	excessBlankLines  = regexp.MustCompile(`\n{3,}`)
	trailingPageBreak = regexp.MustCompile(`(?i)(?:\\newpage|\\pagebreak|\\clearpage)\s*(\\end\{document\})`)
	trailingVSpace    = regexp.MustCompile(`(?i)(?:\\vfill|\\vspace\*?\{[^}]*\})\s*(\\end\{document\})`)
	endDocument       = regexp.MustCompile(`(?i)\\end\{document\}`)
	spaceBeforeEnd    = regexp.MustCompile(`(?i)\s+\\end\{document\}`)
)

// SanitizePagination removes layout commands that push a stray blank page
// onto the end of the document, and keeps a single \end{document}.
func SanitizePagination(latex string) string {
	out := excessBlankLines.ReplaceAllString(latex, "\n\n")
	out = trailingPageBreak.ReplaceAllString(out, "${1}")
	out = trailingVSpace.ReplaceAllString(out, "${1}")

	if parts := endDocument.Split(out, -1); len(parts) > 2 {
		out = parts[0] + endDocumentMarker + parts[1]
	}

	if loc := spaceBeforeEnd.FindStringIndex(out); loc != nil {
		marker := out[loc[0]:loc[1]]
		marker = marker[len(marker)-len(endDocumentMarker):]
		out = out[:loc[0]] + "\n" + marker + out[loc[1]:]
	}
	return out
}
