package contacts

import "strings"

// ExtractionFailedNote is appended to synthetic résumé text built from
// contacts alone.
const ExtractionFailedNote = "NOTE: PDF text extraction failed. Only contact information was extracted. " +
	"Please provide a text-based resume for full optimization."

// FallbackText builds the contact-only résumé text sent to the model when no
// readable text could be extracted.
func FallbackText(c Contacts) string {
	var lines []string
	for _, f := range []Field{
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"LinkedIn", c.LinkedIn},
		{"GitHub", c.GitHub},
		{"LeetCode", c.LeetCode},
		{"Website", c.Website},
	} {
		if f.Value != "" {
			lines = append(lines, f.Key+": "+f.Value)
		}
	}
	lines = append(lines, "\n"+ExtractionFailedNote)
	return strings.Join(lines, "\n")
}

// IsContactOnly flags résumé text that carries contact lines but no résumé
// body.
func IsContactOnly(text string) bool {
	if len(text) >= 200 {
		return false
	}
	if !strings.Contains(text, "LinkedIn:") && !strings.Contains(text, "GitHub:") && !strings.Contains(text, "Phone:") {
		return false
	}
	lower := strings.ToLower(text)
	return !strings.Contains(lower, "experience") &&
		!strings.Contains(lower, "education") &&
		!strings.Contains(lower, "project")
}

// PreservationNote tells the model which contact values must survive verbatim.
// Empty contacts produce an empty note.
func PreservationNote(c Contacts) string {
	fields := c.Fields()
	if len(fields) == 0 {
		return ""
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Key + "=" + f.Value
	}
	return "\n\nIMPORTANT: Preserve these original contact links/values EXACTLY as provided. " +
		"Do not invent or change them. Use these as href targets in LaTeX, and display text may be " +
		"simplified but hrefs must match exactly. Original Contacts -> " + strings.Join(parts, " | ")
}
