package latex

import (
	"regexp"
	"strings"
)

var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)project name`),
	regexp.MustCompile(`(?i)company`),
	regexp.MustCompile(`(?i)duration`),
	regexp.MustCompile(`(?i)description:`),
	regexp.MustCompile(`(?i)contribution:`),
	regexp.MustCompile(`(?i)metrics:`),
	regexp.MustCompile(`(?i)achievement \d+`),
	regexp.MustCompile(`(?i)degree, institution`),
}

// HasPlaceholderText reports whether the text contains template filler such
// as "Project Name" or "Company".
func HasPlaceholderText(text string) bool {
	for _, p := range placeholderPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

var (
	sectionEnd = regexp.MustCompile(`(?i)\\section\{|\\end\{document\}`)

	removableSections = []struct {
		name    string
		heading *regexp.Regexp
	}{
		{SectionProjects, regexp.MustCompile(`(?i)\\section\{[^}]*projects?[^}]*\}`)},
		{SectionExperience, regexp.MustCompile(`(?i)\\section\{[^}]*experience[^}]*\}`)},
		{SectionAchievements, regexp.MustCompile(`(?i)\\section\{[^}]*achievements?[^}]*\}`)},
	}
)

// RemovedSection names a section deleted by RemoveHallucinatedSections.
type RemovedSection struct {
	Name  string
	Count int
}

// RemoveHallucinatedSections deletes projects, experience and achievements
// sections from the generated LaTeX when the original text has no such
// section and the generated section body carries placeholder text.
func RemoveHallucinatedSections(latex, original string) (string, []RemovedSection) {
	originalSections := ExtractSections(original)
	out := latex

	var removed []RemovedSection
	for _, s := range removableSections {
		if strings.TrimSpace(originalSections[s.name]) != "" {
			continue
		}
		var n int
		out, n = removeSectionBlocks(out, s.heading, HasPlaceholderText)
		if n > 0 {
			removed = append(removed, RemovedSection{Name: s.name, Count: n})
		}
	}
	return out, removed
}

// removeSectionBlocks deletes every heading match together with its body up
// to the next \section{ or \end{document}. A heading with no terminator
// after it is left alone, and so is one whose body fails a non-nil match.
func removeSectionBlocks(latex string, heading *regexp.Regexp, match func(body string) bool) (string, int) {
	out := latex
	count := 0
	for from := 0; from < len(out); {
		loc := heading.FindStringIndex(out[from:])
		if loc == nil {
			break
		}
		start, headEnd := from+loc[0], from+loc[1]

		end := sectionEnd.FindStringIndex(out[headEnd:])
		if end == nil {
			break
		}
		if match != nil && !match(out[headEnd:headEnd+end[0]]) {
			from = headEnd
			continue
		}
		out = out[:start] + out[headEnd+end[0]:]
		count++
		from = start
	}
	return out, count
}
