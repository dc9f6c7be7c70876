// Package latex post-processes model-generated LaTeX résumés and checks
// them against the text they were generated from.
package latex

import (
	"regexp"
	"strings"
)

// Section names recognised in résumé text.
const (
	SectionProjects     = "projects"
	SectionExperience   = "experience"
	SectionEducation    = "education"
	SectionSkills       = "skills"
	SectionAchievements = "achievements"
)

// SectionNames lists the sections in extraction order.
var SectionNames = []string{
	SectionProjects,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionAchievements,
}

type sectionRule struct {
	heading *regexp.Regexp
	stops   []string
}

// A section body runs from its heading to the first line that starts with
// one of the stop words, or to a trailing newline.
var sectionRules = map[string]sectionRule{
	SectionProjects: {
		heading: regexp.MustCompile(`(?i)projects?|portfolio|work samples?|personal projects?`),
		stops:   []string{"experience", "education", "skills", "achievements", "work", "employment"},
	},
	SectionExperience: {
		heading: regexp.MustCompile(`(?i)experience|work history|employment|professional experience|work experience|career`),
		stops:   []string{"education", "projects", "skills", "achievements"},
	},
	SectionEducation: {
		heading: regexp.MustCompile(`(?i)education|academic|qualifications?|university|college|degree`),
		stops:   []string{"experience", "projects", "skills", "achievements", "work"},
	},
	SectionSkills: {
		heading: regexp.MustCompile(`(?i)skills?|technical skills?|competencies|technologies?|programming languages?`),
		stops:   []string{"experience", "education", "projects", "achievements", "work"},
	},
	SectionAchievements: {
		heading: regexp.MustCompile(`(?i)achievements?|awards?|honors?|certifications?|certificates?`),
		stops:   []string{"experience", "education", "projects", "skills", "work"},
	},
}

var (
	projectSentence    = regexp.MustCompile(`(?i)(?:project|built|developed|created)[^.!?]*[.!?]`)
	experienceSentence = regexp.MustCompile(`(?i)(?:worked|experience|employed|job|position)[^.!?]*[.!?]`)
)

// ExtractSections finds the body text of each known section. A section is
// present in the map only when a heading was found, or, for projects and
// experience, when matching sentences were mined from the text.
func ExtractSections(text string) map[string]string {
	sections := make(map[string]string)
	for _, name := range SectionNames {
		if body, ok := extractSection(text, sectionRules[name]); ok {
			sections[name] = body
		}
	}

	lower := strings.ToLower(text)
	if sections[SectionProjects] == "" && strings.Contains(lower, "project") {
		if m := projectSentence.FindAllString(text, -1); len(m) > 0 {
			sections[SectionProjects] = strings.TrimSpace(strings.Join(m, " "))
		}
	}
	if sections[SectionExperience] == "" && (strings.Contains(lower, "experience") || strings.Contains(lower, "worked")) {
		if m := experienceSentence.FindAllString(text, -1); len(m) > 0 {
			sections[SectionExperience] = strings.TrimSpace(strings.Join(m, " "))
		}
	}
	return sections
}

// extractSection tries every heading occurrence left to right and returns
// the first one that is followed by a terminating line.
func extractSection(text string, rule sectionRule) (string, bool) {
	for offset := 0; offset < len(text); {
		loc := rule.heading.FindStringIndex(text[offset:])
		if loc == nil {
			return "", false
		}
		headStart, headEnd := offset+loc[0], offset+loc[1]

		sepEnd := headEnd
		for sepEnd < len(text) && isSeparator(text[sepEnd]) {
			sepEnd++
		}

		// Prefer a body after the whole separator run; otherwise give back
		// separator characters, latest first, which leaves an empty body.
		for p := sepEnd; p < len(text); p++ {
			if terminates(text, p, rule.stops) {
				return strings.TrimSpace(text[sepEnd:p]), true
			}
		}
		for p := sepEnd - 1; p >= headEnd; p-- {
			if terminates(text, p, rule.stops) {
				return "", true
			}
		}

		offset = headStart + 1
	}
	return "", false
}

func isSeparator(b byte) bool {
	switch b {
	case ':', ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func terminates(text string, p int, stops []string) bool {
	if text[p] != '\n' {
		return false
	}
	rest := text[p+1:]
	if rest == "" {
		return true
	}
	for _, stop := range stops {
		if len(rest) >= len(stop) && strings.EqualFold(rest[:len(stop)], stop) {
			return true
		}
	}
	return false
}
