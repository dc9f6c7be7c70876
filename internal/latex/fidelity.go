package latex

import (
	"fmt"
	"regexp"
	"strings"
)

// AddedContentThreshold is the size above which section content with no
// counterpart in the original is reported.
const AddedContentThreshold = 100

var inventedPhrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)developed a \w+ application`),
	regexp.MustCompile(`(?i)created a \w+ system`),
	regexp.MustCompile(`(?i)built a \w+ platform`),
	regexp.MustCompile(`(?i)designed and implemented`),
	regexp.MustCompile(`(?i)led a team of \d+`),
	regexp.MustCompile(`(?i)managed \d+ projects`),
	regexp.MustCompile(`(?i)increased \w+ by \d+%`),
}

// FidelityIssue describes generated content that may not come from the
// original résumé.
type FidelityIssue struct {
	Section string
	Pattern string
	Detail  string
}

func (i FidelityIssue) String() string {
	return i.Detail
}

// ValidateFidelity compares generated output with the original text and
// returns suspected additions. It never modifies the output.
func ValidateFidelity(output, original string) []FidelityIssue {
	var issues []FidelityIssue

	generated := ExtractSections(output)
	source := ExtractSections(original)
	for _, name := range []string{SectionProjects, SectionExperience} {
		added := strings.TrimSpace(generated[name])
		if added == "" {
			continue
		}
		if strings.TrimSpace(source[name]) == "" && len(added) > AddedContentThreshold {
			issues = append(issues, FidelityIssue{
				Section: name,
				Detail:  fmt.Sprintf("content added to %s section where none existed", name),
			})
		}
	}

	for _, p := range inventedPhrasePatterns {
		if p.MatchString(output) && !p.MatchString(original) {
			issues = append(issues, FidelityIssue{
				Pattern: p.String(),
				Detail:  fmt.Sprintf("generated phrase %q has no match in the original", p.FindString(output)),
			})
		}
	}
	return issues
}
