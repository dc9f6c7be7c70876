package latex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const generatedWithPlaceholders = `\documentclass{article}
\begin{document}
\section{Experience}
Backend engineer, Acme
\section{Projects}
\textbf{Project Name} | Duration
Description: placeholder
\section{Education}
BSc
\end{document}`

func TestHasPlaceholderText(t *testing.T) {
	assert.True(t, HasPlaceholderText("Project Name goes here"))
	assert.True(t, HasPlaceholderText("Achievement 2"))
	assert.True(t, HasPlaceholderText("degree, Institution"))
	assert.False(t, HasPlaceholderText("Backend engineer building payment APIs"))
}

func TestRemoveHallucinatedSections_RemovesMissingSection(t *testing.T) {
	original := "Jane\nExperience:\nBackend engineer, Acme\nEducation\nBSc\n"

	out, removed := RemoveHallucinatedSections(generatedWithPlaceholders, original)

	assert.NotContains(t, out, `\section{Projects}`)
	assert.NotContains(t, out, "Project Name")
	assert.Contains(t, out, `\section{Experience}`)
	assert.Contains(t, out, "\\section{Education}\nBSc")
	require.Len(t, removed, 1)
	assert.Equal(t, RemovedSection{Name: SectionProjects, Count: 1}, removed[0])
}

func TestRemoveHallucinatedSections_KeepsWhenOriginalHasSection(t *testing.T) {
	original := "Projects:\nInvoice parser\nExperience\nAcme\nEducation\nBSc\n"

	out, removed := RemoveHallucinatedSections(generatedWithPlaceholders, original)

	assert.Equal(t, generatedWithPlaceholders, out)
	assert.Empty(t, removed)
}

func TestRemoveHallucinatedSections_NoPlaceholderNoRemoval(t *testing.T) {
	generated := "\\begin{document}\n\\section{Projects}\nInvoice parser\n\\end{document}"

	out, removed := RemoveHallucinatedSections(generated, "Jane Smith")
	assert.Equal(t, generated, out)
	assert.Empty(t, removed)
}

func TestRemoveHallucinatedSections_PlaceholderScopedToSection(t *testing.T) {
	generated := "\\begin{document}\n\\section{Experience}\nBackend engineer, Acme\n" +
		"\\section{Projects}\nProject Name\n\\section{Projects}\nInvoice parser\n\\end{document}"

	out, removed := RemoveHallucinatedSections(generated, "Jane Smith")

	assert.Equal(t, "\\begin{document}\n\\section{Experience}\nBackend engineer, Acme\n"+
		"\\section{Projects}\nInvoice parser\n\\end{document}", out)
	assert.Equal(t, []RemovedSection{{Name: SectionProjects, Count: 1}}, removed)
}

func TestRemoveSectionBlocks_AllOccurrencesAndUnterminated(t *testing.T) {
	latex := "\\section{Projects}\na\n\\SECTION{Side Projects}\nb\n\\section{Skills}\nc\n\\section{Project}\nno end"

	out, n := removeSectionBlocks(latex, removableSections[0].heading, nil)

	assert.Equal(t, 2, n)
	assert.True(t, strings.HasPrefix(out, "\\section{Skills}\nc\n\\section{Project}\nno end"))
}

func TestValidateFidelity(t *testing.T) {
	original := "Jane\nSkills\nGo\n"
	output := "Experience\n" + strings.Repeat("Shipped things at a company. ", 5) + "\nEducation\nBSc\n" +
		"Designed and implemented a queue. Increased throughput by 40%."

	issues := ValidateFidelity(output, original)

	var sections, patterns []string
	for _, i := range issues {
		if i.Section != "" {
			sections = append(sections, i.Section)
		}
		if i.Pattern != "" {
			patterns = append(patterns, i.Pattern)
		}
	}
	assert.Equal(t, []string{SectionExperience}, sections)
	assert.Len(t, patterns, 2)
}

func TestValidateFidelity_PhraseInOriginalIsFine(t *testing.T) {
	original := "Led a team of 5 engineers."
	assert.Empty(t, ValidateFidelity("Led a team of 5 engineers.", original))
}
