package latex

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-perfecto/internal/contacts"
)

func TestEnforceContactLinks_InjectsHeader(t *testing.T) {
	latex := "\\documentclass{article}\n\\begin{document}\n\\section{Summary}\n\\end{document}"
	c := contacts.Contacts{
		Email:    "jane@example.com",
		Phone:    "+15551234567",
		LinkedIn: "https://linkedin.com/in/jane",
		Website:  "https://jane.dev",
	}

	out := EnforceContactLinks(latex, c)

	want := "\\documentclass{article}\n\\begin{document}\n" +
		"\n\\begin{center}\n" +
		"\\href{tel:+15551234567}{+15551234567} \\mid \\href{mailto:jane@example.com}{jane@example.com} \\mid " +
		"\\href{https://linkedin.com/in/jane}{LinkedIn} \\mid \\href{https://jane.dev}{Website}" +
		"\n\\end{center}\n" +
		"\\section{Summary}\n\\end{document}"
	assert.Equal(t, want, out)
}

func TestEnforceContactLinks_NoContactsNoHeader(t *testing.T) {
	latex := "\\begin{document}\nBody\n\\end{document}"
	assert.Equal(t, latex, EnforceContactLinks(latex, contacts.Contacts{}))
}

func TestEnforceContactLinks_RewritesExistingHrefs(t *testing.T) {
	latex := `\begin{document}
\href{mailto:wrong@example.com}{Mail} \href{tel:000}{}
\href{https://www.linkedin.com/in/invented}{LinkedIn}
\href{https://github.com/invented}{}
\href{https://github.com/second}{Second}
\href{https://invented.site}{Site}
\end{document}`
	c := contacts.Contacts{
		Email:    "jane@example.com",
		Phone:    "+15551234567",
		LinkedIn: "https://linkedin.com/in/jane",
		GitHub:   "https://github.com/jane",
		Website:  "https://jane.dev",
	}

	out := EnforceContactLinks(latex, c)

	want := `\begin{document}
\href{mailto:jane@example.com}{Mail} \href{tel:+15551234567}{+15551234567}
\href{https://linkedin.com/in/jane}{LinkedIn}
\href{https://github.com/jane}{https://github.com/jane}
\href{https://github.com/second}{Second}
\href{https://jane.dev}{Site}
\end{document}`
	assert.Equal(t, want, out)
}

func TestEnforceContactLinks_ReplacementIsLiteral(t *testing.T) {
	latex := "\\begin{document}\n\\href{https://github.com/x}{gh}\n"
	c := contacts.Contacts{GitHub: "https://github.com/$1${2}"}

	out := EnforceContactLinks(latex, c)
	assert.Contains(t, out, "\\href{https://github.com/$1${2}}{gh}")
}

func TestEnforceContactLinks_WebsiteSkipsWellKnownHosts(t *testing.T) {
	latex := "\\begin{document}\n" +
		"\\href{https://www.linkedin.com/in/someone}{LinkedIn} \\href{https://github.com/someone}{GitHub}\n" +
		"\\href{https://old.example.com}{Portfolio}\n"
	c := contacts.Contacts{Website: "https://jane.dev"}

	out := EnforceContactLinks(latex, c)
	assert.Contains(t, out, "\\href{https://www.linkedin.com/in/someone}{LinkedIn}")
	assert.Contains(t, out, "\\href{https://github.com/someone}{GitHub}")
	assert.Contains(t, out, "\\href{https://jane.dev}{Portfolio}")
	assert.NotContains(t, out, "old.example.com")
}

func TestEnforceContactLinks_URLSpecialsRoundTrip(t *testing.T) {
	latex := "\\begin{document}\n\\href{https://old.example.com}{Site}\n"
	site := "https://jane.dev/cv?ref=50%25#projects"

	out := EnforceContactLinks(latex, contacts.Contacts{Website: site})
	assert.Contains(t, out, "\\href{https://jane.dev/cv?ref=50\\%25\\#projects}{Site}")

	m := regexp.MustCompile(`\\href\{([^}]*)\}\{Site\}`).FindStringSubmatch(out)
	require.Len(t, m, 2)
	unescaped := strings.NewReplacer(`\#`, `#`, `\%`, `%`).Replace(m[1])
	assert.Equal(t, site, unescaped)
}
