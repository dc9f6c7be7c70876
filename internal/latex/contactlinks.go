package latex

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-perfecto/internal/contacts"
)

var (
	headerLinks   = regexp.MustCompile(`(?i)\\href\{mailto:|\\href\{tel:|linkedin\.com|github\.com|leetcode\.com`)
	beginDocument = regexp.MustCompile(`(?i)\\begin\{document\}\s*`)

	linkedInHref = regexp.MustCompile(`(?i)\\href\{https?://[^}]*linkedin\.com[^}]*\}\{([^}]*)\}`)
	gitHubHref   = regexp.MustCompile(`(?i)\\href\{https?://[^}]*github\.com[^}]*\}\{([^}]*)\}`)
	leetCodeHref = regexp.MustCompile(`(?i)\\href\{https?://[^}]*leetcode\.com[^}]*\}\{([^}]*)\}`)
	anyWebHref   = regexp.MustCompile(`(?i)\\href\{https?://[^}]*\}\{([^}]*)\}`)
	mailtoHref   = regexp.MustCompile(`(?i)\\href\{mailto:[^}]*\}\{([^}]*)\}`)
	telHref      = regexp.MustCompile(`(?i)\\href\{tel:[^}]*\}\{([^}]*)\}`)
	wellKnown    = regexp.MustCompile(`(?i)linkedin\.com|github\.com|leetcode\.com`)
)

// EnforceContactLinks makes the document's contact hrefs carry the values
// extracted from the original résumé. A document with no contact links at
// all gets a centered header right after \begin{document}.
func EnforceContactLinks(latex string, c contacts.Contacts) string {
	out := latex

	if !headerLinks.MatchString(out) {
		out = injectHeader(out, c)
	}

	if c.LinkedIn != "" {
		out = replaceFirstHref(out, linkedInHref, c.LinkedIn, nil)
	}
	if c.GitHub != "" {
		out = replaceFirstHref(out, gitHubHref, c.GitHub, nil)
	}
	if c.LeetCode != "" {
		out = replaceFirstHref(out, leetCodeHref, c.LeetCode, nil)
	}
	if c.Website != "" {
		out = replaceFirstHref(out, anyWebHref, c.Website, wellKnown)
	}
	if c.Email != "" {
		out = replaceFirstHref(out, mailtoHref, "mailto:"+c.Email, nil, c.Email)
	}
	if c.Phone != "" {
		out = replaceFirstHref(out, telHref, "tel:"+c.Phone, nil, c.Phone)
	}
	return out
}

func injectHeader(latex string, c contacts.Contacts) string {
	var parts []string
	if c.Phone != "" {
		parts = append(parts, href("tel:"+c.Phone, Escape(c.Phone)))
	}
	if c.Email != "" {
		parts = append(parts, href("mailto:"+c.Email, Escape(c.Email)))
	}
	if c.LinkedIn != "" {
		parts = append(parts, href(c.LinkedIn, "LinkedIn"))
	}
	if c.GitHub != "" {
		parts = append(parts, href(c.GitHub, "GitHub"))
	}
	if c.LeetCode != "" {
		parts = append(parts, href(c.LeetCode, "LeetCode"))
	}
	if c.Website != "" {
		parts = append(parts, href(c.Website, "Website"))
	}
	if len(parts) == 0 {
		return latex
	}

	loc := beginDocument.FindStringIndex(latex)
	if loc == nil {
		return latex
	}
	block := "\n\\begin{center}\n" + strings.Join(parts, ` \mid `) + "\n\\end{center}\n"
	return latex[:loc[1]] + block + latex[loc[1]:]
}

// replaceFirstHref rewrites the target of the first href matching pattern
// whose text does not match skip. The display text is kept; an empty one
// becomes display[0] when given, else the target.
func replaceFirstHref(latex string, pattern *regexp.Regexp, target string, skip *regexp.Regexp, display ...string) string {
	for _, m := range pattern.FindAllStringSubmatchIndex(latex, -1) {
		if skip != nil && skip.MatchString(latex[m[0]:m[1]]) {
			continue
		}
		text := latex[m[2]:m[3]]
		if text == "" {
			text = target
			if len(display) > 0 {
				text = display[0]
			}
			text = Escape(text)
		}
		return latex[:m[0]] + href(target, text) + latex[m[1]:]
	}
	return latex
}

// href escapes only what LaTeX itself would consume; hyperref restores \# and
// \% to the literal target.
func href(target, text string) string {
	return `\href{` + EscapeURL(target) + `}{` + text + `}`
}
