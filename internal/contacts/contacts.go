// Package contacts derives a structured contact record from résumé text and
// hyperlinks harvested from the document.
package contacts

import (
	"regexp"
	"strings"
)

// Contacts holds at most one value per field. Empty means absent.
type Contacts struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	LeetCode string `json:"leetcode,omitempty"`
	Website  string `json:"website,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
}

var (
	whitespace   = regexp.MustCompile(`\s+`)
	emailPattern = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().-]{7,}\d`)
	phoneStrip   = regexp.MustCompile(`[^\d+]`)
	urlPattern   = regexp.MustCompile(`(?i)https?://[\w.-]+(?:/[\w\-._~:/?#\[\]@!$&'()*+,;=%]*)?`)
	trailingJunk = regexp.MustCompile(`[).]+$`)

	linkedInHost = regexp.MustCompile(`(?i)linkedin\.com/in/`)
	gitHubHost   = regexp.MustCompile(`(?i)github\.com/`)
	leetCodeHost = regexp.MustCompile(`(?i)leetcode\.com/`)
	twitterHost  = regexp.MustCompile(`(?i)twitter\.com/`)
	knownHost    = regexp.MustCompile(`(?i)linkedin\.com|github\.com|leetcode\.com|twitter\.com`)
)

// Extract pattern-matches contact details. URLs found in text come first,
// followed by extraURLs; within each field the first match wins, so the result
// depends only on the inputs and their order.
func Extract(text string, extraURLs []string) Contacts {
	normalized := strings.TrimSpace(whitespace.ReplaceAllString(text, " "))

	var c Contacts
	if m := emailPattern.FindString(normalized); m != "" {
		c.Email = m
	}
	if m := phonePattern.FindString(normalized); m != "" {
		c.Phone = phoneStrip.ReplaceAllString(m, "")
	}

	urls := urlPattern.FindAllString(normalized, -1)
	urls = append(urls, extraURLs...)

	c.LinkedIn = firstMatching(urls, linkedInHost)
	c.GitHub = firstMatching(urls, gitHubHost)
	c.LeetCode = firstMatching(urls, leetCodeHost)
	c.Twitter = firstMatching(urls, twitterHost)

	for _, u := range urls {
		if !knownHost.MatchString(u) {
			c.Website = trimURL(u)
			break
		}
	}
	return c
}

func firstMatching(urls []string, host *regexp.Regexp) string {
	for _, u := range urls {
		if host.MatchString(u) {
			return trimURL(u)
		}
	}
	return ""
}

func trimURL(u string) string {
	return trailingJunk.ReplaceAllString(strings.TrimSpace(u), "")
}

// IsEmpty reports whether no field is set.
func (c Contacts) IsEmpty() bool {
	return c == Contacts{}
}

// Field is a labelled contact value.
type Field struct {
	Key   string
	Value string
}

// Fields lists the set fields in a stable order.
func (c Contacts) Fields() []Field {
	all := []Field{
		{"Email", c.Email},
		{"Phone", c.Phone},
		{"LinkedIn", c.LinkedIn},
		{"GitHub", c.GitHub},
		{"LeetCode", c.LeetCode},
		{"Website", c.Website},
		{"Twitter", c.Twitter},
	}
	out := all[:0]
	for _, f := range all {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}
