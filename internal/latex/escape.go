package latex

import "strings"

var textEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
)

// hyperref takes URLs verbatim except for these.
var urlEscaper = strings.NewReplacer(`%`, `\%`, `#`, `\#`)

// Escape makes plain text safe to place in a LaTeX document body.
func Escape(text string) string {
	return textEscaper.Replace(text)
}

// EscapeURL makes a URL safe as the first argument of \href.
func EscapeURL(url string) string {
	return urlEscaper.Replace(url)
}
