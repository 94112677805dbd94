// Package normalize strips entity, escape and encoding artifacts that
// survive feed markup and HTML-to-markdown conversion.
package normalize

import (
	"regexp"
	"strings"
)

// entityReplacer maps the HTML named entities that commonly leak through
// article markup to their literal characters.
var entityReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&ldquo;", `"`,
	"&rdquo;", `"`,
	"&lsquo;", "'",
	"&rsquo;", "'",
	"&apos;", "'",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&nbsp;", " ",
)

// escapeReplacer collapses escaped punctuation left over from markdown
// conversion.
var escapeReplacer = strings.NewReplacer(
	`\"`, `"`,
	`\'`, "'",
	`\\`, `\`,
	`\.`, ".",
	`\,`, ",",
	`\!`, "!",
	`\?`, "?",
)

var (
	// Anything outside printable ASCII plus newline/tab renders as a black
	// box on e-ink devices.
	nonPrintableRe  = regexp.MustCompile(`[^\x20-\x7E\n\t]`)
	isolatedBangsRe = regexp.MustCompile(`\s+!+\s+`)
	repeatedBangsRe = regexp.MustCompile(`!{2,}`)
	straySymbolsRe  = regexp.MustCompile(`\s+[^\w\s.,!?\-()]+\s+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// CleanArtifacts removes escape sequences, non-printable characters and
// exclamation-mark artifacts while leaving line structure intact.
func CleanArtifacts(s string) string {
	s = escapeReplacer.Replace(s)
	s = strings.ReplaceAll(s, `\`, "")
	s = nonPrintableRe.ReplaceAllString(s, "")
	s = isolatedBangsRe.ReplaceAllString(s, " ")
	return repeatedBangsRe.ReplaceAllString(s, "!")
}

// Normalize cleans raw text for single-line display: entities become their
// literal characters, escape and symbol artifacts are dropped, and all
// whitespace runs collapse to single spaces. Empty in, empty out.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := entityReplacer.Replace(raw)
	s = CleanArtifacts(s)
	s = straySymbolsRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
