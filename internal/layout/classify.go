// Package layout classifies cleaned content lines and assembles the
// ordered block sequence the rendering backend consumes.
package layout

import (
	"regexp"
	"strings"
	"unicode"
)

// LineKind is the structural role assigned to one cleaned content line.
type LineKind int

const (
	LineParagraph LineKind = iota
	LineHeading
	LineQuote
	LineListItem
	LineCodeBlockMarker
	LineImageRef
)

// Line is one classified content line. Text carries the marker-stripped
// payload; Level is set for markdown headings (1-6, 0 for heuristic
// headings); Alt and URL are set for image references.
type Line struct {
	Kind  LineKind
	Text  string
	Level int
	Alt   string
	URL   string
}

// codeBlockMarker opens a code section; the body runs until the next blank
// line.
const codeBlockMarker = "CODE BLOCK:"

var (
	mdHeadingRe = regexp.MustCompile(`^#{1,6}\s+`)
	faqRe       = regexp.MustCompile(`(?i)^Q:\s*`)
	// Title-shaped lines: leading capital, letters and spaces, one terminal
	// colon, question mark or period.
	titleShapeRe = regexp.MustCompile(`^[A-Z][A-Za-z\s]+[:?.]$`)
	numberedRe   = regexp.MustCompile(`^\d+\.`)
	numPrefixRe  = regexp.MustCompile(`^\d+\.\s*`)
	imageRefRe   = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)]*)\)`)
)

// Classify assigns a structural role to a line. Rules are evaluated in
// priority order; the first match wins.
func Classify(raw string) Line {
	line := strings.TrimSpace(raw)

	if strings.HasPrefix(line, codeBlockMarker) {
		return Line{Kind: LineCodeBlockMarker}
	}
	if mdHeadingRe.MatchString(line) {
		level := 0
		for level < len(line) && line[level] == '#' {
			level++
		}
		return Line{Kind: LineHeading, Level: level, Text: strings.TrimSpace(line[level:])}
	}
	if faqRe.MatchString(line) {
		return Line{Kind: LineHeading, Text: line}
	}
	if isUpperTitle(line) {
		return Line{Kind: LineHeading, Text: line}
	}
	if titleShapeRe.MatchString(line) {
		return Line{Kind: LineHeading, Text: line}
	}
	if strings.HasPrefix(line, ">") {
		return Line{Kind: LineQuote, Text: strings.TrimSpace(strings.TrimLeft(line, "> "))}
	}
	if clean := strings.ReplaceAll(line, `\`, ""); isListItem(clean) {
		return Line{Kind: LineListItem, Text: stripListMarker(clean)}
	}
	if m := imageRefRe.FindStringSubmatch(line); m != nil {
		return Line{Kind: LineImageRef, Alt: m[1], URL: m[2]}
	}
	return Line{Kind: LineParagraph, Text: line}
}

// isUpperTitle reports all-caps section titles, common in academic writing.
func isUpperTitle(line string) bool {
	if len(line) <= 3 || len(line) >= 100 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func isListItem(line string) bool {
	return strings.HasPrefix(line, "- ") ||
		strings.HasPrefix(line, "* ") ||
		strings.HasPrefix(line, "• ") ||
		numberedRe.MatchString(line)
}

func stripListMarker(line string) string {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):])
		}
	}
	return strings.TrimSpace(numPrefixRe.ReplaceAllString(line, ""))
}

// Tier is the visual prominence a heading renders at.
type Tier int

const (
	TierSection Tier = iota
	TierSubtitle
)

// HeadingTier maps a heading level to its visual tier. Only level 2 gets
// the subtitle tier; every other level, including 1, shares the section
// tier.
func HeadingTier(level int) Tier {
	if level == 2 {
		return TierSubtitle
	}
	return TierSection
}
