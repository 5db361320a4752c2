package chat

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

const (
	FormatText = "text"
	FormatHTML = "html"
)

// NormalizeFormat maps unknown values to FormatText
func NormalizeFormat(format string) string {
	if strings.EqualFold(strings.TrimSpace(format), FormatHTML) {
		return FormatHTML
	}
	return FormatText
}

// Render turns markdown into the requested output format
func Render(md, format string) string {
	if NormalizeFormat(format) == FormatHTML {
		return ToHTML(md)
	}
	return StripMarkdown(md)
}

// ToHTML converts markdown to HTML, dropping any raw HTML in the input
func ToHTML(md string) string {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.SkipHTML,
	})
	out := blackfriday.Run([]byte(md),
		blackfriday.WithExtensions(blackfriday.CommonExtensions),
		blackfriday.WithRenderer(renderer),
	)
	return strings.TrimSpace(string(out))
}

var (
	headingRe = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	emphRe    = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	italicRe  = regexp.MustCompile(`(^|[^*])\*([^*\n]+)\*`)
	codeRe    = regexp.MustCompile("`([^`]*)`")
	linkRe    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	listRe    = regexp.MustCompile(`(?m)^(\s*)[-*+]\s+`)
)

// StripMarkdown returns plain text, keeping bullets as "•"
func StripMarkdown(md string) string {
	s := headingRe.ReplaceAllString(md, "")
	s = linkRe.ReplaceAllString(s, "$1 ($2)")
	s = emphRe.ReplaceAllString(s, "$2")
	s = italicRe.ReplaceAllString(s, "$1$2")
	s = codeRe.ReplaceAllString(s, "$1")
	s = listRe.ReplaceAllString(s, "$1• ")
	return strings.TrimSpace(s)
}
