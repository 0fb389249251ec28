package extract

import (
	"regexp"
	"strings"
)

var (
	xmlCommentRegex = regexp.MustCompile(`(?s)<!--.*?-->`)

	// class="a b c" (either quote style) preceded by whitespace, so ui:class or
	// data-class attributes are not picked up.
	classAttrRegex = regexp.MustCompile(`(?:^|\s)class\s*=\s*(?:"([^"]*)"|'([^']*)')`)

	// <Style src="..."> or <ui:Style ... src="...">
	styleTagRegex = regexp.MustCompile(`<(?:[\w.-]+:)?Style(?:\s[^>]*?)?\ssrc\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

// Markup extracts class tokens and raw stylesheet references from UXML text.
// Commented-out elements are ignored.
func Markup(text string) *MarkupFacts {
	text = xmlCommentRegex.ReplaceAllString(text, "")

	classes := make(set)
	for _, m := range classAttrRegex.FindAllStringSubmatch(text, -1) {
		for _, cls := range strings.Fields(firstGroup(m)) {
			classes.add(cls)
		}
	}

	refs := make(set)
	for _, m := range styleTagRegex.FindAllStringSubmatch(text, -1) {
		refs.add(firstGroup(m))
	}

	return &MarkupFacts{
		Classes:   classes.sorted(),
		StyleRefs: refs.sorted(),
	}
}

// firstGroup returns the first non-empty capture group of a submatch.
func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
