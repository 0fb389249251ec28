package extract

import (
	"regexp"
	"strings"
)

var (
	cssCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)

	// A prelude up to '{' and a body up to the first '}'. Blocks do not nest.
	ruleBlockRegex = regexp.MustCompile(`([^{]+)\{[^}]*\}`)

	// .class-name; a trailing pseudo-class such as :hover is not part of the token.
	// Names may start with dashes or digits (".--accent").
	classSelectorRegex = regexp.MustCompile(`\.([A-Za-z0-9_-]+)`)

	// @import url("x.uss"); and @import "x.uss"; in either quote style.
	importRegex = regexp.MustCompile(`@import\s+(?:url\(\s*(?:"([^"]*)"|'([^']*)')\s*\)|"([^"]*)"|'([^']*)')\s*;`)
)

// Block is one rule block located in stylesheet text. Offsets index into the
// text passed to Blocks.
type Block struct {
	// Start and End delimit the whole match: leading trivia, selectors and body.
	Start int
	End   int
	// SelectorStart is where the selector list begins, after any whitespace,
	// comments or @-statements that precede it.
	SelectorStart int
	// BodyStart is the offset of the opening brace.
	BodyStart int
}

// Selectors returns the selector list of the block with comments blanked out.
func (b Block) Selectors(blanked string) string {
	return blanked[b.SelectorStart:b.BodyStart]
}

// Style extracts defined class selectors and raw import references from USS text.
func Style(text string) *StyleFacts {
	blanked := BlankComments(text)

	classes := make(set)
	for _, b := range Blocks(blanked) {
		for _, cls := range SelectorClasses(b.Selectors(blanked)) {
			classes.add(cls)
		}
	}

	imports := make(set)
	for _, m := range importRegex.FindAllStringSubmatch(blanked, -1) {
		imports.add(firstGroup(m))
	}

	return &StyleFacts{
		Classes: classes.sorted(),
		Imports: imports.sorted(),
	}
}

// Blocks segments text into rule blocks. Pass text through BlankComments first
// so braces and selectors inside comments are not mistaken for rules; offsets
// remain valid for the original text.
func Blocks(text string) []Block {
	matches := ruleBlockRegex.FindAllStringSubmatchIndex(text, -1)
	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		preludeStart, preludeEnd := m[2], m[3]
		blocks = append(blocks, Block{
			Start:         m[0],
			End:           m[1],
			SelectorStart: preludeStart + selectorOffset(text[preludeStart:preludeEnd]),
			BodyStart:     preludeEnd,
		})
	}
	return blocks
}

// SelectorClasses returns every class token in a selector list, in order of appearance.
func SelectorClasses(selectors string) []string {
	var out []string
	for _, m := range classSelectorRegex.FindAllStringSubmatch(selectors, -1) {
		out = append(out, m[1])
	}
	return out
}

// BlankComments replaces /* ... */ comments with spaces, keeping newlines, so
// that byte offsets into the result match the input.
func BlankComments(text string) string {
	return cssCommentRegex.ReplaceAllStringFunc(text, func(c string) string {
		b := []byte(c)
		for i := range b {
			if b[i] != '\n' && b[i] != '\r' {
				b[i] = ' '
			}
		}
		return string(b)
	})
}

// selectorOffset skips statements (@import ...;), stray closing braces and
// whitespace at the start of a prelude.
func selectorOffset(prelude string) int {
	start := strings.LastIndexAny(prelude, ";}") + 1
	for start < len(prelude) {
		switch prelude[start] {
		case ' ', '\t', '\n', '\r', '\f':
			start++
		default:
			return start
		}
	}
	return start
}
