package cleanup

import (
	"regexp"
	"strings"

	"github.com/panbanda/styleaudit/pkg/extract"
)

// RemoveStyleClasses removes selector components that consist of exactly one
// of the given classes, optionally followed by pseudo-classes. A rule whose
// selector list becomes empty is deleted together with its body. Compound
// selectors that merely mention a class (".a .b", "Label.b") are kept.
func RemoveStyleClasses(text string, classes []string) (string, bool) {
	if len(classes) == 0 {
		return text, false
	}
	match := componentMatcher(classes)

	blanked := extract.BlankComments(text)
	blocks := extract.Blocks(blanked)

	out := text
	changed := false
	// back to front so earlier offsets stay valid
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		comps := splitSelectors(blanked, b.SelectorStart, b.BodyStart)

		var kept []selectorComponent
		for _, c := range comps {
			if !match.MatchString(blanked[c.coreStart:c.coreEnd]) {
				kept = append(kept, c)
			}
		}
		if len(kept) == len(comps) {
			continue
		}
		changed = true

		if len(kept) == 0 {
			end := b.End
			if strings.HasPrefix(out[end:], "\r\n") {
				end += 2
			} else if strings.HasPrefix(out[end:], "\n") {
				end++
			}
			out = out[:b.SelectorStart] + out[end:]
			continue
		}

		var sb strings.Builder
		for j, c := range kept {
			if j > 0 {
				sb.WriteByte(',')
				sb.WriteString(text[c.start:c.coreStart])
			}
			sb.WriteString(text[c.coreStart:c.coreEnd])
		}
		last := comps[len(comps)-1]
		sb.WriteString(text[last.coreEnd:last.end])
		out = out[:b.SelectorStart] + sb.String() + out[b.BodyStart:]
	}
	return out, changed
}

// selectorComponent is one comma-separated part of a selector list. The core
// excludes surrounding whitespace.
type selectorComponent struct {
	start, coreStart, coreEnd, end int
}

func splitSelectors(blanked string, from, to int) []selectorComponent {
	var comps []selectorComponent
	start := from
	for i := from; i <= to; i++ {
		if i < to && blanked[i] != ',' {
			continue
		}
		c := selectorComponent{start: start, coreStart: start, coreEnd: i, end: i}
		for c.coreStart < c.coreEnd && isSpace(blanked[c.coreStart]) {
			c.coreStart++
		}
		for c.coreEnd > c.coreStart && isSpace(blanked[c.coreEnd-1]) {
			c.coreEnd--
		}
		comps = append(comps, c)
		start = i + 1
	}
	return comps
}

func componentMatcher(classes []string) *regexp.Regexp {
	quoted := make([]string, len(classes))
	for i, c := range classes {
		quoted[i] = regexp.QuoteMeta(c)
	}
	return regexp.MustCompile(`^\.(?:` + strings.Join(quoted, "|") + `)(?::{1,2}[A-Za-z-]+)*$`)
}
