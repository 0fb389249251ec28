// Package extract pulls the analysis facts out of UXML and USS source text.
//
// Extraction is tolerant: it scans for the few constructs it needs (class
// attributes, <Style src> declarations, rule preludes and @import lines) and
// ignores everything else, so malformed documents yield partial or empty
// facts rather than errors.
package extract

import (
	"sort"
)

// MarkupFacts are the facts extracted from one markup (UXML) file.
type MarkupFacts struct {
	Classes   []string `json:"classes" toon:"classes"`
	StyleRefs []string `json:"style_refs" toon:"style_refs"`
}

// StyleFacts are the facts extracted from one stylesheet (USS) file.
type StyleFacts struct {
	Classes []string `json:"classes" toon:"classes"`
	Imports []string `json:"imports" toon:"imports"`
}

// HasClass reports whether the stylesheet defines name.
func (s *StyleFacts) HasClass(name string) bool {
	return containsSorted(s.Classes, name)
}

// set collects unique strings and returns them sorted.
type set map[string]struct{}

func (s set) add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

func (s set) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func containsSorted(list []string, v string) bool {
	i := sort.SearchStrings(list, v)
	return i < len(list) && list[i] == v
}
