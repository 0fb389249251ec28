package styles

import (
	"sort"

	"github.com/panbanda/styleaudit/pkg/extract"
	"github.com/panbanda/styleaudit/pkg/resolve"
)

// Graph is the reference graph of one analysis run: the facts of every
// discovered markup file and stylesheet, keyed by canonical absolute path.
// Paths are also numbered (in sorted order) so reachability can use bitmaps.
type Graph struct {
	Markup      []string                        `json:"markup"`
	Styles      []string                        `json:"styles"`
	MarkupFacts map[string]*extract.MarkupFacts `json:"-"`
	StyleFacts  map[string]*extract.StyleFacts  `json:"-"`

	styleIndex map[string]uint32
}

// NewGraph assembles a graph from extracted facts. Keys are canonicalized;
// nil facts are replaced with empty ones.
func NewGraph(markup map[string]*extract.MarkupFacts, styles map[string]*extract.StyleFacts) *Graph {
	g := &Graph{
		MarkupFacts: make(map[string]*extract.MarkupFacts, len(markup)),
		StyleFacts:  make(map[string]*extract.StyleFacts, len(styles)),
	}
	for path, f := range markup {
		if f == nil {
			f = &extract.MarkupFacts{Classes: []string{}, StyleRefs: []string{}}
		}
		g.MarkupFacts[resolve.Canonical(path)] = f
	}
	for path, f := range styles {
		if f == nil {
			f = &extract.StyleFacts{Classes: []string{}, Imports: []string{}}
		}
		g.StyleFacts[resolve.Canonical(path)] = f
	}

	g.Markup, _ = index(g.MarkupFacts)
	g.Styles, g.styleIndex = index(g.StyleFacts)
	return g
}

// StyleIndex returns the number assigned to a stylesheet path.
func (g *Graph) StyleIndex(path string) (uint32, bool) {
	i, ok := g.styleIndex[path]
	return i, ok
}

func index[V any](m map[string]V) ([]string, map[string]uint32) {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	idx := make(map[string]uint32, len(paths))
	for i, p := range paths {
		idx[p] = uint32(i)
	}
	return paths, idx
}
