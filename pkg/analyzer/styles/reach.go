package styles

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/panbanda/styleaudit/pkg/resolve"
)

// Reach is the reachability result for one markup file.
type Reach struct {
	// Classes is the union of the classes of every stylesheet reached, sorted.
	Classes []string `json:"classes"`
	// Broken holds raw references that resolved to no file on disk, in
	// traversal order. Broken imports of reached stylesheets are included.
	Broken []string `json:"broken,omitempty"`

	visited *roaring.Bitmap
}

// VisitedCount returns how many stylesheets the traversal expanded.
func (r *Reach) VisitedCount() uint64 {
	return r.visited.GetCardinality()
}

// HasClass reports whether name is defined by a reached stylesheet.
func (r *Reach) HasClass(name string) bool {
	i := sort.SearchStrings(r.Classes, name)
	return i < len(r.Classes) && r.Classes[i] == name
}

// Reachability holds the traversal of every markup file and the inverse
// usage index.
type Reachability struct {
	// PerMarkup is keyed by markup path.
	PerMarkup map[string]*Reach
	// usedBy[styleIndex] holds the indices of markup files that reach it.
	usedBy []*roaring.Bitmap
}

// UsedBy returns the markup indices whose traversal visits the stylesheet.
func (r *Reachability) UsedBy(styleIndex uint32) *roaring.Bitmap {
	if int(styleIndex) >= len(r.usedBy) {
		return roaring.New()
	}
	return r.usedBy[styleIndex]
}

// Engine walks the stylesheet import graph.
type Engine struct {
	graph    *Graph
	resolver *resolve.Resolver
}

// NewEngine creates a reachability engine over g.
func NewEngine(g *Graph, r *resolve.Resolver) *Engine {
	return &Engine{graph: g, resolver: r}
}

type pendingRef struct {
	from string
	ref  string
}

// Reach traverses from the style references of one markup file. Each
// stylesheet is expanded at most once, so cyclic imports terminate. The walk
// is depth-first in sorted reference order.
func (e *Engine) Reach(markupPath string) *Reach {
	r := &Reach{visited: roaring.New()}
	facts, ok := e.graph.MarkupFacts[markupPath]
	if !ok {
		r.Classes = []string{}
		return r
	}

	classes := make(map[string]struct{})
	var stack []pendingRef
	push := func(from string, refs []string) {
		for i := len(refs) - 1; i >= 0; i-- {
			stack = append(stack, pendingRef{from: from, ref: refs[i]})
		}
	}
	push(markupPath, facts.StyleRefs)

	for len(stack) > 0 {
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		target := e.resolver.Resolve(next.from, next.ref)
		idx, known := e.graph.StyleIndex(target)
		if !known {
			// Present on disk but outside the scanned set contributes nothing.
			if !e.resolver.Exists(target) {
				r.Broken = append(r.Broken, next.ref)
			}
			continue
		}
		if r.visited.Contains(idx) {
			continue
		}
		r.visited.Add(idx)

		style := e.graph.StyleFacts[target]
		for _, cls := range style.Classes {
			classes[cls] = struct{}{}
		}
		push(target, style.Imports)
	}

	r.Classes = make([]string, 0, len(classes))
	for cls := range classes {
		r.Classes = append(r.Classes, cls)
	}
	sort.Strings(r.Classes)
	return r
}

// Run traverses from every markup file and builds the usage index.
func (e *Engine) Run() *Reachability {
	out := &Reachability{
		PerMarkup: make(map[string]*Reach, len(e.graph.Markup)),
		usedBy:    make([]*roaring.Bitmap, len(e.graph.Styles)),
	}
	for i := range out.usedBy {
		out.usedBy[i] = roaring.New()
	}

	for mi, path := range e.graph.Markup {
		r := e.Reach(path)
		out.PerMarkup[path] = r
		it := r.visited.Iterator()
		for it.HasNext() {
			out.usedBy[it.Next()].Add(uint32(mi))
		}
	}
	return out
}
