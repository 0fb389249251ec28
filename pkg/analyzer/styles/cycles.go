package styles

import (
	"sort"

	"github.com/panbanda/styleaudit/pkg/resolve"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Edge is a resolved reference between two scanned files.
type Edge struct {
	From string `json:"from" toon:"from"`
	To   string `json:"to" toon:"to"`
}

// Unresolved is a reference whose target is not a scanned stylesheet.
type Unresolved struct {
	From   string `json:"from" toon:"from"`
	Ref    string `json:"ref" toon:"ref"`
	Target string `json:"target" toon:"target"`
	// Exists is true when the target is on disk but outside the scanned set.
	Exists bool `json:"exists" toon:"exists"`
}

// ImportGraph is the static view of the reference graph: which stylesheets
// import which, which markup files include which stylesheets, and the import
// cycles.
type ImportGraph struct {
	Styles     []string     `json:"styles" toon:"styles"`
	Imports    []Edge       `json:"imports" toon:"imports"`
	References []Edge       `json:"references" toon:"references"`
	Unresolved []Unresolved `json:"unresolved" toon:"unresolved"`
	// Cycles lists strongly connected stylesheet groups of more than one
	// file, plus stylesheets that import themselves.
	Cycles [][]string `json:"cycles" toon:"cycles"`
}

// BuildImportGraph resolves every reference in g once, without traversal.
func BuildImportGraph(g *Graph, r *resolve.Resolver) *ImportGraph {
	ig := &ImportGraph{
		Styles:     append([]string{}, g.Styles...),
		Imports:    []Edge{},
		References: []Edge{},
		Unresolved: []Unresolved{},
		Cycles:     [][]string{},
	}

	directed := simple.NewDirectedGraph()
	for i := range g.Styles {
		directed.AddNode(simple.Node(i))
	}

	selfLoops := make(map[string]bool)
	addRefs := func(from string, refs []string, isStyle bool) {
		for _, ref := range refs {
			target := r.Resolve(from, ref)
			to, ok := g.StyleIndex(target)
			if !ok {
				ig.Unresolved = append(ig.Unresolved, Unresolved{From: from, Ref: ref, Target: target, Exists: r.Exists(target)})
				continue
			}
			edge := Edge{From: from, To: target}
			if !isStyle {
				ig.References = append(ig.References, edge)
				continue
			}
			ig.Imports = append(ig.Imports, edge)

			fromIdx, _ := g.StyleIndex(from)
			if fromIdx == to {
				// simple graphs reject self edges
				selfLoops[from] = true
				continue
			}
			directed.SetEdge(simple.Edge{F: simple.Node(fromIdx), T: simple.Node(to)})
		}
	}

	for _, path := range g.Markup {
		addRefs(path, g.MarkupFacts[path].StyleRefs, false)
	}
	for _, path := range g.Styles {
		addRefs(path, g.StyleFacts[path].Imports, true)
	}

	for _, scc := range topo.TarjanSCC(directed) {
		if len(scc) < 2 {
			continue
		}
		cycle := make([]string, 0, len(scc))
		for _, n := range scc {
			cycle = append(cycle, g.Styles[n.ID()])
		}
		sort.Strings(cycle)
		ig.Cycles = append(ig.Cycles, cycle)
	}
	for path := range selfLoops {
		ig.Cycles = append(ig.Cycles, []string{path})
	}
	sort.Slice(ig.Cycles, func(i, j int) bool {
		a, b := ig.Cycles[i], ig.Cycles[j]
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return len(a) < len(b)
	})

	return ig
}
