package styles

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/panbanda/styleaudit/pkg/extract"
	"github.com/panbanda/styleaudit/pkg/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memGraph builds a graph from in-memory facts rooted at a temp dir that
// holds no files, so every unknown target counts as broken.
func memGraph(t *testing.T, markup map[string]*extract.MarkupFacts, styles map[string]*extract.StyleFacts) (string, *Graph, *resolve.Resolver) {
	t.Helper()
	root := t.TempDir()
	mm := make(map[string]*extract.MarkupFacts)
	for k, v := range markup {
		mm[filepath.Join(root, k)] = v
	}
	sm := make(map[string]*extract.StyleFacts)
	for k, v := range styles {
		sm[filepath.Join(root, k)] = v
	}
	return root, NewGraph(mm, sm), resolve.New(root)
}

func styleFacts(classes []string, imports ...string) *extract.StyleFacts {
	return &extract.StyleFacts{Classes: classes, Imports: imports}
}

func TestReach_SelfImport(t *testing.T) {
	root, g, r := memGraph(t,
		map[string]*extract.MarkupFacts{"M.uxml": {StyleRefs: []string{"self.uss"}}},
		map[string]*extract.StyleFacts{"self.uss": styleFacts([]string{"s"}, "self.uss", "./self.uss")},
	)

	reach := NewEngine(g, r).Reach(filepath.Join(root, "M.uxml"))
	assert.Equal(t, []string{"s"}, reach.Classes)
	assert.Empty(t, reach.Broken)
	assert.Equal(t, uint64(1), reach.VisitedCount())
}

func TestReach_LongCycle(t *testing.T) {
	styles := make(map[string]*extract.StyleFacts)
	const n = 50
	for i := 0; i < n; i++ {
		styles[fmt.Sprintf("s%d.uss", i)] = styleFacts([]string{fmt.Sprintf("c%d", i)}, fmt.Sprintf("s%d.uss", (i+1)%n))
	}
	root, g, r := memGraph(t,
		map[string]*extract.MarkupFacts{"M.uxml": {StyleRefs: []string{"s7.uss"}}},
		styles,
	)

	reach := NewEngine(g, r).Reach(filepath.Join(root, "M.uxml"))
	assert.Len(t, reach.Classes, n)
	assert.Equal(t, uint64(n), reach.VisitedCount())
}

func TestReach_DeepChain(t *testing.T) {
	styles := make(map[string]*extract.StyleFacts)
	const n = 20000
	for i := 0; i < n; i++ {
		var imports []string
		if i+1 < n {
			imports = []string{fmt.Sprintf("s%d.uss", i+1)}
		}
		styles[fmt.Sprintf("s%d.uss", i)] = styleFacts([]string{fmt.Sprintf("c%d", i)}, imports...)
	}
	root, g, r := memGraph(t,
		map[string]*extract.MarkupFacts{"M.uxml": {StyleRefs: []string{"s0.uss"}}},
		styles,
	)

	reach := NewEngine(g, r).Reach(filepath.Join(root, "M.uxml"))
	assert.Len(t, reach.Classes, n)
	assert.True(t, reach.HasClass(fmt.Sprintf("c%d", n-1)))
}

func TestReach_Soundness(t *testing.T) {
	// diamond: a -> b, a -> c, b -> d, c -> d, d -> b
	styles := map[string]*extract.StyleFacts{
		"a.uss": styleFacts([]string{"a"}, "b.uss", "c.uss"),
		"b.uss": styleFacts([]string{"b"}, "d.uss"),
		"c.uss": styleFacts([]string{"c", "shared"}, "d.uss"),
		"d.uss": styleFacts([]string{"d", "shared"}, "b.uss"),
		"z.uss": styleFacts([]string{"z"}),
	}
	root, g, r := memGraph(t,
		map[string]*extract.MarkupFacts{
			"M.uxml": {StyleRefs: []string{"a.uss"}},
			"N.uxml": {StyleRefs: []string{"d.uss"}},
		},
		styles,
	)
	engine := NewEngine(g, r)

	// closure computed independently by breadth-first search
	closure := func(start string) map[string]bool {
		seen := map[string]bool{}
		queue := []string{start}
		for len(queue) > 0 {
			s := queue[0]
			queue = queue[1:]
			if seen[s] {
				continue
			}
			seen[s] = true
			queue = append(queue, styles[s].Imports...)
		}
		return seen
	}

	for markup, start := range map[string]string{"M.uxml": "a.uss", "N.uxml": "d.uss"} {
		reach := engine.Reach(filepath.Join(root, markup))
		for s := range closure(start) {
			for _, cls := range styles[s].Classes {
				assert.True(t, reach.HasClass(cls), "%s should reach %s from %s", markup, cls, s)
			}
		}
		assert.False(t, reach.HasClass("z"))
	}

	all := engine.Run()
	zi, ok := g.StyleIndex(filepath.Join(root, "z.uss"))
	require.True(t, ok)
	assert.True(t, all.UsedBy(zi).IsEmpty())
	bi, _ := g.StyleIndex(filepath.Join(root, "b.uss"))
	assert.Equal(t, uint64(2), all.UsedBy(bi).GetCardinality())
	ai, _ := g.StyleIndex(filepath.Join(root, "a.uss"))
	assert.Equal(t, uint64(1), all.UsedBy(ai).GetCardinality())
}

func TestReach_BrokenOrder(t *testing.T) {
	root, g, r := memGraph(t,
		map[string]*extract.MarkupFacts{"M.uxml": {StyleRefs: []string{"a.uss", "z-missing.uss"}}},
		map[string]*extract.StyleFacts{
			"a.uss": styleFacts(nil, "b-missing.uss", "c.uss"),
			"c.uss": styleFacts(nil, "c-missing.uss"),
		},
	)

	reach := NewEngine(g, r).Reach(filepath.Join(root, "M.uxml"))
	assert.Equal(t, []string{"b-missing.uss", "c-missing.uss", "z-missing.uss"}, reach.Broken)
}

func TestReach_DifferentSpellingsOneStylesheet(t *testing.T) {
	root, g, r := memGraph(t,
		map[string]*extract.MarkupFacts{"ui/M.uxml": {StyleRefs: []string{"x.uss", "./x.uss?v=1", "../ui/x.uss#frag"}}},
		map[string]*extract.StyleFacts{"ui/x.uss": styleFacts([]string{"x"})},
	)

	reach := NewEngine(g, r).Reach(filepath.Join(root, "ui", "M.uxml"))
	assert.Equal(t, uint64(1), reach.VisitedCount())
	assert.Empty(t, reach.Broken)
}

func TestReach_UnknownMarkup(t *testing.T) {
	_, g, r := memGraph(t, nil, nil)
	reach := NewEngine(g, r).Reach("/nowhere/M.uxml")
	assert.Empty(t, reach.Classes)
	assert.Zero(t, reach.VisitedCount())
}

func TestGraph_Index(t *testing.T) {
	root, g, _ := memGraph(t,
		map[string]*extract.MarkupFacts{"B.uxml": nil, "A.uxml": nil},
		map[string]*extract.StyleFacts{"b.uss": nil, "a.uss": nil},
	)

	assert.Equal(t, []string{filepath.Join(root, "A.uxml"), filepath.Join(root, "B.uxml")}, g.Markup)
	i, ok := g.StyleIndex(filepath.Join(root, "b.uss"))
	assert.True(t, ok)
	assert.Equal(t, uint32(1), i)
	assert.NotNil(t, g.StyleFacts[filepath.Join(root, "a.uss")], "nil facts are replaced")
}

func TestNewGraph_CanonicalKeys(t *testing.T) {
	root := t.TempDir()
	g := NewGraph(
		map[string]*extract.MarkupFacts{filepath.Join(root, "UI", "..", "A.uxml"): nil},
		map[string]*extract.StyleFacts{filepath.Join(root, ".", "a.uss"): nil},
	)

	assert.Equal(t, []string{filepath.Join(root, "A.uxml")}, g.Markup)
	_, ok := g.StyleIndex(filepath.Join(root, "a.uss"))
	assert.True(t, ok)
}
