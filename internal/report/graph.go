package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/styleaudit/internal/output"
	"github.com/panbanda/styleaudit/pkg/analyzer/styles"
	"github.com/panbanda/styleaudit/pkg/models"
)

// GraphData is the serialized form of a GraphReport. Paths are absolute.
type GraphData struct {
	Stylesheets []StyleRow          `json:"stylesheets" toon:"stylesheets"`
	Imports     []styles.Edge       `json:"imports" toon:"imports"`
	References  []styles.Edge       `json:"references" toon:"references"`
	Unresolved  []styles.Unresolved `json:"unresolved" toon:"unresolved"`
	Cycles      [][]string          `json:"cycles" toon:"cycles"`
}

// GraphReport renders the stylesheet import graph.
type GraphReport struct {
	Root string
	Data GraphData
}

// NewGraphReport builds the graph view of an analysis.
func NewGraphReport(root string, a *styles.Analysis) *GraphReport {
	ig := a.ImportGraph()

	imports := make(map[string]int)
	for _, e := range ig.Imports {
		imports[e.From]++
	}
	unused := make(map[string]int)
	for _, issue := range a.Issues {
		if issue.Kind == models.IssueUnusedClass {
			unused[issue.File] = len(issue.Classes)
		}
	}

	rows := make([]StyleRow, 0, len(ig.Styles))
	for _, path := range ig.Styles {
		rows = append(rows, StyleRow{
			Path:    path,
			Imports: imports[path],
			UsedBy:  len(a.UsedBy(path)),
			Unused:  unused[path],
		})
	}

	return &GraphReport{
		Root: root,
		Data: GraphData{
			Stylesheets: rows,
			Imports:     ig.Imports,
			References:  ig.References,
			Unresolved:  ig.Unresolved,
			Cycles:      ig.Cycles,
		},
	}
}

func (r *GraphReport) RenderData() any {
	return r.Data
}

func (r *GraphReport) RenderText(w io.Writer, colored bool) error {
	if err := r.table().RenderText(w, colored); err != nil {
		return err
	}

	if len(r.Data.Unresolved) > 0 {
		heading(w, "Unresolved References", colored)
		for _, u := range r.Data.Unresolved {
			fmt.Fprintf(w, "  %s -> %s (%s)\n", r.rel(u.From), u.Ref, unresolvedReason(u))
		}
		fmt.Fprintln(w)
	}

	heading(w, "Import Cycles", colored)
	if len(r.Data.Cycles) == 0 {
		fmt.Fprintln(w, "  none")
		return nil
	}
	for _, cycle := range r.Data.Cycles {
		fmt.Fprintf(w, "  %s\n", r.describeCycle(cycle))
	}
	return nil
}

func (r *GraphReport) RenderMarkdown(w io.Writer) error {
	if err := r.table().RenderMarkdown(w); err != nil {
		return err
	}

	if len(r.Data.Unresolved) > 0 {
		rows := make([][]string, 0, len(r.Data.Unresolved))
		for _, u := range r.Data.Unresolved {
			rows = append(rows, []string{r.rel(u.From), "`" + u.Ref + "`", unresolvedReason(u)})
		}
		if err := output.NewTable("Unresolved References", []string{"From", "Reference", "Reason"}, rows, nil, nil).RenderMarkdown(w); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "## Import Cycles\n\n")
	if len(r.Data.Cycles) == 0 {
		fmt.Fprintf(w, "None.\n\n")
		return nil
	}
	for _, cycle := range r.Data.Cycles {
		fmt.Fprintf(w, "- %s\n", r.describeCycle(cycle))
	}
	fmt.Fprintln(w)
	return nil
}

func (r *GraphReport) table() *output.Table {
	rows := make([][]string, 0, len(r.Data.Stylesheets))
	totalUnused := 0
	for _, s := range r.Data.Stylesheets {
		rows = append(rows, []string{
			r.rel(s.Path),
			strconv.Itoa(s.Imports),
			strconv.Itoa(s.UsedBy),
			strconv.Itoa(s.Unused),
		})
		totalUnused += s.Unused
	}
	footer := []string{fmt.Sprintf("%d stylesheets", len(rows)), strconv.Itoa(len(r.Data.Imports)), "", strconv.Itoa(totalUnused)}
	return output.NewTable("Stylesheets", []string{"Stylesheet", "Imports", "Used By", "Unused"}, rows, footer, nil)
}

func (r *GraphReport) rel(path string) string {
	return relPath(r.Root, path)
}

func (r *GraphReport) describeCycle(cycle []string) string {
	if len(cycle) == 1 {
		return r.rel(cycle[0]) + " imports itself"
	}
	names := make([]string, len(cycle))
	for i, p := range cycle {
		names[i] = r.rel(p)
	}
	return strings.Join(names, ", ")
}

func unresolvedReason(u styles.Unresolved) string {
	if u.Exists {
		return "outside scan"
	}
	return "missing"
}

func heading(w io.Writer, title string, colored bool) {
	if colored {
		color.New(color.Bold).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

var _ output.Renderable = (*GraphReport)(nil)
