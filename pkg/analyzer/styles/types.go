package styles

import (
	"github.com/panbanda/styleaudit/internal/fileproc"
	"github.com/panbanda/styleaudit/pkg/models"
	"github.com/panbanda/styleaudit/pkg/resolve"
)

// Analysis is the result of one style analysis run.
type Analysis struct {
	Graph   *Graph                     `json:"-"`
	Reach   *Reachability              `json:"-"`
	Issues  []models.Issue             `json:"issues"`
	Summary models.IssueSummary        `json:"summary"`
	Errors  []fileproc.ProcessingError `json:"-"`

	resolver *resolve.Resolver
}

// ImportGraph builds the static import view of the analyzed tree.
func (a *Analysis) ImportGraph() *ImportGraph {
	return BuildImportGraph(a.Graph, a.resolver)
}

// UsedBy returns the markup paths whose traversal reaches the stylesheet.
func (a *Analysis) UsedBy(stylePath string) []string {
	idx, ok := a.Graph.StyleIndex(stylePath)
	if !ok {
		return nil
	}
	var out []string
	it := a.Reach.UsedBy(idx).Iterator()
	for it.HasNext() {
		out = append(out, a.Graph.Markup[it.Next()])
	}
	return out
}

// Filter returns a copy keeping only the issues for one file.
func (a *Analysis) Filter(file string) *Analysis {
	out := *a
	out.Issues = models.FilterByFile(a.Issues, file)
	summary := models.SummarizeIssues(out.Issues)
	summary.MarkupFiles = a.Summary.MarkupFiles
	summary.StyleFiles = a.Summary.StyleFiles
	summary.ExtractionErrors = a.Summary.ExtractionErrors
	out.Summary = summary
	return &out
}
