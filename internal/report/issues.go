package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/panbanda/styleaudit/internal/output"
	"github.com/panbanda/styleaudit/pkg/models"
)

// IssueReport renders the issue list of an analysis.
type IssueReport struct {
	Root    string
	Issues  []models.Issue
	Summary models.IssueSummary
}

// NewIssueReport creates a report. Paths are shown relative to root.
func NewIssueReport(root string, issues []models.Issue, summary models.IssueSummary) *IssueReport {
	return &IssueReport{Root: root, Issues: issues, Summary: summary}
}

// RenderData returns the issue records. Machine consumers get the list on
// its own, with absolute paths.
func (r *IssueReport) RenderData() any {
	if r.Issues == nil {
		return []models.Issue{}
	}
	return r.Issues
}

// RenderText writes one line per issue, grouped by kind.
func (r *IssueReport) RenderText(w io.Writer, colored bool) error {
	if len(r.Issues) == 0 {
		if colored {
			color.New(color.FgGreen).Fprintln(w, "No issues found!")
		} else {
			fmt.Fprintln(w, "No issues found!")
		}
		return nil
	}

	groups := models.GroupByKind(r.Issues)
	for _, kind := range models.IssueKinds {
		for _, issue := range groups[kind] {
			label := "[" + kind.Label() + "]"
			if colored {
				label = kindColor(kind).Sprint(label)
			}
			fmt.Fprintf(w, "%s %s: %s: %s\n", label, relPath(r.Root, issue.File), kind.Describe(), strings.Join(issue.Items(), ", "))
		}
	}
	return nil
}

// RenderMarkdown writes a summary line and an issue table.
func (r *IssueReport) RenderMarkdown(w io.Writer) error {
	if len(r.Issues) == 0 {
		fmt.Fprintln(w, "No issues found!")
		return nil
	}

	fmt.Fprintf(w, "**%d issues** (%d missing, %d unused, %d broken) across %d files\n\n",
		r.Summary.TotalIssues, r.Summary.MissingClass, r.Summary.UnusedClass, r.Summary.BrokenStyleRef, r.Summary.FilesWithIssues)

	rows := make([][]string, 0, len(r.Issues))
	groups := models.GroupByKind(r.Issues)
	for _, kind := range models.IssueKinds {
		for _, issue := range groups[kind] {
			rows = append(rows, []string{
				"`" + kind.String() + "`",
				relPath(r.Root, issue.File),
				strings.Join(issue.Items(), ", "),
			})
		}
	}
	return output.NewTable("Style Issues", []string{"Type", "File", "Items"}, rows, nil, nil).RenderMarkdown(w)
}

func kindColor(kind models.IssueKind) *color.Color {
	switch kind {
	case models.IssueUnusedClass:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

var _ output.Renderable = (*IssueReport)(nil)
