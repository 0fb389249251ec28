package report

import (
	"embed"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/panbanda/styleaudit/pkg/analyzer/styles"
	"github.com/panbanda/styleaudit/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed template.html
var templateFS embed.FS

// IssueGroup is the issues of one kind.
type IssueGroup struct {
	Kind  models.IssueKind
	Title string
	Rows  []IssueRow
}

// HTMLData contains everything the HTML template shows.
type HTMLData struct {
	Metadata    Metadata
	Summary     models.IssueSummary
	Groups      []IssueGroup
	Stylesheets []StyleRow
	Cycles      [][]string
	Unresolved  []IssueRow
}

// NewHTMLData prepares an analysis for the HTML template, with paths relative
// to root.
func NewHTMLData(meta Metadata, root string, a *styles.Analysis) *HTMLData {
	data := &HTMLData{Metadata: meta, Summary: a.Summary}

	groups := models.GroupByKind(a.Issues)
	for _, kind := range models.IssueKinds {
		if len(groups[kind]) == 0 {
			continue
		}
		data.Groups = append(data.Groups, IssueGroup{
			Kind:  kind,
			Title: kind.Describe(),
			Rows:  issueRows(root, groups[kind]),
		})
	}

	graph := NewGraphReport(root, a)
	for _, s := range graph.Data.Stylesheets {
		s.Path = relPath(root, s.Path)
		data.Stylesheets = append(data.Stylesheets, s)
	}
	for _, cycle := range graph.Data.Cycles {
		names := make([]string, len(cycle))
		for i, p := range cycle {
			names[i] = relPath(root, p)
		}
		data.Cycles = append(data.Cycles, names)
	}
	for _, u := range graph.Data.Unresolved {
		data.Unresolved = append(data.Unresolved, IssueRow{
			Label: unresolvedReason(u),
			File:  relPath(root, u.From),
			Items: []string{u.Ref},
		})
	}
	return data
}

// Renderer handles HTML report generation.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer creates a new renderer with the embedded template.
func NewRenderer() (*Renderer, error) {
	printer := message.NewPrinter(language.English)
	funcMap := template.FuncMap{
		"title": cases.Title(language.English).String,
		"lower": strings.ToLower,
		"join":  strings.Join,
		"num": func(n int) string {
			return printer.Sprintf("%d", n)
		},
		"kindClass": func(kind models.IssueKind) string {
			switch kind {
			case models.IssueUnusedClass:
				return "warning"
			default:
				return "danger"
			}
		},
		"plural": func(n int, word string) string {
			if n == 1 {
				return word
			}
			return word + "s"
		},
	}

	content, err := templateFS.ReadFile("template.html")
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("report").Funcs(funcMap).Parse(string(content))
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the HTML page.
func (r *Renderer) Render(w io.Writer, data *HTMLData) error {
	return r.tmpl.Execute(w, data)
}

// RenderToFile writes the HTML page to outputPath.
func (r *Renderer) RenderToFile(outputPath string, data *HTMLData) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	if err := r.Render(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
