// Package report renders analysis results for people: grouped text lines,
// markdown tables and a standalone HTML page.
package report

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/panbanda/styleaudit/pkg/models"
)

// Metadata describes the run a report was produced from.
type Metadata struct {
	Project     string    `json:"project"`
	Assets      string    `json:"assets"`
	Ref         string    `json:"ref,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Version     string    `json:"version"`
}

// IssueRow is one issue with its path made relative for display.
type IssueRow struct {
	Kind  models.IssueKind `json:"type"`
	Label string           `json:"label"`
	File  string           `json:"file"`
	Items []string         `json:"items"`
}

// StyleRow summarizes one stylesheet of the import graph.
type StyleRow struct {
	Path    string `json:"path"`
	Imports int    `json:"imports"`
	UsedBy  int    `json:"used_by"`
	Unused  int    `json:"unused"`
}

// relPath shortens path for display. Paths outside root are returned as is.
func relPath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

func issueRows(root string, issues []models.Issue) []IssueRow {
	rows := make([]IssueRow, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, IssueRow{
			Kind:  issue.Kind,
			Label: issue.Kind.Label(),
			File:  relPath(root, issue.File),
			Items: issue.Items(),
		})
	}
	return rows
}
