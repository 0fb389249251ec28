package audit

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/panbanda/styleaudit/pkg/models"
)

// IsGlob reports whether pattern uses glob syntax rather than naming a file.
func IsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// FilterIssues keeps the issues whose file matches target. A plain path is
// compared as an absolute path; a glob such as "Assets/UI/**/*.uss" is
// anchored at the working directory unless it is absolute.
func FilterIssues(issues []models.Issue, target string) ([]models.Issue, error) {
	if !IsGlob(target) {
		return models.FilterByFile(issues, target), nil
	}

	pattern := target
	if !filepath.IsAbs(pattern) {
		abs, err := filepath.Abs(".")
		if err != nil {
			return nil, err
		}
		pattern = filepath.Join(abs, pattern)
	}
	pattern = filepath.ToSlash(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	var out []models.Issue
	for _, issue := range issues {
		if ok, _ := doublestar.Match(pattern, filepath.ToSlash(issue.File)); ok {
			out = append(out, issue)
		}
	}
	return out, nil
}

// Filter narrows the result's issues to target, recomputing the summary.
func (r *Result) Filter(target string) (*Result, error) {
	if target == "" {
		return r, nil
	}
	issues, err := FilterIssues(r.Analysis.Issues, target)
	if err != nil {
		return nil, err
	}

	analysis := *r.Analysis
	analysis.Issues = issues
	summary := models.SummarizeIssues(issues)
	summary.MarkupFiles = r.Analysis.Summary.MarkupFiles
	summary.StyleFiles = r.Analysis.Summary.StyleFiles
	summary.ExtractionErrors = r.Analysis.Summary.ExtractionErrors
	analysis.Summary = summary

	out := *r
	out.Analysis = &analysis
	return &out, nil
}
