package models

import (
	"path/filepath"
	"sort"
)

// IssueKind identifies which style defect an Issue describes.
type IssueKind string

const (
	// IssueMissingClass: a markup file uses classes no reachable stylesheet defines.
	IssueMissingClass IssueKind = "UXML_MISSING_CLASS"
	// IssueUnusedClass: a stylesheet defines classes no reaching markup file uses.
	IssueUnusedClass IssueKind = "USS_UNUSED_CLASS"
	// IssueBrokenStyleRef: a markup file references stylesheets that do not exist.
	IssueBrokenStyleRef IssueKind = "UXML_BROKEN_STYLE"
)

// String returns the string representation.
func (k IssueKind) String() string { return string(k) }

// Label returns the short tag used in text reports.
func (k IssueKind) Label() string {
	if k == IssueUnusedClass {
		return "USS"
	}
	return "UXML"
}

// Describe returns the human-readable description used in text reports.
func (k IssueKind) Describe() string {
	switch k {
	case IssueMissingClass:
		return "Classes not found in any USS"
	case IssueUnusedClass:
		return "Classes not used in any UXML"
	case IssueBrokenStyleRef:
		return "Broken style references"
	default:
		return string(k)
	}
}

// Cleanable reports whether the cleanup step can act on issues of this kind.
func (k IssueKind) Cleanable() bool {
	return k == IssueMissingClass || k == IssueUnusedClass
}

// Issue is a single file-scoped finding. Classes is set for missing and unused
// class issues (sorted); Styles is set for broken references (in the order they
// were encountered).
type Issue struct {
	Kind    IssueKind `json:"type" toon:"type"`
	File    string    `json:"file" toon:"file"`
	Classes []string  `json:"classes,omitempty" toon:"classes,omitempty"`
	Styles  []string  `json:"styles,omitempty" toon:"styles,omitempty"`
}

// NewMissingClass creates a missing-class issue for a markup file.
func NewMissingClass(file string, classes []string) Issue {
	return Issue{Kind: IssueMissingClass, File: file, Classes: sortedCopy(classes)}
}

// NewUnusedClass creates an unused-class issue for a stylesheet.
func NewUnusedClass(file string, classes []string) Issue {
	return Issue{Kind: IssueUnusedClass, File: file, Classes: sortedCopy(classes)}
}

// NewBrokenStyleRef creates a broken-reference issue for a markup file.
func NewBrokenStyleRef(file string, refs []string) Issue {
	return Issue{Kind: IssueBrokenStyleRef, File: file, Styles: append([]string(nil), refs...)}
}

// Items returns the class names or references carried by the issue.
func (i Issue) Items() []string {
	if i.Kind == IssueBrokenStyleRef {
		return i.Styles
	}
	return i.Classes
}

// IssueSummary counts issues by kind.
type IssueSummary struct {
	TotalIssues      int `json:"total_issues" toon:"total_issues"`
	MissingClass     int `json:"missing_class" toon:"missing_class"`
	UnusedClass      int `json:"unused_class" toon:"unused_class"`
	BrokenStyleRef   int `json:"broken_style_ref" toon:"broken_style_ref"`
	MarkupFiles      int `json:"markup_files" toon:"markup_files"`
	StyleFiles       int `json:"style_files" toon:"style_files"`
	FilesWithIssues  int `json:"files_with_issues" toon:"files_with_issues"`
	ClassesToRemove  int `json:"classes_to_remove" toon:"classes_to_remove"`
	ExtractionErrors int `json:"extraction_errors" toon:"extraction_errors"`
}

// Add updates the summary with an issue.
func (s *IssueSummary) Add(issue Issue) {
	s.TotalIssues++
	switch issue.Kind {
	case IssueMissingClass:
		s.MissingClass++
		s.ClassesToRemove += len(issue.Classes)
	case IssueUnusedClass:
		s.UnusedClass++
		s.ClassesToRemove += len(issue.Classes)
	case IssueBrokenStyleRef:
		s.BrokenStyleRef++
	}
}

// SummarizeIssues builds the per-kind counts for a list of issues.
func SummarizeIssues(issues []Issue) IssueSummary {
	var s IssueSummary
	files := make(map[string]bool)
	for _, issue := range issues {
		s.Add(issue)
		files[issue.File] = true
	}
	s.FilesWithIssues = len(files)
	return s
}

// FilterByFile keeps the issues whose file is target. Both sides are compared
// as absolute paths.
func FilterByFile(issues []Issue, target string) []Issue {
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = filepath.Clean(target)
	}
	var out []Issue
	for _, issue := range issues {
		if issue.File == abs {
			out = append(out, issue)
		}
	}
	return out
}

// GroupByKind splits issues by kind, preserving order within each kind.
func GroupByKind(issues []Issue) map[IssueKind][]Issue {
	groups := make(map[IssueKind][]Issue)
	for _, issue := range issues {
		groups[issue.Kind] = append(groups[issue.Kind], issue)
	}
	return groups
}

// IssueKinds lists kinds in report order.
var IssueKinds = []IssueKind{IssueMissingClass, IssueBrokenStyleRef, IssueUnusedClass}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
