// Package analyzer defines the contract project analyzers share.
package analyzer

import "context"

// FileAnalyzer analyzes a set of files as one consistent snapshot. Results
// must not depend on the order of files.
type FileAnalyzer[T any] interface {
	Analyze(ctx context.Context, files []string) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}

// PartitionedAnalyzer also accepts files that the caller has already split
// into markup and stylesheets, so classification is not repeated.
type PartitionedAnalyzer[T any] interface {
	FileAnalyzer[T]
	AnalyzeFiles(ctx context.Context, markup, styles []string) (T, error)
}
