package styles

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/panbanda/styleaudit/internal/cache"
	"github.com/panbanda/styleaudit/internal/fileproc"
	"github.com/panbanda/styleaudit/internal/testutil"
	"github.com/panbanda/styleaudit/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// analyzeTree writes files under a temp root and analyzes every markup and
// stylesheet in it, with the root doubling as the project root.
func analyzeTree(t *testing.T, files map[string]string, opts ...Option) (string, *Analysis) {
	t.Helper()
	root := testutil.WriteTree(t, files)

	var paths []string
	for name := range files {
		paths = append(paths, testutil.Path(root, name))
	}

	a := New(append([]Option{WithProjectRoot(root)}, opts...)...)
	result, err := a.Analyze(context.Background(), paths)
	require.NoError(t, err)
	return root, result
}

func TestAnalyze_Scenarios(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  func(root string) []models.Issue
	}{
		{
			name: "missing class",
			files: map[string]string{
				"A.uxml": `<UXML><Style src="a.uss"/><E class="foo bar"/></UXML>`,
				"a.uss":  `.foo {}`,
			},
			want: func(root string) []models.Issue {
				return []models.Issue{models.NewMissingClass(filepath.Join(root, "A.uxml"), []string{"bar"})}
			},
		},
		{
			name: "unused class",
			files: map[string]string{
				"B.uxml": `<UXML><Style src="b.uss"/><E class="used"/></UXML>`,
				"b.uss":  ".unused {}\n.used {}\n",
			},
			want: func(root string) []models.Issue {
				return []models.Issue{models.NewUnusedClass(filepath.Join(root, "b.uss"), []string{"unused"})}
			},
		},
		{
			name: "broken reference",
			files: map[string]string{
				"C.uxml": `<UXML><Style src="missing.uss"/></UXML>`,
			},
			want: func(root string) []models.Issue {
				return []models.Issue{models.NewBrokenStyleRef(filepath.Join(root, "C.uxml"), []string{"missing.uss"})}
			},
		},
		{
			name: "import cycle",
			files: map[string]string{
				"D.uxml": `<UXML><Style src="d.uss"/><E class="from-e from-d"/></UXML>`,
				"d.uss":  "@import url(\"e.uss\");\n.from-d {}",
				"e.uss":  "@import \"d.uss\";\n.from-e {}",
			},
			want: func(root string) []models.Issue { return nil },
		},
		{
			name: "broken and missing on the same file",
			files: map[string]string{
				"F.uxml": `<UXML><Style src="gone.uss"/><Style src="f.uss"/><E class="x y"/></UXML>`,
				"f.uss":  `.x {}`,
			},
			want: func(root string) []models.Issue {
				f := filepath.Join(root, "F.uxml")
				return []models.Issue{
					models.NewBrokenStyleRef(f, []string{"gone.uss"}),
					models.NewMissingClass(f, []string{"y"}),
				}
			},
		},
		{
			name: "stylesheet nobody includes",
			files: map[string]string{
				"orphan.uss": ".a, .b:hover {}\n.unity-label {}",
			},
			want: func(root string) []models.Issue {
				return []models.Issue{models.NewUnusedClass(filepath.Join(root, "orphan.uss"), []string{"a", "b"})}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, result := analyzeTree(t, tt.files)
			assert.Equal(t, tt.want(root), result.Issues)
			assert.Equal(t, len(tt.want(root)), result.Summary.TotalIssues)
		})
	}
}

func TestAnalyze_ProjectRootMarker(t *testing.T) {
	root, result := analyzeTree(t, map[string]string{
		"Assets/UI/Screens/Main.uxml": `<ui:UXML xmlns:ui="UnityEngine.UIElements">
  <Style src="project://database/Assets/UI/Styles/main.uss?fileID=7433441132597879392&amp;guid=9f&amp;type=3#main" />
  <Style src="../Styles/local.uss" />
  <ui:Label class="title body" />
</ui:UXML>`,
		"Assets/UI/Styles/main.uss":  ".title {}",
		"Assets/UI/Styles/local.uss": ".body {}",
	})

	assert.Empty(t, result.Issues)
	main := testutil.Path(root, "Assets/UI/Styles/main.uss")
	assert.Equal(t, []string{testutil.Path(root, "Assets/UI/Screens/Main.uxml")}, result.UsedBy(main))
}

func TestAnalyze_ImportsResolveAgainstStylesheet(t *testing.T) {
	root, result := analyzeTree(t, map[string]string{
		"screens/S.uxml":           `<Style src="../styles/base.uss"/><E class="shared"/>`,
		"styles/base.uss":          `@import "common/shared.uss";`,
		"styles/common/shared.uss": `.shared {}`,
	})

	assert.Empty(t, result.Issues)
	shared := testutil.Path(root, "styles/common/shared.uss")
	assert.Len(t, result.UsedBy(shared), 1)
}

func TestAnalyze_BrokenImportAttributedToMarkup(t *testing.T) {
	root, result := analyzeTree(t, map[string]string{
		"M.uxml": `<Style src="m.uss"/>`,
		"m.uss":  "@import \"nope.uss\";\n@import \"nope.uss\";",
	})

	require.Len(t, result.Issues, 1)
	assert.Equal(t, models.IssueBrokenStyleRef, result.Issues[0].Kind)
	assert.Equal(t, filepath.Join(root, "M.uxml"), result.Issues[0].File)
	assert.Equal(t, []string{"nope.uss"}, result.Issues[0].Styles)
}

func TestAnalyze_ExistsButOutsideScan(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"G.uxml":        `<Style src="theme.tss"/><Style src="outside/x.uss"/><E class="k"/>`,
		"theme.tss":     `.k {}`,
		"outside/x.uss": `.k {}`,
	})

	a := New(WithProjectRoot(root))
	// outside/x.uss exists on disk but is not part of the analyzed set
	result, err := a.AnalyzeFiles(context.Background(), []string{filepath.Join(root, "G.uxml")}, nil)
	require.NoError(t, err)

	require.Len(t, result.Issues, 1)
	assert.Equal(t, models.IssueMissingClass, result.Issues[0].Kind, "no broken reference for files that exist")
	assert.Equal(t, []string{"k"}, result.Issues[0].Classes)
}

func TestAnalyze_ReservedPrefixes(t *testing.T) {
	files := map[string]string{
		"H.uxml": `<Style src="h.uss"/><E class="mine"/>`,
		"h.uss":  ".mine {}\n.unity-button {}\n.vendor-x {}",
	}

	_, result := analyzeTree(t, files)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, []string{"vendor-x"}, result.Issues[0].Classes)

	_, result = analyzeTree(t, files, WithReservedPrefixes([]string{"unity-", "vendor-"}))
	assert.Empty(t, result.Issues)

	_, result = analyzeTree(t, files, WithReservedPrefixes(nil))
	require.Len(t, result.Issues, 1)
	assert.Equal(t, []string{"unity-button", "vendor-x"}, result.Issues[0].Classes)
}

func TestAnalyze_OnlyFrameworkClassesSkipped(t *testing.T) {
	_, result := analyzeTree(t, map[string]string{
		"only.uss": ".unity-a {}\n.unity-b:hover {}",
		"none.uss": "Label { color: red; }",
	})
	assert.Empty(t, result.Issues)
}

func TestAnalyze_UnusedUsesUnionOfReachingMarkup(t *testing.T) {
	root, result := analyzeTree(t, map[string]string{
		"P.uxml":     `<Style src="page.uss"/><E class="a"/>`,
		"Q.uxml":     `<Style src="other.uss"/><E class="b"/>`,
		"page.uss":   `@import "shared.uss";`,
		"other.uss":  `@import "shared.uss";`,
		"shared.uss": ".a {}\n.b {}\n.c {}",
	})

	require.Len(t, result.Issues, 1)
	assert.Equal(t, models.NewUnusedClass(filepath.Join(root, "shared.uss"), []string{"c"}), result.Issues[0])
	assert.Len(t, result.UsedBy(filepath.Join(root, "shared.uss")), 2)
}

func TestAnalyze_IssueOrder(t *testing.T) {
	root, result := analyzeTree(t, map[string]string{
		"b/Z.uxml": `<Style src="gone.uss"/><E class="q"/>`,
		"a/Y.uxml": `<E class="p"/>`,
		"a/u.uss":  `.u {}`,
		"b/t.uss":  `.t {}`,
	})

	var got []string
	for _, issue := range result.Issues {
		rel, _ := filepath.Rel(root, issue.File)
		got = append(got, string(issue.Kind)+" "+filepath.ToSlash(rel))
	}
	assert.Equal(t, []string{
		"UXML_MISSING_CLASS a/Y.uxml",
		"UXML_BROKEN_STYLE b/Z.uxml",
		"UXML_MISSING_CLASS b/Z.uxml",
		"USS_UNUSED_CLASS a/u.uss",
		"USS_UNUSED_CLASS b/t.uss",
	}, got)
}

func TestAnalyze_Summary(t *testing.T) {
	_, result := analyzeTree(t, map[string]string{
		"A.uxml": `<Style src="a.uss"/><Style src="x.uss"/><E class="foo bar"/>`,
		"a.uss":  ".foo {}\n.baz {}",
	})

	s := result.Summary
	assert.Equal(t, 3, s.TotalIssues)
	assert.Equal(t, 1, s.MarkupFiles)
	assert.Equal(t, 1, s.StyleFiles)
	assert.Equal(t, 2, s.ClassesToRemove)
	assert.Equal(t, 0, s.ExtractionErrors)
}

func TestAnalyze_ReadFailureContributesEmptyFacts(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"A.uxml":  `<Style src="big.uss"/><E class="x"/>`,
		"big.uss": ".x {}\n/* padding padding padding padding padding */",
	})
	a := New(WithProjectRoot(root), WithMaxFileSize(10))

	result, err := a.AnalyzeFiles(context.Background(), nil, []string{filepath.Join(root, "big.uss")})
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.True(t, errors.Is(result.Errors[0].Err, fileproc.ErrFileTooLarge))
	assert.Equal(t, 1, result.Summary.ExtractionErrors)
	// the stylesheet stays in the graph with no classes
	assert.Equal(t, []string{filepath.Join(root, "big.uss")}, result.Graph.Styles)
	assert.Empty(t, result.Issues)
}

func TestAnalyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Analyze(ctx, []string{"/x/a.uss"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_UsesCache(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"A.uxml": `<Style src="a.uss"/><E class="foo"/>`,
		"a.uss":  `.foo {}`,
	})
	c, err := cache.New(filepath.Join(t.TempDir(), "cache"), 24, true)
	require.NoError(t, err)

	files := []string{filepath.Join(root, "A.uxml"), filepath.Join(root, "a.uss")}
	a := New(WithProjectRoot(root), WithCache(c))

	first, err := a.Analyze(context.Background(), files)
	require.NoError(t, err)
	assert.Empty(t, first.Issues)

	// a content change invalidates the cached facts
	require.NoError(t, os.WriteFile(files[1], []byte(`.bar {}`), 0o644))
	second, err := a.Analyze(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, second.Issues, 2)
	assert.Equal(t, models.IssueMissingClass, second.Issues[0].Kind)
	assert.Equal(t, models.IssueUnusedClass, second.Issues[1].Kind)
}

func TestAnalyze_Extensions(t *testing.T) {
	_, result := analyzeTree(t, map[string]string{
		"A.xml": `<Style src="a.css"/><E class="foo"/>`,
		"a.css": `.foo {} .bar {}`,
	}, WithExtensions(".xml", ".css"))

	require.Len(t, result.Issues, 1)
	assert.Equal(t, []string{"bar"}, result.Issues[0].Classes)
}

func TestAnalysis_Filter(t *testing.T) {
	root, result := analyzeTree(t, map[string]string{
		"A.uxml": `<Style src="a.uss"/><E class="foo bar"/>`,
		"a.uss":  ".foo {}\n.baz {}",
	})

	filtered := result.Filter(filepath.Join(root, "a.uss"))
	require.Len(t, filtered.Issues, 1)
	assert.Equal(t, models.IssueUnusedClass, filtered.Issues[0].Kind)
	assert.Equal(t, 1, filtered.Summary.TotalIssues)
	assert.Equal(t, 1, filtered.Summary.MarkupFiles)
	assert.Len(t, result.Issues, 2, "original is untouched")
}
