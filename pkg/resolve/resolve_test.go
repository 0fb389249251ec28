package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripDecorations(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a.uss", "a.uss"},
		{"a.uss?fileID=7433441132597879392&guid=abc&type=3", "a.uss"},
		{"a.uss#Main", "a.uss"},
		{"a.uss#frag?x=1", "a.uss"},
		{"?only", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripDecorations(tt.in))
		})
	}
}

func TestResolve(t *testing.T) {
	root := t.TempDir()
	r := New(root)
	source := filepath.Join(root, "Assets", "UI", "Main.uxml")

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{
			name: "sibling",
			ref:  "main.uss",
			want: filepath.Join(root, "Assets", "UI", "main.uss"),
		},
		{
			name: "parent traversal is collapsed",
			ref:  "../Styles/./common.uss",
			want: filepath.Join(root, "Assets", "Styles", "common.uss"),
		},
		{
			name: "project root marker",
			ref:  "project://database/Assets/Styles/theme.uss?fileID=1&guid=2&type=3#theme",
			want: filepath.Join(root, "Assets", "Styles", "theme.uss"),
		},
		{
			name: "absolute",
			ref:  "/opt/styles/../shared.uss",
			want: filepath.FromSlash("/opt/shared.uss"),
		},
		{
			name: "fragment on relative",
			ref:  "main.uss#Header",
			want: filepath.Join(root, "Assets", "UI", "main.uss"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(source, tt.ref))
		})
	}
}

func TestResolve_DifferentSpellingsShareKey(t *testing.T) {
	root := t.TempDir()
	r := New(root)

	a := r.Resolve(filepath.Join(root, "Assets", "UI", "A.uxml"), "../Styles/x.uss")
	b := r.Resolve(filepath.Join(root, "Assets", "Styles", "y.uss"), "x.uss")
	c := r.Resolve(filepath.Join(root, "Other", "z.uss"), "project://database/Assets/Styles/x.uss")

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func TestResolve_WithoutMarker(t *testing.T) {
	root := t.TempDir()
	r := New(root, WithRootMarker(""))
	source := filepath.Join(root, "A.uxml")

	got := r.Resolve(source, "project://database/x.uss")
	assert.Equal(t, filepath.Join(root, "project:", "database", "x.uss"), got)
}

func TestExists(t *testing.T) {
	root := t.TempDir()
	present := filepath.Join(root, "present.uss")
	require.NoError(t, os.WriteFile(present, []byte(".a {}"), 0o644))

	r := New(root)
	assert.True(t, r.Exists(present))
	assert.False(t, r.Exists(filepath.Join(root, "missing.uss")))

	// Memoized: removing the file does not change the answer within a run.
	require.NoError(t, os.Remove(present))
	assert.True(t, r.Exists(present))
}

func TestNew_DefaultsRoot(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	r := New("")
	assert.Equal(t, wd, r.Root())
}

func TestCanonical(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(wd, "a", "b.uss"), Canonical("a/./x/../b.uss"))
}
