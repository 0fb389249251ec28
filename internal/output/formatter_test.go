package output

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"TEXT", FormatText},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"toon", FormatTOON},
		{"TOON", FormatTOON},
		{"", FormatText},
		{"xml", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFormatter_Defaults(t *testing.T) {
	f, err := NewFormatter()
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}
	defer f.Close()

	if f.Format() != FormatText {
		t.Errorf("Format() = %q, want %q", f.Format(), FormatText)
	}
	if f.Colored() {
		t.Error("Colored() = true, want false")
	}
	if f.Writer() != os.Stdout {
		t.Error("Writer() should default to stdout")
	}
}

func TestNewFormatter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	f, err := NewFormatter(WithFormat(FormatJSON), WithColor(true), WithFile(path))
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}
	if f.Colored() {
		t.Error("colored should be false when writing to file")
	}
	if err := f.Output(map[string]int{"a": 1}); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"a": 1`) {
		t.Errorf("file content = %q", data)
	}
}

func TestNewFormatter_InvalidPath(t *testing.T) {
	if _, err := NewFormatter(WithFile("/nonexistent/directory/file.txt")); err == nil {
		t.Error("NewFormatter() should error for invalid path")
	}
}

type fakeRenderable struct {
	data any
}

func (r fakeRenderable) RenderText(w io.Writer, colored bool) error {
	_, err := io.WriteString(w, "text view\n")
	return err
}

func (r fakeRenderable) RenderMarkdown(w io.Writer) error {
	_, err := io.WriteString(w, "# markdown view\n")
	return err
}

func (r fakeRenderable) RenderData() any { return r.data }

func TestFormatter_OutputRenderable(t *testing.T) {
	data := map[string]any{"issues": []string{"x"}}

	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "text view"},
		{FormatMarkdown, "# markdown view"},
		{FormatJSON, `"issues": [`},
		{FormatTOON, "issues"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			f, err := NewFormatter(WithFormat(tt.format), WithWriter(&buf))
			if err != nil {
				t.Fatal(err)
			}
			if err := f.Output(fakeRenderable{data: data}); err != nil {
				t.Fatalf("Output() error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestFormatter_OutputRaw(t *testing.T) {
	var buf bytes.Buffer
	f, _ := NewFormatter(WithFormat(FormatMarkdown), WithWriter(&buf))
	if err := f.Output([]int{1, 2}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "```json\n") || !strings.HasSuffix(out, "```\n") {
		t.Errorf("markdown raw output not fenced: %q", out)
	}

	buf.Reset()
	f, _ = NewFormatter(WithWriter(&buf))
	if err := f.Output([]int{1, 2}); err != nil {
		t.Fatal(err)
	}
	var got []int
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("text raw output should be JSON: %v", err)
	}
}

func TestMarshal(t *testing.T) {
	data := struct {
		Name string `json:"name" toon:"name"`
	}{Name: "panel"}

	js, err := Marshal(data, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(js, `"name": "panel"`) {
		t.Errorf("json = %q", js)
	}

	md, err := Marshal(data, FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(md, "```\n") || !strings.Contains(md, "panel") {
		t.Errorf("markdown = %q", md)
	}

	tn, err := Marshal(data, FormatTOON)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tn, "name") || !strings.Contains(tn, "panel") {
		t.Errorf("toon = %q", tn)
	}
}

func TestTableRenderText(t *testing.T) {
	table := NewTable(
		"Stylesheets",
		[]string{"Stylesheet", "Used By"},
		[][]string{
			{"a.uss", "2"},
			{"b.uss", "0"},
		},
		[]string{"Total", "2"},
		nil,
	)

	var buf bytes.Buffer
	if err := table.RenderText(&buf, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Stylesheets", "STYLESHEET", "USED BY", "a.uss", "b.uss", "Total"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	table := NewTable("Refs", []string{"File", "Ref"}, [][]string{{"A.uxml", "a|b.uss"}}, nil, nil)

	var buf bytes.Buffer
	if err := table.RenderMarkdown(&buf); err != nil {
		t.Fatal(err)
	}
	want := "## Refs\n\n| File | Ref |\n| --- | --- |\n| A.uxml | a\\|b.uss |\n\n"
	if buf.String() != want {
		t.Errorf("markdown =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestTableRenderData(t *testing.T) {
	table := NewTable("", []string{"File", "Count"}, [][]string{{"a.uss", "1"}}, nil, nil)
	rows, ok := table.RenderData().([]map[string]string)
	if !ok || len(rows) != 1 || rows[0]["File"] != "a.uss" || rows[0]["Count"] != "1" {
		t.Errorf("RenderData() = %#v", table.RenderData())
	}

	wrapped := NewTable("", nil, nil, nil, "raw")
	if wrapped.RenderData() != "raw" {
		t.Errorf("RenderData() should return wrapped data")
	}
}

func TestFormatterMessages(t *testing.T) {
	var buf bytes.Buffer
	f, _ := NewFormatter(WithWriter(&buf))

	f.Success("done %d", 1)
	f.Warning("careful")
	f.Error("failed")
	f.Info("note")

	want := "done 1\nWARNING: careful\nERROR: failed\nnote\n"
	if buf.String() != want {
		t.Errorf("messages = %q, want %q", buf.String(), want)
	}
}
