package cleanup

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RemoveMarkupClasses removes the given class tokens from every class
// attribute in a markup document. An attribute left with no tokens is removed
// along with the whitespace before it. Only the edited attributes change; the
// rest of the document is returned byte for byte.
//
// The document must parse as XML; a syntax error is returned unchanged so the
// caller can leave the file alone.
func RemoveMarkupClasses(data []byte, remove map[string]bool) ([]byte, bool, error) {
	if len(remove) == 0 {
		return data, false, nil
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		if strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "us-ascii") {
			return input, nil
		}
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}

	type edit struct {
		start, end int
		repl       []byte
	}
	var edits []edit

	for {
		start := dec.InputOffset()
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, false, err
		}

		se, ok := tok.(xml.StartElement)
		if !ok || !hasRemovable(se, remove) {
			continue
		}
		end := dec.InputOffset()

		tag := data[start:end]
		if repl, changed := rewriteClassAttr(tag, remove); changed {
			edits = append(edits, edit{start: int(start), end: int(end), repl: repl})
		}
	}

	if len(edits) == 0 {
		return data, false, nil
	}

	var out bytes.Buffer
	out.Grow(len(data))
	last := 0
	for _, e := range edits {
		out.Write(data[last:e.start])
		out.Write(e.repl)
		last = e.end
	}
	out.Write(data[last:])
	return out.Bytes(), true, nil
}

func hasRemovable(se xml.StartElement, remove map[string]bool) bool {
	for _, attr := range se.Attr {
		if attr.Name.Space != "" || attr.Name.Local != "class" {
			continue
		}
		for _, cls := range strings.Fields(attr.Value) {
			if remove[cls] {
				return true
			}
		}
	}
	return false
}

// attrSpan locates one attribute inside a raw start tag.
type attrSpan struct {
	lead       int // first whitespace byte before the name
	name       string
	valueStart int // after the opening quote
	valueEnd   int // at the closing quote
}

// scanAttrs lists the attributes of a start tag the decoder has accepted.
func scanAttrs(tag []byte) []attrSpan {
	var spans []attrSpan
	i := 1
	for i < len(tag) && !isSpace(tag[i]) && tag[i] != '>' && tag[i] != '/' {
		i++
	}
	for i < len(tag) {
		lead := i
		for i < len(tag) && isSpace(tag[i]) {
			i++
		}
		if i >= len(tag) || tag[i] == '>' || tag[i] == '/' {
			break
		}
		nameStart := i
		for i < len(tag) && tag[i] != '=' && !isSpace(tag[i]) {
			i++
		}
		name := string(tag[nameStart:i])
		for i < len(tag) && (isSpace(tag[i]) || tag[i] == '=') {
			i++
		}
		if i >= len(tag) {
			break
		}
		quote := tag[i]
		i++
		valueStart := i
		for i < len(tag) && tag[i] != quote {
			i++
		}
		spans = append(spans, attrSpan{lead: lead, name: name, valueStart: valueStart, valueEnd: i})
		i++
	}
	return spans
}

func rewriteClassAttr(tag []byte, remove map[string]bool) ([]byte, bool) {
	for _, a := range scanAttrs(tag) {
		if a.name != "class" {
			continue
		}
		tokens := strings.Fields(string(tag[a.valueStart:a.valueEnd]))
		var kept []string
		for _, t := range tokens {
			if !remove[t] {
				kept = append(kept, t)
			}
		}
		if len(kept) == len(tokens) {
			return tag, false
		}

		var out []byte
		if len(kept) == 0 {
			out = append(out, tag[:a.lead]...)
			out = append(out, tag[a.valueEnd+1:]...)
		} else {
			out = append(out, tag[:a.valueStart]...)
			out = append(out, strings.Join(kept, " ")...)
			out = append(out, tag[a.valueEnd:]...)
		}
		return out, true
	}
	return tag, false
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
