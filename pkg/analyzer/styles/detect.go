package styles

import (
	"strings"

	"github.com/panbanda/styleaudit/pkg/models"
)

// DefaultReservedPrefixes marks classes that belong to the UI framework
// itself. They are never reported as unused.
var DefaultReservedPrefixes = []string{"unity-"}

// Detect diffs the graph against its reachability and returns the issues in
// report order: markup files by path (broken references before missing
// classes), then stylesheets by path.
func Detect(g *Graph, reach *Reachability, reserved []string) []models.Issue {
	var issues []models.Issue

	for _, path := range g.Markup {
		r := reach.PerMarkup[path]
		if len(r.Broken) > 0 {
			issues = append(issues, models.NewBrokenStyleRef(path, r.Broken))
		}

		var missing []string
		for _, cls := range g.MarkupFacts[path].Classes {
			if !r.HasClass(cls) {
				missing = append(missing, cls)
			}
		}
		if len(missing) > 0 {
			issues = append(issues, models.NewMissingClass(path, missing))
		}
	}

	for si, path := range g.Styles {
		own := ownClasses(g.StyleFacts[path].Classes, reserved)
		if len(own) == 0 {
			continue
		}

		used := make(map[string]bool)
		it := reach.UsedBy(uint32(si)).Iterator()
		for it.HasNext() {
			for _, cls := range g.MarkupFacts[g.Markup[it.Next()]].Classes {
				used[cls] = true
			}
		}

		var unused []string
		for _, cls := range own {
			if !used[cls] {
				unused = append(unused, cls)
			}
		}
		if len(unused) > 0 {
			issues = append(issues, models.NewUnusedClass(path, unused))
		}
	}

	return issues
}

// ownClasses drops framework classes.
func ownClasses(classes, reserved []string) []string {
	var out []string
	for _, cls := range classes {
		if !hasReservedPrefix(cls, reserved) {
			out = append(out, cls)
		}
	}
	return out
}

func hasReservedPrefix(cls string, reserved []string) bool {
	for _, p := range reserved {
		if p != "" && strings.HasPrefix(cls, p) {
			return true
		}
	}
	return false
}
