package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeAnalyzeStyles() string {
	return `Audits UXML markup and USS stylesheets for class and stylesheet reference problems.

USE WHEN:
- A UI change added or renamed classes and you want to know what no longer matches
- Before deleting a stylesheet or class, to confirm nothing uses it
- Reviewing a UI branch for dead styles

INTERPRETING RESULTS:
- UXML_MISSING_CLASS: the markup file uses classes that no stylesheet it reaches defines.
  Either the class was renamed, the stylesheet is not included, or the class is styled
  from code. Check the includes before deleting the class from markup.
- USS_UNUSED_CLASS: the stylesheet defines classes that no markup file reaching it uses.
  Classes added from code at runtime also show up here.
- UXML_BROKEN_STYLE: a <Style src> or @import reached from the markup file points at a
  file that does not exist. References to existing files outside the scanned assets are
  not reported.
- Framework classes with a reserved prefix (default "unity-") are never reported unused.

METRICS RETURNED:
- issues: list of {type, file, classes} or {type, file, styles}
- summary: totals per type, markup and stylesheet counts, classes to remove`
}

func describeStyleGraph() string {
	return `Shows how stylesheets import each other and which markup files include them.

USE WHEN:
- Understanding why a class is or is not reachable from a markup file
- Looking for import cycles between stylesheets
- Finding references that point outside the scanned assets

INTERPRETING RESULTS:
- used_by is the number of markup files whose includes reach the stylesheet, directly
  or through imports. Zero means every class in it is unused.
- unresolved entries with exists=true point to real files outside the scan; exists=false
  are broken references.
- cycles are groups of stylesheets that import each other. They are harmless for
  analysis but usually a layering mistake.

METRICS RETURNED:
- stylesheets: path, imports, used_by, unused per stylesheet
- imports, references: resolved edges
- unresolved: references that left the scanned set
- cycles: strongly connected stylesheet groups and self-imports`
}

func describeStyleUsage() string {
	return `Reports everything known about one stylesheet: who reaches it, what it defines, and what is unused.

USE WHEN:
- Deciding whether a stylesheet can be deleted or split
- Checking which screens a style change will affect

INTERPRETING RESULTS:
- used_by lists markup files whose includes reach the stylesheet through any import chain.
- unused is the subset of classes no reaching markup file uses.
- An empty used_by with a non-empty classes list means the whole stylesheet is dead.

METRICS RETURNED:
- stylesheet, classes, imports, used_by, unused`
}
