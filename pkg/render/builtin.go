package render

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// BuiltinName selects the in-process renderer.
const BuiltinName = "builtin"

// BuiltinRenderer renders patches without external tooling. It rebuilds the
// old and new text from the patch hunks and colors their differences.
type BuiltinRenderer struct{}

// NewBuiltinRenderer creates the in-process renderer.
func NewBuiltinRenderer() *BuiltinRenderer {
	return &BuiltinRenderer{}
}

// Name returns the reserved builtin renderer name.
func (r *BuiltinRenderer) Name() string {
	return BuiltinName
}

// Render produces a standalone HTML page highlighting the patch's changes.
func (r *BuiltinRenderer) Render(patch string) (string, error) {
	if patch == "" {
		return "", nil
	}

	oldText, newText := splitPatch(patch)

	// Line-mode diff keeps whole lines as the change unit, matching how
	// patches read.
	dmp := diffmatchpatch.New()
	oldChars, newChars, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(oldChars, newChars, false), lines)

	var page strings.Builder

	page.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"></head>\n<body>\n<pre>")
	page.WriteString(dmp.DiffPrettyHtml(diffs))
	page.WriteString("</pre>\n</body>\n</html>\n")

	return page.String(), nil
}

// splitPatch rebuilds the old and new side of a unified diff, dropping file
// and hunk headers.
func splitPatch(patch string) (string, string) {
	var oldText, newText strings.Builder

	for _, line := range strings.Split(patch, "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		case strings.HasPrefix(line, "diff "), strings.HasPrefix(line, "index "),
			strings.HasPrefix(line, "@@"), strings.HasPrefix(line, "\\"):
		case strings.HasPrefix(line, "new file"), strings.HasPrefix(line, "deleted file"),
			strings.HasPrefix(line, "old mode"), strings.HasPrefix(line, "new mode"),
			strings.HasPrefix(line, "similarity"), strings.HasPrefix(line, "rename "),
			strings.HasPrefix(line, "copy "):
		case strings.HasPrefix(line, "-"):
			oldText.WriteString(line[1:])
			oldText.WriteByte('\n')
		case strings.HasPrefix(line, "+"):
			newText.WriteString(line[1:])
			newText.WriteByte('\n')
		case strings.HasPrefix(line, " "):
			oldText.WriteString(line[1:])
			oldText.WriteByte('\n')
			newText.WriteString(line[1:])
			newText.WriteByte('\n')
		}
	}

	return oldText.String(), newText.String()
}
