package core

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// BodyDiff renders a unified diff between two versions of an entry body.
// Returns "" when they are equal.
func BodyDiff(date, oldText, newText string) string {
	if oldText == newText {
		return ""
	}

	dmp := diffmatchpatch.New()

	// Line-mode diff for better output
	a, b, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(oldText, diffs)
	if len(patches) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- %s (saved)\n", date))
	result.WriteString(fmt.Sprintf("+++ %s (new)\n", date))
	result.WriteString(dmp.PatchToText(patches))

	return result.String()
}
