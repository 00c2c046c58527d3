package settings

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders a line diff between two settings documents as they would be
// written to disk. changed is false when both encode identically.
func Diff(oldSettings, newSettings *Settings, oldLabel, newLabel string) (diff string, changed bool, err error) {
	oldText, err := Encode(oldSettings, FormatJSON)
	if err != nil {
		return "", false, err
	}
	newText, err := Encode(newSettings, FormatJSON)
	if err != nil {
		return "", false, err
	}
	diff, changed = GenerateDiff(string(oldText), string(newText), oldLabel, newLabel)
	return diff, changed, nil
}

// GenerateDiff builds a unified-style line diff of two texts
func GenerateDiff(oldText, newText, oldLabel, newLabel string) (string, bool) {
	if oldText == newText {
		return "", false
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- %s\n", oldLabel))
	result.WriteString(fmt.Sprintf("+++ %s\n", newLabel))
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			result.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
		}
	}
	return result.String(), true
}

// FormatDiffForCLI colors diff lines for a terminal
func FormatDiffForCLI(diff string) string {
	bold := color.New(color.Bold)
	var result strings.Builder
	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++"):
			result.WriteString(bold.Sprint(line))
		case strings.HasPrefix(line, "-"):
			result.WriteString(color.RedString("%s", line))
		case strings.HasPrefix(line, "+"):
			result.WriteString(color.GreenString("%s", line))
		default:
			result.WriteString(line)
		}
		result.WriteString("\n")
	}
	return result.String()
}
