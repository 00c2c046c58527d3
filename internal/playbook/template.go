package playbook

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/YangQing-Lin/playbook/internal/settings"
)

// placeholder matches ${n} and ${@}, blanks allowed inside the braces
var placeholder = regexp.MustCompile(`\$\{\s*(\d+|@)\s*\}`)

// Render substitutes ${i} with args[i] (empty when out of range) and ${@}
// with all args joined by a space. Other ${...} are left for the shell.
func Render(tmpl settings.Template, args []string) string {
	return placeholder.ReplaceAllStringFunc(string(tmpl), func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		if key == "@" {
			return strings.Join(args, " ")
		}
		i, err := strconv.Atoi(key)
		if err != nil || i >= len(args) {
			return ""
		}
		return args[i]
	})
}

// IsURL accepts http:// or https:// followed by at least one character
func IsURL(s string) bool {
	for _, scheme := range []string{"http://", "https://"} {
		if len(s) > len(scheme) && strings.EqualFold(s[:len(scheme)], scheme) {
			return strings.TrimSpace(s[len(scheme):]) != ""
		}
	}
	return false
}

// DefaultName derives a project name from the last path or URL segment
func DefaultName(path string) string {
	trimmed := strings.TrimRight(path, `/\`)
	if IsURL(path) {
		if i := strings.LastIndex(trimmed, "/"); i >= 0 {
			trimmed = trimmed[i+1:]
		}
		trimmed = strings.TrimSuffix(trimmed, ".git")
	} else if trimmed != "" {
		trimmed = filepath.Base(trimmed)
		if i := strings.LastIndexAny(trimmed, `/\`); i >= 0 {
			trimmed = trimmed[i+1:]
		}
	}
	if trimmed == "" || trimmed == "." {
		return path
	}
	return trimmed
}
