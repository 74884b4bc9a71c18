package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeLabel lowercases a field label and removes all whitespace,
// so that "Primary Group", "primary group" and "Primary&nbsp;Group"
// all compare equal.
func NormalizeLabel(label string) string {
	label = strings.ToLower(label)
	label = strings.Trim(label, " \n\t")
	return whitespaceRegex.ReplaceAllString(label, "")
}

func MatchLabel(label string, matchers []string) bool {
	label = NormalizeLabel(label)
	for _, m := range matchers {
		if strings.Contains(label, m) {
			return true
		}
	}
	return false
}
