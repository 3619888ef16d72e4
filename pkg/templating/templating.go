// Package templating renders {{ key }} placeholders against a flat string map.
package templating

import "regexp"

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_\-]+)\s*\}\}`)

// Render replaces every {{ key }} in template with vars[key] in a single
// left-to-right pass. Missing keys render as the empty string and substituted
// values are never expanded again.
func Render(template string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return ""
		}
		return vars[groups[1]]
	})
}

// Keys returns the placeholder keys referenced by template in order of
// appearance, duplicates included.
func Keys(template string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(template, -1)
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		keys = append(keys, m[1])
	}
	return keys
}
