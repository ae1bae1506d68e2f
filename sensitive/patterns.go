// Package sensitive scans text-like file content for data patterns such
// as credentials and personal identifiers. Scanning is opt-in and the
// matches stay in the in-memory report only.
package sensitive

import (
	"regexp"
	"sort"

	"rattlescan/logger"
)

var builtinPatterns = map[string]*regexp.Regexp{
	"email":          regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
	"credit_card":    regexp.MustCompile(`\b(?:\d[ -]*?){13,16}\b`),
	"ssn":            regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
	"ip_address":     regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
	"api_key":        regexp.MustCompile(`(?i)(api_key|api-secret|access-token)[\s:=]+"?[\w\-]+"?`),
	"phone_number":   regexp.MustCompile(`\b\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
	"aws_access_key": regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	"jwt_token":      regexp.MustCompile(`eyJ[\w-]+?\.[\w-]+?\.[\w-]+`),
	"street_address": regexp.MustCompile(`\b\d{1,5}\s+[A-Za-z0-9]+(?:\s+[A-Za-z0-9]+)*\s+(?:Street|St|Avenue|Ave|Boulevard|Blvd|Road|Rd|Lane|Ln|Drive|Dr)\b`),
}

// Patterns merges the builtin table with user-supplied custom regexes.
// A custom entry whose regex does not compile is logged and dropped; a
// custom name shadowing a builtin wins.
func Patterns(custom map[string]string) map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp, len(builtinPatterns)+len(custom))
	for name, pattern := range builtinPatterns {
		patterns[name] = pattern
	}
	for name, expr := range custom {
		compiled, err := regexp.Compile(expr)
		if err != nil {
			logger.Warnf("Ignoring custom pattern %q: %v", name, err)
			continue
		}
		patterns[name] = compiled
	}
	return patterns
}

// PatternNames returns the sorted names of a pattern set. Scanning and
// reporting iterate this order so output is stable.
func PatternNames(patterns map[string]*regexp.Regexp) []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
