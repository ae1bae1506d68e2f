package sensitive

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"rattlescan/report"
)

// Options control one scan invocation.
type Options struct {
	// Redact is "", "mask" or "hash".
	Redact string
	// MaxPerType caps reported matches per pattern; 0 means unlimited.
	MaxPerType int
	// MaxTotal caps reported matches overall; 0 means unlimited.
	MaxTotal int
	// CustomPatterns maps extra pattern names to regexes.
	CustomPatterns map[string]string
}

// Scan reads the file and reports pattern matches, one field per pattern
// type. Binary content is skipped with a note rather than an error.
func Scan(path string, opts Options) *report.Report {
	rep := report.New()

	content, err := readContent(path)
	if err != nil {
		rep.AddError(fmt.Sprintf("Content scan error: %v", err))
		return rep
	}
	if !textLike(content) {
		rep.AddNote("Binary or empty content, not scanned")
		return rep
	}

	patterns := Patterns(opts.CustomPatterns)
	names := PatternNames(patterns)
	g := buildGate(content, names)

	text := string(content)
	var total int
	truncated := false
	for _, name := range names {
		if !g.allow(name) {
			continue
		}
		found := patterns[name].FindAllString(text, -1)
		if name == "credit_card" {
			found = filterLuhn(found)
		}
		if len(found) == 0 {
			continue
		}
		if opts.MaxPerType > 0 && len(found) > opts.MaxPerType {
			found = found[:opts.MaxPerType]
			truncated = true
		}
		if opts.MaxTotal > 0 && total+len(found) > opts.MaxTotal {
			found = found[:opts.MaxTotal-total]
			truncated = true
		}
		if len(found) == 0 {
			truncated = true
			break
		}
		total += len(found)
		values := make([]string, len(found))
		for i, v := range found {
			values[i] = redactValue(v, opts.Redact)
		}
		rep.AddText(fmt.Sprintf("%s (%d)", name, len(found)), strings.Join(values, ", "))
		if opts.MaxTotal > 0 && total >= opts.MaxTotal {
			break
		}
	}

	if total == 0 {
		rep.AddNote("No sensitive data patterns matched")
		return rep
	}
	rep.AddNumber("Total Matches", float64(total))
	if truncated {
		rep.AddWarning("Match Limit", "Match limit reached, additional matches not shown")
	}
	return rep
}

// filterLuhn keeps only candidates whose digits pass the Luhn checksum.
func filterLuhn(found []string) []string {
	kept := found[:0]
	for _, f := range found {
		if luhnValid(f) {
			kept = append(kept, f)
		}
	}
	return kept
}

func luhnValid(number string) bool {
	num := strings.ReplaceAll(number, " ", "")
	num = strings.ReplaceAll(num, "-", "")
	if len(num) < 13 || len(num) > 16 {
		return false
	}
	var sum int
	alt := false
	for i := len(num) - 1; i >= 0; i-- {
		d := int(num[i] - '0')
		if alt {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		alt = !alt
	}
	return sum%10 == 0
}

func redactValue(value, mode string) string {
	switch mode {
	case "hash":
		sum := sha256.Sum256([]byte(value))
		return fmt.Sprintf("%x", sum[:])
	case "mask":
		if len(value) <= 4 {
			return "****"
		}
		return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
	default:
		return value
	}
}
