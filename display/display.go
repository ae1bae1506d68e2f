// Package display renders the assembled report sections: an aligned
// text layout for humans and a JSON document for pipelines.
package display

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"rattlescan/report"
)

const bannerWidth = 70

const (
	ansiYellow = "\x1b[33m"
	ansiBold   = "\x1b[1m"
	ansiReset  = "\x1b[0m"
)

// Options select the rendering surface.
type Options struct {
	Format string // "text" or "json"
	Color  bool
}

// Render writes all sections to w in the configured format.
func Render(w io.Writer, sections []report.Section, opts Options) error {
	if opts.Format == "json" {
		return renderJSON(w, sections)
	}
	for _, s := range sections {
		renderSection(w, s, opts.Color)
	}
	return nil
}

// renderSection prints a banner-framed title and the fields with keys
// left-padded to the widest key, warning keys highlighted.
func renderSection(w io.Writer, s report.Section, color bool) {
	banner := strings.Repeat("=", bannerWidth)
	title := s.Title
	if color {
		title = ansiBold + title + ansiReset
	}
	fmt.Fprintf(w, "\n%s\n %s\n%s\n", banner, title, banner)
	if s.Report == nil || s.Report.Len() == 0 {
		return
	}

	width := 0
	for _, f := range s.Report.Fields() {
		if n := utf8.RuneCountInString(f.Key); n > width {
			width = n
		}
	}
	for _, f := range s.Report.Fields() {
		key := f.Key
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(key))
		if color && strings.Contains(key, report.WarningMarker) {
			key = ansiYellow + key + ansiReset
		}
		fmt.Fprintf(w, "%s%s : %s\n", pad, key, renderValue(f.Value, width))
	}
}

// renderValue flattens nested sub-reports onto indented lines; scalar
// values render inline.
func renderValue(v report.Value, width int) string {
	nested, ok := v.(report.Nested)
	if !ok {
		return v.Render()
	}
	if nested.Report == nil || nested.Report.Len() == 0 {
		return "(none)"
	}
	var sb strings.Builder
	indent := strings.Repeat(" ", width+3)
	for i, f := range nested.Report.Fields() {
		if i > 0 {
			sb.WriteString("\n" + indent)
		}
		sb.WriteString(f.Key + ": " + f.Value.Render())
	}
	return sb.String()
}
