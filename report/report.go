// Package report provides the ordered key/value mappings every analyzer
// produces. Insertion order defines display order, so fields live in a
// slice rather than a map.
package report

import (
	"strconv"
	"strings"
)

// WarningMarker prefixes field keys that flag anomalies. Renderers must
// style such keys distinctly.
const WarningMarker = "⚠"

// Value is the closed set of field value shapes: Text, Number, Nested and
// Binary. Renderers and tests switch over the concrete types.
type Value interface {
	Render() string
	value()
}

type Text string

func (t Text) Render() string { return string(t) }
func (Text) value()           {}

type Number float64

func (n Number) Render() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}
func (Number) value() {}

// Nested embeds a sub-report, e.g. the GPS tag group of an EXIF block.
type Nested struct {
	Report *Report
}

func (n Nested) Render() string {
	if n.Report == nil {
		return "{}"
	}
	parts := make([]string, 0, n.Report.Len())
	for _, f := range n.Report.Fields() {
		parts = append(parts, f.Key+": "+f.Value.Render())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (Nested) value() {}

// Binary summarizes a payload by size instead of carrying raw bytes.
type Binary int

func (b Binary) Render() string {
	return "<Binary Data, " + strconv.Itoa(int(b)) + " bytes>"
}
func (Binary) value() {}

type Field struct {
	Key   string
	Value Value
}

// Report is an insertion-ordered field mapping. The zero value is ready to
// use.
type Report struct {
	fields []Field
}

func New() *Report { return &Report{} }

// Add appends a field, replacing an existing field of the same key in
// place so re-adding never reorders the report.
func (r *Report) Add(key string, v Value) {
	for i := range r.fields {
		if r.fields[i].Key == key {
			r.fields[i].Value = v
			return
		}
	}
	r.fields = append(r.fields, Field{Key: key, Value: v})
}

func (r *Report) AddText(key, text string)          { r.Add(key, Text(text)) }
func (r *Report) AddNumber(key string, n float64)   { r.Add(key, Number(n)) }
func (r *Report) AddNested(key string, sub *Report) { r.Add(key, Nested{Report: sub}) }
func (r *Report) AddBinary(key string, size int)    { r.Add(key, Binary(size)) }

// AddWarning appends an anomaly field; the key is tagged with the warning
// marker.
func (r *Report) AddWarning(key, text string) {
	r.AddText(WarningMarker+" "+key, text)
}

// AddError records a category-local failure as a single field. Analyzers
// use this instead of returning errors so one bad parser never blocks the
// other sections.
func (r *Report) AddError(text string) {
	r.AddText("Error", text)
}

// AddNote records an informational message, e.g. a missing optional
// capability.
func (r *Report) AddNote(text string) {
	r.AddText("Note", text)
}

func (r *Report) Fields() []Field { return r.fields }

func (r *Report) Len() int { return len(r.fields) }

// Get returns the value for key and whether it exists.
func (r *Report) Get(key string) (Value, bool) {
	for _, f := range r.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// HasWarnings reports whether any field key carries the warning marker.
func (r *Report) HasWarnings() bool {
	for _, f := range r.fields {
		if strings.Contains(f.Key, WarningMarker) {
			return true
		}
	}
	return false
}

// Section pairs a titled report with its place in the overall output.
type Section struct {
	Title  string
	Report *Report
}
