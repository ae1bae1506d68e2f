package display

import (
	"fmt"
	"io"

	"rattlescan/report"
)

// renderJSON emits the sections as an ordered array of objects so field
// order survives the trip through generic JSON tooling.
func renderJSON(w io.Writer, sections []report.Section) error {
	type jsonField struct {
		Key   string `json:"key"`
		Value any    `json:"value"`
	}
	type jsonSection struct {
		Title  string      `json:"title"`
		Fields []jsonField `json:"fields"`
	}

	var encodeValue func(v report.Value) any
	encodeValue = func(v report.Value) any {
		switch val := v.(type) {
		case report.Number:
			return float64(val)
		case report.Nested:
			if val.Report == nil {
				return nil
			}
			fields := make([]jsonField, 0, val.Report.Len())
			for _, f := range val.Report.Fields() {
				fields = append(fields, jsonField{Key: f.Key, Value: encodeValue(f.Value)})
			}
			return fields
		default:
			return v.Render()
		}
	}

	out := make([]jsonSection, 0, len(sections))
	for _, s := range sections {
		js := jsonSection{Title: s.Title, Fields: []jsonField{}}
		if s.Report != nil {
			for _, f := range s.Report.Fields() {
				js.Fields = append(js.Fields, jsonField{Key: f.Key, Value: encodeValue(f.Value)})
			}
		}
		out = append(out, js)
	}

	data, err := jsonMarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
