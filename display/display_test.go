package display

import (
	"encoding/json"
	"strings"
	"testing"

	"rattlescan/report"
)

func sampleSections() []report.Section {
	rep := report.New()
	rep.AddText("Filename", "photo.jpg")
	rep.AddNumber("Hard Links", 1)
	rep.AddWarning("Extension Mismatch", "content is image/png")
	sub := report.New()
	sub.AddText("user.comment", "aGVsbG8=")
	rep.AddNested("Extended Attributes", sub)
	return []report.Section{{Title: "File System Metadata", Report: rep}}
}

func TestRenderTextAlignment(t *testing.T) {
	var out strings.Builder
	if err := Render(&out, sampleSections(), Options{Format: "text"}); err != nil {
		t.Fatal(err)
	}
	text := out.String()

	if !strings.Contains(text, strings.Repeat("=", 70)) {
		t.Error("missing title banner")
	}
	if !strings.Contains(text, "File System Metadata") {
		t.Error("missing section title")
	}
	// Keys are right-aligned to a common column; every separator must
	// land at the same offset.
	var col int
	for _, line := range strings.Split(text, "\n") {
		idx := strings.Index(line, " : ")
		if idx < 0 {
			continue
		}
		if col == 0 {
			col = idx
		} else if idx != col {
			t.Errorf("separator drifted: %q at %d, want %d", line, idx, col)
		}
	}
	if col == 0 {
		t.Fatal("no field lines rendered")
	}
	if !strings.Contains(text, "user.comment: aGVsbG8=") {
		t.Error("nested sub-report not flattened")
	}
}

func TestRenderTextColorHighlightsWarnings(t *testing.T) {
	var out strings.Builder
	if err := Render(&out, sampleSections(), Options{Format: "text", Color: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), ansiYellow+report.WarningMarker) {
		t.Error("warning keys should be highlighted")
	}

	out.Reset()
	if err := Render(&out, sampleSections(), Options{Format: "text"}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), ansiYellow) {
		t.Error("no escape codes without color")
	}
}

func TestRenderJSON(t *testing.T) {
	var out strings.Builder
	if err := Render(&out, sampleSections(), Options{Format: "json"}); err != nil {
		t.Fatal(err)
	}

	var decoded []struct {
		Title  string `json:"title"`
		Fields []struct {
			Key   string          `json:"key"`
			Value json.RawMessage `json:"value"`
		} `json:"fields"`
	}
	if err := json.Unmarshal([]byte(out.String()), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Title != "File System Metadata" {
		t.Fatalf("decoded = %+v", decoded)
	}
	if decoded[0].Fields[0].Key != "Filename" {
		t.Error("field order must be preserved")
	}
	if string(decoded[0].Fields[1].Value) != "1" {
		t.Errorf("numbers must stay numeric, got %s", decoded[0].Fields[1].Value)
	}
}

func TestRenderEmptySection(t *testing.T) {
	var out strings.Builder
	sections := []report.Section{{Title: "Empty", Report: report.New()}}
	if err := Render(&out, sections, Options{Format: "text"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Empty") {
		t.Error("empty sections still print their title")
	}
}
