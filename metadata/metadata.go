// Package metadata extracts format-specific metadata. Extractors hang off
// a capability registry so a build without a given decoder degrades to an
// informational note instead of failing the scan.
package metadata

import (
	"fmt"
	"path/filepath"
	"strings"

	"rattlescan/report"
)

// Extractor reads one format family's metadata.
type Extractor interface {
	// Category is one of the keys of extensionSets.
	Category() string
	// Title is the section heading shown for this extractor's report.
	Title() string
	// Extract builds the format report. A nil report means the file could
	// not be opened as this format at all (the extension lied), which is
	// distinct from an extraction error recorded inside the report.
	Extract(path string, maxBytes int64) *report.Report
}

// extensionSets routes files to extractor categories. The sets are
// disjoint; selection is by extension, not sniffed type, because the
// format section documents what the file claims to be.
var extensionSets = map[string][]string{
	"image": {".jpg", ".jpeg", ".png", ".tiff", ".bmp", ".gif"},
	"pdf":   {".pdf"},
	"media": {".mp3", ".mp4", ".flac", ".ogg", ".wav", ".m4a", ".avi", ".mkv"},
}

// requirement names what a missing extractor would need, for the
// capability note.
var requirement = map[string]string{
	"image": "an EXIF decoder",
	"pdf":   "a PDF parser",
	"media": "an audio/video tag reader",
}

var titles = map[string]string{
	"image": "Image Metadata (EXIF)",
	"pdf":   "PDF Metadata",
	"media": "Audio/Video Metadata",
}

var registry = map[string]Extractor{}

// Register installs an extractor for its category. Called from init by
// each extractor actually compiled in.
func Register(e Extractor) {
	if e == nil {
		return
	}
	registry[e.Category()] = e
}

// Supported reports whether an extractor for the category is available.
func Supported(category string) bool {
	_, ok := registry[category]
	return ok
}

// CategoryFor maps a path's extension to an extractor category, or ""
// when no format section applies.
func CategoryFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	for category, exts := range extensionSets {
		for _, e := range exts {
			if ext == e {
				return category
			}
		}
	}
	return ""
}

// Extract resolves the extractor for the path and runs it. The returned
// title names the section; a nil report means no format section at all.
func Extract(path string, maxBytes int64) (string, *report.Report) {
	category := CategoryFor(path)
	if category == "" {
		return "", nil
	}
	title := titles[category]
	e, ok := registry[category]
	if !ok {
		rep := report.New()
		rep.AddNote(fmt.Sprintf("Metadata extraction for this type requires %s, which is not available in this build", requirement[category]))
		return title, rep
	}
	return title, e.Extract(path, maxBytes)
}

// truncateText caps display strings at 100 characters plus an ellipsis.
func truncateText(s string) string {
	const limit = 100
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
