// Package filesig identifies a file's content type from its leading bytes
// and flags extension anomalies.
package filesig

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"

	"rattlescan/report"
)

// sniffLen covers every magic number filetype knows plus a text sample.
const sniffLen = 4096

// expectedExtensions maps sniffed MIME types to the extensions a file of
// that type should carry. Only listed types participate in mismatch
// detection.
var expectedExtensions = map[string][]string{
	"image/jpeg":      {".jpg", ".jpeg"},
	"image/png":       {".png"},
	"application/pdf": {".pdf"},
	"text/plain":      {".txt"},
	"application/zip": {".zip"},
}

// descriptions supplies the human-readable type line for common MIME
// types; anything else falls back to the MIME type itself.
var descriptions = map[string]string{
	"image/jpeg":       "JPEG image data",
	"image/png":        "PNG image data",
	"image/gif":        "GIF image data",
	"image/tiff":       "TIFF image data",
	"image/bmp":        "BMP image data",
	"application/pdf":  "PDF document",
	"application/zip":  "Zip archive data",
	"application/gzip": "gzip compressed data",
	"text/plain":       "ASCII or UTF-8 text",
	"audio/mpeg":       "MPEG audio",
	"audio/x-wav":      "WAVE audio",
	"audio/x-flac":     "FLAC audio",
	"video/mp4":        "MP4 media",
	"video/x-matroska": "Matroska media",
}

// Sniff reads the file's head and returns its MIME type. Unrecognized
// binary content yields "unknown"; content that looks like text yields
// "text/plain".
func Sniff(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := make([]byte, sniffLen)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	buf = buf[:n]

	kind, err := filetype.Match(buf)
	if err != nil {
		return "", err
	}
	if kind != filetype.Unknown && kind.MIME.Value != "" {
		return kind.MIME.Value, nil
	}
	if looksLikeText(buf) {
		return "text/plain", nil
	}
	return "unknown", nil
}

// looksLikeText reports whether a sample is plausibly UTF-8 text: valid
// encoding, no NUL bytes, and few control characters.
func looksLikeText(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	if !utf8.Valid(sample) {
		return false
	}
	var control int
	for _, b := range sample {
		if b == 0 {
			return false
		}
		if b < 0x09 || (b > 0x0D && b < 0x20) {
			control++
		}
	}
	return control <= len(sample)/10
}

func describe(mimeType string) string {
	if d, ok := descriptions[mimeType]; ok {
		return d
	}
	if mimeType == "unknown" {
		return "data"
	}
	return mimeType
}

// Classify produces the type identification section: MIME type, textual
// description, and extension anomaly fields. Failures surface inside the
// report, never to the caller.
func Classify(path string) *report.Report {
	rep := report.New()

	mimeType, err := Sniff(path)
	if err != nil {
		rep.AddError(fmt.Sprintf("Type detection failed: %v", err))
		return rep
	}
	rep.AddText("MIME Type", mimeType)
	rep.AddText("File Type Description", describe(mimeType))

	expected, ok := expectedExtensions[mimeType]
	if !ok {
		return rep
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range expected {
		if ext == e {
			return rep
		}
	}
	if ext == "" {
		rep.AddWarning("No Extension", fmt.Sprintf("File is %s but has no extension", mimeType))
	} else {
		rep.AddWarning("Extension Mismatch", fmt.Sprintf("File is %s but has %s extension", mimeType, ext))
	}
	return rep
}
