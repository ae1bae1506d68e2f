package metadata

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"rattlescan/report"
)

type pdfExtractor struct{}

func (pdfExtractor) Category() string { return "pdf" }
func (pdfExtractor) Title() string    { return titles["pdf"] }

func (pdfExtractor) Extract(path string, maxBytes int64) *report.Report {
	rep := report.New()

	if maxBytes > 0 {
		if fi, err := os.Stat(path); err == nil && fi.Size() > maxBytes {
			rep.AddNote(fmt.Sprintf("File exceeds %d bytes, metadata not parsed", maxBytes))
			return rep
		}
	}

	f, err := os.Open(path)
	if err != nil {
		rep.AddError(fmt.Sprintf("PDF extraction error: %v", err))
		return rep
	}
	defer f.Close()

	info, err := api.PDFInfo(f, path, nil, false, nil)
	if err != nil {
		rep.AddError(fmt.Sprintf("PDF extraction error: %v", err))
		return rep
	}

	rep.AddNumber("Number of Pages", float64(info.PageCount))
	if info.Encrypted {
		rep.AddText("Encrypted", "Yes")
	} else {
		rep.AddText("Encrypted", "No")
	}

	docInfo := []struct {
		key   string
		value string
	}{
		{"Title", info.Title},
		{"Author", info.Author},
		{"Subject", info.Subject},
		{"Producer", info.Producer},
		{"Creator", info.Creator},
		{"Creation Date", info.CreationDate},
		{"Modification Date", info.ModificationDate},
	}
	for _, field := range docInfo {
		if field.value == "" {
			continue
		}
		rep.AddText(field.key, truncateText(field.value))
	}
	if len(info.Keywords) > 0 {
		rep.AddText("Keywords", truncateText(strings.Join(info.Keywords, ", ")))
	}

	if len(info.Properties) > 0 {
		keys := make([]string, 0, len(info.Properties))
		for k := range info.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rep.AddText(strings.TrimPrefix(k, "/"), truncateText(info.Properties[k]))
		}
	}
	return rep
}

func init() {
	Register(pdfExtractor{})
}
