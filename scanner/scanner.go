// Package scanner runs the analysis pipeline over one file and
// assembles the ordered report sections.
package scanner

import (
	"fmt"

	"rattlescan/config"
	"rattlescan/entropy"
	"rattlescan/filesig"
	"rattlescan/fsmeta"
	"rattlescan/fuzzy"
	"rattlescan/hasher"
	"rattlescan/logger"
	"rattlescan/metadata"
	"rattlescan/report"
	"rattlescan/sensitive"
	"rattlescan/systeminfo"
)

// FileContext carries the target path and resolved settings through the
// pipeline. Analyzers are otherwise independent of each other.
type FileContext struct {
	Path string
	Cfg  *config.Config
}

// Scan runs every analysis stage in display order. Only a stat failure
// on the target aborts; each analyzer contains its own failures inside
// its section. The format metadata section appears only for recognized
// extensions, the optional sections only when enabled.
func Scan(path string, cfg *config.Config) ([]report.Section, error) {
	fc := &FileContext{Path: path, Cfg: cfg}
	var sections []report.Section

	add := func(title string, rep *report.Report) {
		if rep != nil {
			logger.Debugf("Section %q: %d fields", title, rep.Len())
			sections = append(sections, report.Section{Title: title, Report: rep})
		}
	}

	add("File Type Identification", filesig.Classify(path))
	add("Cryptographic Hashes", hasher.Compute(path, cfg.HashAlgorithms))
	if cfg.FuzzyHash {
		add("Fuzzy Hashes", fuzzyHashes(fc))
	}

	fsRep, err := fsmeta.Inspect(path, fsmeta.Options{
		CollectXattrs:     cfg.CollectXattrs,
		XattrMaxValueSize: cfg.XattrMaxValueSize,
	})
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", path, err)
	}
	add("File System Metadata", fsRep)

	add("Entropy Analysis", entropy.Analyze(path, cfg.EntropySampleBytes))

	// Exactly one format extractor applies, selected by extension.
	if title, rep := metadata.Extract(path, cfg.MetadataMaxBytes); rep != nil {
		add(title, rep)
	}

	if cfg.ScanSensitive {
		add("Sensitive Content", sensitive.Scan(path, sensitive.Options{
			Redact:         cfg.RedactSensitive,
			MaxPerType:     cfg.SensitiveMaxPerType,
			MaxTotal:       cfg.SensitiveMaxTotal,
			CustomPatterns: cfg.CustomPatterns,
		}))
	}
	if cfg.CollectVolumeInfo {
		add("Volume Information", systeminfo.Collect(path))
	}
	return sections, nil
}

func fuzzyHashes(fc *FileContext) *report.Report {
	rep := report.New()
	for _, name := range fc.Cfg.FuzzyAlgorithms {
		h, ok := fuzzy.Lookup(name)
		if !ok {
			rep.AddWarning(name, "Unknown fuzzy hash algorithm")
			continue
		}
		digest, err := h.HashFile(fc.Path)
		if err != nil {
			rep.AddText(h.Name(), fmt.Sprintf("Error: %v", err))
			continue
		}
		rep.AddText(h.Name(), digest)
	}
	return rep
}
