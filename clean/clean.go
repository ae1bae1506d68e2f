package clean

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rattlescan/logger"
)

// Cleaner strips metadata for one format family. Clean writes the
// stripped result to dst and never touches src. The returned message,
// when non-empty, augments the success report.
type Cleaner interface {
	Extensions() []string
	Clean(src, dst string) (string, error)
}

var cleaners = map[string]Cleaner{}

func register(c Cleaner) {
	for _, ext := range c.Extensions() {
		cleaners[strings.ToLower(ext)] = c
	}
}

// Supported reports whether the path's extension has a registered
// cleaner.
func Supported(path string) bool {
	_, ok := cleaners[strings.ToLower(filepath.Ext(path))]
	return ok
}

// CleanedPath derives the clean-copy output path: stem plus ".cleaned"
// before the original extension.
func CleanedPath(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	return stem + ".cleaned" + ext
}

// Options tune the wipe passes; cleaning actions ignore them.
type Options struct {
	WipePasses     int
	MaxIOPerSecond int
	ShowProgress   bool
}

// Run executes one action against the path and reports the outcome.
// Failures never leave the original partially written: clean-copy and
// clean-overwrite write to a separate file first, and overwrite only
// replaces the original via rename after a complete write.
func Run(path string, action Action, opts Options) Outcome {
	switch action {
	case ActionSkip:
		return Outcome{Success: true, Message: "No action taken"}
	case ActionCleanCopy:
		return cleanCopy(path)
	case ActionCleanOverwrite:
		return cleanOverwrite(path)
	case ActionSecureWipe:
		return secureWipe(path, opts)
	}
	return Outcome{Message: fmt.Sprintf("Unknown action: %s", action)}
}

func lookupCleaner(path string) (Cleaner, Outcome, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	c, ok := cleaners[ext]
	if !ok {
		return nil, Outcome{
			Success: false,
			Message: fmt.Sprintf("Cleaning is not supported for %q files", ext),
		}, false
	}
	return c, Outcome{}, true
}

func cleanCopy(path string) Outcome {
	c, out, ok := lookupCleaner(path)
	if !ok {
		return out
	}
	dst := CleanedPath(path)
	msg, err := c.Clean(path, dst)
	if err != nil {
		os.Remove(dst)
		return Outcome{Message: fmt.Sprintf("Cleaning failed: %v", err)}
	}
	result := fmt.Sprintf("Cleaned copy written to %s", dst)
	if msg != "" {
		result += " (" + msg + ")"
	}
	return Outcome{Success: true, Message: result, OutputPath: dst}
}

func cleanOverwrite(path string) Outcome {
	c, out, ok := lookupCleaner(path)
	if !ok {
		return out
	}
	dir := filepath.Dir(path)
	ext := filepath.Ext(path)
	tmp, err := os.CreateTemp(dir, ".cleaning-*"+ext)
	if err != nil {
		return Outcome{Message: fmt.Sprintf("Cleaning failed: %v", err)}
	}
	tmpPath := tmp.Name()
	tmp.Close()

	msg, err := c.Clean(path, tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return Outcome{Message: fmt.Sprintf("Cleaning failed: %v", err)}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return Outcome{Message: fmt.Sprintf("Cleaning failed: %v", err)}
	}
	logger.Debugf("Replaced %s with cleaned temp %s", path, tmpPath)
	result := "Original replaced with cleaned version"
	if msg != "" {
		result += " (" + msg + ")"
	}
	return Outcome{Success: true, Message: result, OutputPath: path}
}
