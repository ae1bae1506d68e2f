// Package entropy measures the Shannon entropy of a file's leading bytes
// and classifies the result.
package entropy

import (
	"fmt"
	"io"
	"math"
	"os"

	"rattlescan/report"
)

// Classification boundaries in bits per byte.
const (
	highThreshold = 7.5
	lowThreshold  = 4.0
)

// Result holds a computed entropy value. Empty distinguishes "no data"
// from a legitimate 0.0 for repetitive content.
type Result struct {
	Empty       bool
	BitsPerByte float64
}

// Classification returns high, medium or low for a non-empty result.
func (r Result) Classification() string {
	switch {
	case r.BitsPerByte > highThreshold:
		return "high"
	case r.BitsPerByte < lowThreshold:
		return "low"
	default:
		return "medium"
	}
}

func (r Result) analysis() string {
	switch r.Classification() {
	case "high":
		return "High entropy - possibly encrypted or compressed"
	case "low":
		return "Low entropy - likely plain text or repetitive data"
	default:
		return "Medium entropy - typical binary data"
	}
}

// Measure samples at most sampleBytes from the head of the file and
// computes Shannon entropy over a 256-bucket byte histogram.
func Measure(path string, sampleBytes int64) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, sampleBytes))
	if err != nil {
		return Result{}, err
	}
	return Compute(data), nil
}

// Compute derives the entropy of an in-memory sample.
func Compute(data []byte) Result {
	if len(data) == 0 {
		return Result{Empty: true}
	}
	var freq [256]int
	for _, b := range data {
		freq[b]++
	}
	n := float64(len(data))
	var ent float64
	for _, count := range freq {
		if count == 0 {
			continue
		}
		p := float64(count) / n
		ent -= p * math.Log2(p)
	}
	return Result{BitsPerByte: ent}
}

// Analyze produces the entropy report section for a file.
func Analyze(path string, sampleBytes int64) *report.Report {
	rep := report.New()
	res, err := Measure(path, sampleBytes)
	if err != nil {
		rep.AddError(fmt.Sprintf("Entropy calculation error: %v", err))
		return rep
	}
	if res.Empty {
		rep.AddText("Entropy", "N/A (empty file)")
		return rep
	}
	rep.AddText("Entropy", fmt.Sprintf("%.4f bits/byte", res.BitsPerByte))
	rep.AddText("Analysis", res.analysis())
	return rep
}
