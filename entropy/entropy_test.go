package entropy

import (
	"bytes"
	"crypto/rand"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestComputeEmpty(t *testing.T) {
	res := Compute(nil)
	if !res.Empty {
		t.Fatal("expected empty sentinel")
	}
}

func TestComputeRepeatedByte(t *testing.T) {
	res := Compute(bytes.Repeat([]byte{0x41}, 4096))
	if res.Empty {
		t.Fatal("non-empty data must not yield the empty sentinel")
	}
	if res.BitsPerByte != 0.0 {
		t.Errorf("repeated byte entropy = %f, want 0.0", res.BitsPerByte)
	}
	if res.Classification() != "low" {
		t.Errorf("classification = %s, want low", res.Classification())
	}
}

func TestComputeRandomBuffer(t *testing.T) {
	buf := make([]byte, 1024*1024)
	if _, err := rand.Read(buf); err != nil {
		t.Fatalf("rand: %v", err)
	}
	res := Compute(buf)
	if math.Abs(res.BitsPerByte-8.0) > 0.01 {
		t.Errorf("random entropy = %f, want ~8.0", res.BitsPerByte)
	}
	if res.Classification() != "high" {
		t.Errorf("classification = %s, want high", res.Classification())
	}
}

func TestClassificationBoundaries(t *testing.T) {
	cases := []struct {
		bits float64
		want string
	}{
		{7.51, "high"},
		{7.5, "medium"},
		{4.0, "medium"},
		{3.99, "low"},
		{0.0, "low"},
	}
	for _, c := range cases {
		res := Result{BitsPerByte: c.bits}
		if got := res.Classification(); got != c.want {
			t.Errorf("%f: classification = %s, want %s", c.bits, got, c.want)
		}
	}
}

func TestAnalyzeEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	rep := Analyze(path, 1024*1024)
	v, ok := rep.Get("Entropy")
	if !ok {
		t.Fatal("missing Entropy field")
	}
	if v.Render() != "N/A (empty file)" {
		t.Errorf("empty file entropy = %q", v.Render())
	}
	if _, ok := rep.Get("Analysis"); ok {
		t.Error("empty file should carry no analysis field")
	}
}

func TestAnalyzeSampleLimit(t *testing.T) {
	// 1 KiB of a single byte followed by random noise; a 1 KiB sample
	// must only see the repetitive head.
	head := bytes.Repeat([]byte{0x00}, 1024)
	tail := make([]byte, 4096)
	rand.Read(tail)
	path := filepath.Join(t.TempDir(), "mixed")
	if err := os.WriteFile(path, append(head, tail...), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	rep := Analyze(path, 1024)
	v, _ := rep.Get("Entropy")
	if !strings.HasPrefix(v.Render(), "0.0000") {
		t.Errorf("sample-limited entropy = %q, want 0.0000 bits/byte", v.Render())
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	rep := Analyze(filepath.Join(t.TempDir(), "absent"), 1024)
	if rep.Len() != 1 {
		t.Fatalf("expected single error field, got %d", rep.Len())
	}
	if _, ok := rep.Get("Error"); !ok {
		t.Error("expected Error field")
	}
}
