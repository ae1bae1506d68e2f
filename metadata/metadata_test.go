package metadata

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"rattlescan/report"
)

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 60), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, "sample.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create png: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return path
}

func writeWAV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sample.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	defer f.Close()
	enc := wav.NewEncoder(f, 44100, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: 44100},
		Data:   make([]int, 44100),
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close wav: %v", err)
	}
	return path
}

func TestCategoryFor(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"photo.jpg", "image"},
		{"photo.JPEG", "image"},
		{"doc.pdf", "pdf"},
		{"song.mp3", "media"},
		{"movie.mkv", "media"},
		{"notes.txt", ""},
		{"noext", ""},
	}
	for _, c := range cases {
		if got := CategoryFor(c.path); got != c.want {
			t.Errorf("CategoryFor(%q) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestExtractImageWithoutEXIF(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir)

	title, rep := Extract(path, 1024*1024)
	if title != "Image Metadata (EXIF)" {
		t.Fatalf("title = %q", title)
	}
	if rep == nil {
		t.Fatal("expected a report for a valid PNG")
	}
	if v, ok := rep.Get("Image Format"); !ok || v.Render() != "PNG" {
		t.Errorf("Image Format = %v", v)
	}
	if v, ok := rep.Get("Image Size"); !ok || v.Render() != "8 x 4 pixels" {
		t.Errorf("Image Size = %v", v)
	}
	if v, ok := rep.Get("EXIF Status"); !ok || v.Render() != "No EXIF data found" {
		t.Errorf("EXIF Status = %v", v)
	}
}

func TestExtractImageExtensionLies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fake.jpg")
	if err := os.WriteFile(path, []byte("plain text, not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, rep := Extract(path, 0)
	if rep != nil {
		t.Fatalf("expected nil report for non-image content, got %v", rep.Fields())
	}
}

func TestExtractWAV(t *testing.T) {
	dir := t.TempDir()
	path := writeWAV(t, dir)

	title, rep := Extract(path, 0)
	if title != "Audio/Video Metadata" {
		t.Fatalf("title = %q", title)
	}
	if v, ok := rep.Get("Duration"); !ok || v.Render() != "1.00 seconds" {
		t.Errorf("Duration = %v", v)
	}
	if v, ok := rep.Get("Sample Rate"); !ok || v.Render() != "44100 Hz" {
		t.Errorf("Sample Rate = %v", v)
	}
	if v, ok := rep.Get("Channels"); !ok || v.Render() != "1" {
		t.Errorf("Channels = %v", v)
	}
}

func TestExtractUnrecognizedMedia(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noise.mp3")
	if err := os.WriteFile(path, []byte("definitely not audio data at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, rep := Extract(path, 0)
	if v, ok := rep.Get("Note"); !ok || v.Render() != "Not a recognized audio/video file" {
		t.Errorf("Note = %v", v)
	}
}

func TestExtractPDFErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 truncated garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, rep := Extract(path, 0)
	v, ok := rep.Get("Error")
	if !ok {
		t.Fatal("expected an Error field")
	}
	if !strings.HasPrefix(v.Render(), "PDF extraction error:") {
		t.Errorf("Error = %q", v.Render())
	}
}

func TestExtractPDFSizeGuard(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.pdf")
	if err := os.WriteFile(path, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}
	_, rep := Extract(path, 1024)
	v, ok := rep.Get("Note")
	if !ok {
		t.Fatal("expected a Note field")
	}
	if !strings.Contains(v.Render(), "1024 bytes") {
		t.Errorf("Note = %q", v.Render())
	}
}

func TestExtractUnsupportedCategory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	title, rep := Extract(path, 0)
	if title != "" || rep != nil {
		t.Fatalf("expected no section for %q, got title %q", path, title)
	}
}

func TestTruncateText(t *testing.T) {
	short := "short value"
	if got := truncateText(short); got != short {
		t.Errorf("truncateText(short) = %q", got)
	}
	long := strings.Repeat("x", 150)
	got := truncateText(long)
	if len(got) != 103 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncateText(long) = %q (len %d)", got, len(got))
	}
}

func TestTagValueTypes(t *testing.T) {
	rep := report.New()
	rep.Add("blob", report.Binary(4096))
	if v, _ := rep.Get("blob"); v.Render() != "<Binary Data, 4096 bytes>" {
		t.Errorf("binary render = %q", v.Render())
	}
}
