package clean

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	flac "github.com/go-flac/go-flac"

	"rattlescan/logger"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

func TestParseAction(t *testing.T) {
	for _, name := range []string{"skip", "clean-copy", "clean-overwrite", "secure-wipe"} {
		if _, err := ParseAction(name); err != nil {
			t.Errorf("ParseAction(%q): %v", name, err)
		}
	}
	if _, err := ParseAction("shred"); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestActionDestructive(t *testing.T) {
	if ActionCleanCopy.Destructive() || ActionSkip.Destructive() {
		t.Error("copy and skip are not destructive")
	}
	if !ActionCleanOverwrite.Destructive() || !ActionSecureWipe.Destructive() {
		t.Error("overwrite and wipe are destructive")
	}
}

func TestCleanedPath(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/tmp/photo.jpg", "/tmp/photo.cleaned.jpg"},
		{"doc.pdf", "doc.cleaned.pdf"},
		{"noext", "noext.cleaned"},
		{"/a/b.c/song.mp3", "/a/b.c/song.cleaned.mp3"},
	}
	for _, c := range cases {
		if got := CleanedPath(c.in); got != c.want {
			t.Errorf("CleanedPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRunSkipHasNoSideEffect(t *testing.T) {
	path := writeFile(t, "keep.txt", []byte("untouched"))
	before, _ := os.Stat(path)

	out := Run(path, ActionSkip, Options{})
	if !out.Success {
		t.Fatalf("skip outcome: %+v", out)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file should still exist: %v", err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("skip must not touch the file")
	}
}

func TestRunUnsupportedExtension(t *testing.T) {
	content := []byte("MZ fake executable")
	path := writeFile(t, "tool.exe", content)
	before, _ := os.Stat(path)

	out := Run(path, ActionCleanCopy, Options{})
	if out.Success {
		t.Fatalf("expected not-supported outcome, got %+v", out)
	}
	got, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(got, content) {
		t.Error("unsupported action must not mutate the file")
	}
	after, _ := os.Stat(path)
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("unsupported action must not touch the modification time")
	}
}

func TestCleanCopyImageRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 77, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	original := buf.Bytes()
	path := writeFile(t, "pic.png", original)

	out := Run(path, ActionCleanCopy, Options{})
	if !out.Success {
		t.Fatalf("clean-copy failed: %+v", out)
	}
	if out.OutputPath != CleanedPath(path) {
		t.Errorf("OutputPath = %q", out.OutputPath)
	}

	got, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(got, original) {
		t.Fatal("original bytes must be unchanged")
	}

	cf, err := os.Open(out.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	defer cf.Close()
	cleaned, _, err := image.Decode(cf)
	if err != nil {
		t.Fatalf("cleaned copy must decode: %v", err)
	}
	if cleaned.Bounds() != img.Bounds() {
		t.Fatalf("bounds changed: %v", cleaned.Bounds())
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			want := color.NRGBAModel.Convert(img.At(x, y))
			got := color.NRGBAModel.Convert(cleaned.At(x, y))
			if want != got {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestCleanOverwriteImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 16)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := writeFile(t, "gray.png", buf.Bytes())

	out := Run(path, ActionCleanOverwrite, Options{})
	if !out.Success {
		t.Fatalf("clean-overwrite failed: %+v", out)
	}
	if out.OutputPath != path {
		t.Errorf("OutputPath = %q, want original path", out.OutputPath)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("overwritten file must still decode: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Error("dimensions must survive the rewrite")
	}
	// No stray temp files in the directory.
	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if e.Name() != filepath.Base(path) {
			t.Errorf("leftover file %q", e.Name())
		}
	}
}

func TestMP3CleanerWithoutTags(t *testing.T) {
	content := []byte{0xFF, 0xFB, 0x90, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C}
	path := writeFile(t, "plain.mp3", content)

	out := Run(path, ActionCleanCopy, Options{})
	if !out.Success {
		t.Fatalf("clean-copy failed: %+v", out)
	}
	got, err := os.ReadFile(out.OutputPath)
	if err != nil || !bytes.Equal(got, content) {
		t.Error("tag-free mp3 copy should be byte-identical")
	}
}

// writeFLAC assembles a minimal stream: the marker, a STREAMINFO block
// and a VORBIS_COMMENT block carrying one tag.
func writeFLAC(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("fLaC")

	// STREAMINFO, 34 bytes, not the last block.
	buf.Write([]byte{0x00, 0x00, 0x00, 0x22})
	info := make([]byte, 34)
	info[0], info[1] = 0x10, 0x00
	info[2], info[3] = 0x10, 0x00
	buf.Write(info)

	// VORBIS_COMMENT, last block.
	var vc bytes.Buffer
	vendor := "test"
	binaryWriteLE32(&vc, uint32(len(vendor)))
	vc.WriteString(vendor)
	tagValue := "TITLE=Secret"
	binaryWriteLE32(&vc, 1)
	binaryWriteLE32(&vc, uint32(len(tagValue)))
	vc.WriteString(tagValue)
	buf.WriteByte(0x80 | 0x04)
	payload := vc.Bytes()
	buf.Write([]byte{byte(len(payload) >> 16), byte(len(payload) >> 8), byte(len(payload))})
	buf.Write(payload)

	return writeFile(t, "sample.flac", buf.Bytes())
}

func binaryWriteLE32(buf *bytes.Buffer, v uint32) {
	buf.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func TestFLACCleanerStripsTags(t *testing.T) {
	path := writeFLAC(t)
	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	out := Run(path, ActionCleanCopy, Options{})
	if !out.Success {
		t.Fatalf("clean-copy failed: %+v", out)
	}

	after, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(after, original) {
		t.Fatal("original bytes must be unchanged")
	}

	cleaned, err := flac.ParseFile(out.OutputPath)
	if err != nil {
		t.Fatalf("cleaned copy must parse: %v", err)
	}
	if len(cleaned.Meta) == 0 || cleaned.Meta[0].Type != flac.StreamInfo {
		t.Fatal("STREAMINFO must survive the rewrite")
	}
	for _, block := range cleaned.Meta {
		if block.Type == flac.VorbisComment || block.Type == flac.Picture {
			t.Errorf("tag block %v still present", block.Type)
		}
	}
}

func TestFLACCleanerWithoutTags(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("fLaC")
	buf.Write([]byte{0x80, 0x00, 0x00, 0x22})
	buf.Write(make([]byte, 34))
	path := writeFile(t, "bare.flac", buf.Bytes())

	out := Run(path, ActionCleanCopy, Options{})
	if !out.Success {
		t.Fatalf("clean-copy failed: %+v", out)
	}
	if !strings.Contains(out.Message, "No tags were present") {
		t.Errorf("message = %q", out.Message)
	}
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
