package clean

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// writeSimplePDF assembles a one-page document with a populated
// document-info dictionary, computing the xref offsets as it goes.
func writeSimplePDF(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	offsets := make([]int, 5)

	buf.WriteString("%PDF-1.4\n")
	add := func(n int, body string) {
		offsets[n] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}
	add(1, "<</Type /Catalog /Pages 2 0 R>>")
	add(2, "<</Type /Pages /Kids [3 0 R] /Count 1>>")
	add(3, "<</Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources <<>>>>")
	add(4, "<</Title (Confidential Report) /Author (Jane Doe)>>")

	xref := buf.Len()
	buf.WriteString("xref\n0 5\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 4; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<</Size 5 /Root 1 0 R /Info 4 0 R>>\nstartxref\n%d\n%%%%EOF\n", xref)

	return writeFile(t, "report.pdf", buf.Bytes())
}

func pdfInfoOf(t *testing.T, path string) (pages int, title, author string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	info, err := api.PDFInfo(f, path, nil, false, nil)
	if err != nil {
		t.Fatalf("resulting pdf must open: %v", err)
	}
	return info.PageCount, info.Title, info.Author
}

func TestCleanOverwritePDF(t *testing.T) {
	path := writeSimplePDF(t)

	pages, title, author := pdfInfoOf(t, path)
	if pages != 1 || title != "Confidential Report" || author != "Jane Doe" {
		t.Fatalf("fixture: pages=%d title=%q author=%q", pages, title, author)
	}

	out := Run(path, ActionCleanOverwrite, Options{})
	if !out.Success {
		t.Fatalf("clean-overwrite failed: %+v", out)
	}
	if out.OutputPath != path {
		t.Errorf("OutputPath = %q, want original path", out.OutputPath)
	}

	pages, title, author = pdfInfoOf(t, path)
	if pages != 1 {
		t.Errorf("page count = %d, want 1", pages)
	}
	if title != "" || author != "" {
		t.Errorf("document info survived: title=%q author=%q", title, author)
	}
}

func TestCleanCopyPDFLeavesOriginal(t *testing.T) {
	path := writeSimplePDF(t)
	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	out := Run(path, ActionCleanCopy, Options{})
	if !out.Success {
		t.Fatalf("clean-copy failed: %+v", out)
	}
	if out.OutputPath != CleanedPath(path) {
		t.Errorf("OutputPath = %q", out.OutputPath)
	}

	after, err := os.ReadFile(path)
	if err != nil || !bytes.Equal(after, original) {
		t.Fatal("original bytes must be unchanged")
	}
	if _, title, _ := pdfInfoOf(t, out.OutputPath); title != "" {
		t.Errorf("cleaned copy keeps title %q", title)
	}
}
