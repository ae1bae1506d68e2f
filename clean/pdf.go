package clean

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pdfCleaner rewrites the document without its document-info
// dictionary. The writer rebuilds the cross-reference table, so
// orphaned info objects are not carried along.
type pdfCleaner struct{}

func (pdfCleaner) Extensions() []string { return []string{".pdf"} }

func (pdfCleaner) Clean(src, dst string) (string, error) {
	ctx, err := api.ReadContextFile(src)
	if err != nil {
		return "", fmt.Errorf("reading pdf: %w", err)
	}
	ctx.Info = nil
	if err := api.WriteContextFile(ctx, dst); err != nil {
		return "", fmt.Errorf("writing pdf: %w", err)
	}
	return "", nil
}

func init() {
	register(pdfCleaner{})
}
