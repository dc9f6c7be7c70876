package latex

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// MaxPages is the page budget of a compiled résumé.
const MaxPages = 1

// PageCount returns the number of pages in a compiled PDF.
func PageCount(pdfPath string) (int, error) {
	n, err := api.PageCountFile(pdfPath)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages of %s: %w", pdfPath, err)
	}
	return n, nil
}
