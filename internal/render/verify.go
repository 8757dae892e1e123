package render

import (
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
)

// VerifyPDF re-opens a produced PDF and checks the document has at least
// one page. Catches outputs a PDF viewer would reject outright.
func VerifyPDF(path string) error {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return fmt.Errorf("verify pdf %s: %w", path, err)
	}
	defer f.Close()

	if reader.NumPage() < 1 {
		return fmt.Errorf("verify pdf %s: document has no pages", path)
	}
	return nil
}
