package textdoc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// renderPDF lays the document body out as portrait A4 text, one MultiCell
// per line. Core fonts only cover cp1252, so text goes through the unicode
// translator (enough for the accented headers the source sheets use).
func renderPDF(title, body string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 11)

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			pdf.Ln(5)
			continue
		}
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// verifyPDF reads the produced bytes back through pdfcpu and checks that at
// least one page made it out; a truncated or corrupt export fails the row
// instead of landing in the destination folder.
func verifyPDF(blob []byte) error {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(blob), model.NewDefaultConfiguration())
	if err != nil {
		return fmt.Errorf("pdfcpu read: %w", err)
	}
	if ctx.PageCount < 1 {
		return fmt.Errorf("exported document has no pages")
	}
	return nil
}
