package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin   = 40.0
	pdfLeading  = 20.0
	pdfFontSize = 12.0
	pdfWrapCols = 90
)

// GeneratePDF renders the summary as a letter-size PDF: a header line naming
// the source file, a timestamp line, then the summary hard-wrapped at 90
// characters, starting a new page whenever the current one runs out.
func GeneratePDF(summary, filename string) ([]byte, error) {
	doc := gofpdf.New("P", "pt", "Letter", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()
	doc.SetFont("Helvetica", "", pdfFontSize)

	_, pageHeight := doc.GetPageSize()
	y := pdfMargin

	doc.Text(pdfMargin, y, tr(fmt.Sprintf("LegalLite Summary - %s", filename)))
	y += pdfLeading

	doc.Text(pdfMargin, y, tr(fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02 15:04:05"))))
	y += pdfLeading + 10

	for _, line := range strings.Split(summary, "\n") {
		for _, subline := range wrapLine(line, pdfWrapCols) {
			if y > pageHeight-pdfMargin {
				doc.AddPage()
				y = pdfMargin
			}
			doc.Text(pdfMargin, y, tr(subline))
			y += pdfLeading
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render summary PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// wrapLine splits a line into chunks of at most width runes. An empty line
// still yields one (empty) chunk so blank lines keep their vertical space.
func wrapLine(line string, width int) []string {
	runes := []rune(line)
	if len(runes) == 0 {
		return []string{""}
	}
	var chunks []string
	for start := 0; start < len(runes); start += width {
		end := start + width
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
