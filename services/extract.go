package services

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// MaxUploadSize is the hard cap on accepted PDF uploads.
const MaxUploadSize = 3 * 1024 * 1024

var ErrFileTooLarge = errors.New("file too large, PDFs must be under 3MB")

// ExtractionError wraps a failure to parse or read the PDF itself.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("error reading PDF: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ExtractText returns the concatenated plain text of all pages in the PDF.
// Oversized inputs are rejected before any parsing is attempted.
func ExtractText(data []byte) (string, error) {
	if len(data) > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Err: err}
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Err: err}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", &ExtractionError{Err: err}
	}
	return buf.String(), nil
}
