package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"documate/internal/documents"
)

func extractPDF(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", corrupt(documents.FormatPDF, errors.New("empty pdf data"))
	}
	// The pdf package panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = corrupt(documents.FormatPDF, fmt.Errorf("malformed pdf: %v", rec))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", corrupt(documents.FormatPDF, err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", corrupt(documents.FormatPDF, fmt.Errorf("page %d: %w", i, err))
		}
		pages = append(pages, strings.TrimRight(content, "\n"))
	}
	return joinLines(pages), nil
}
