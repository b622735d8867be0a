// Package extract turns stored PDF, DOCX and PPTX documents into plain text.
//
// Every format follows the same joining policy: each page, paragraph or slide
// element becomes one line, elements without text are skipped, and lines are
// joined with "\n".
package extract

import (
	"context"
	"io"
	"strings"

	"documate/internal/documents"
)

// Opener reads the stored bytes behind a document reference.
type Opener interface {
	Open(ctx context.Context, ref documents.Reference) (io.ReadCloser, error)
}

// Extractor reads documents through an Opener and extracts their text.
type Extractor struct {
	Docs Opener
}

// New constructs an Extractor.
func New(docs Opener) *Extractor {
	return &Extractor{Docs: docs}
}

// Extract returns the plain text of the referenced document.
func (e *Extractor) Extract(ctx context.Context, ref documents.Reference) (string, error) {
	if !ref.Format.Supported() {
		return "", &Error{Kind: KindUnsupportedFormat, Format: ref.Format}
	}
	if err := ctx.Err(); err != nil {
		return "", &Error{Kind: KindIOFailure, Format: ref.Format, Err: err}
	}

	body, err := e.Docs.Open(ctx, ref)
	if err != nil {
		return "", &Error{Kind: KindIOFailure, Format: ref.Format, Err: err}
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", &Error{Kind: KindIOFailure, Format: ref.Format, Err: err}
	}
	return ExtractBytes(ctx, ref.Format, raw)
}

// ExtractBytes extracts text from an in-memory payload of the given format.
func ExtractBytes(ctx context.Context, format documents.Format, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{Kind: KindIOFailure, Format: format, Err: err}
	}
	switch format {
	case documents.FormatPDF:
		return extractPDF(data)
	case documents.FormatDOCX:
		return extractDOCX(data)
	case documents.FormatPPTX:
		return extractPPTX(data)
	default:
		return "", &Error{Kind: KindUnsupportedFormat, Format: format}
	}
}

func joinLines(lines []string) string {
	out := lines[:0:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
