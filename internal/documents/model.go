package documents

import (
	"path/filepath"
	"strings"
	"time"
)

// Format is the document kind a reference points at.
type Format string

const (
	FormatPDF         Format = "pdf"
	FormatDOCX        Format = "docx"
	FormatPPTX        Format = "pptx"
	FormatUnsupported Format = "unsupported"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// Supported reports whether documents of this format can be extracted.
func (f Format) Supported() bool {
	switch f {
	case FormatPDF, FormatDOCX, FormatPPTX:
		return true
	default:
		return false
	}
}

// acceptsContent reports whether a sniffed content type is plausible for the format.
// Unrecognised binary content passes; text, markup and media types do not.
func (f Format) acceptsContent(mimeType string) bool {
	clean := strings.TrimSpace(strings.Split(mimeType, ";")[0])
	if clean == "application/octet-stream" {
		return true
	}
	switch f {
	case FormatPDF:
		return clean == MimePDF
	case FormatDOCX, FormatPPTX:
		return clean == "application/zip"
	default:
		return false
	}
}

// Reference is the document currently associated with an owner.
type Reference struct {
	ID         string
	OwnerID    string
	StorageKey string
	Format     Format
	FileName   string
	SizeBytes  int64
	UploadedAt time.Time
}

// DetectFormat resolves a declared MIME type (or bare extension) and file name into a Format.
// A recognised MIME type wins; generic or unknown types fall back to the file extension.
func DetectFormat(declaredType, fileName string) Format {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(declaredType, ";")[0]))
	switch clean {
	case MimePDF:
		return FormatPDF
	case MimeDOCX:
		return FormatDOCX
	case MimePPTX:
		return FormatPPTX
	}

	if f := formatFromExtension(clean); f != FormatUnsupported {
		return f
	}
	return formatFromExtension(filepath.Ext(strings.TrimSpace(fileName)))
}

func formatFromExtension(ext string) Format {
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "pdf":
		return FormatPDF
	case "docx":
		return FormatDOCX
	case "pptx":
		return FormatPPTX
	default:
		return FormatUnsupported
	}
}
