package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"documate/internal/documents"
)

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

func openZip(format documents.Format, data []byte) (*zip.Reader, error) {
	if len(data) == 0 {
		return nil, corrupt(format, fmt.Errorf("empty %s data", format))
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, corrupt(format, err)
	}
	return zr, nil
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func partName(f *zip.File) string {
	return strings.ReplaceAll(f.Name, "\\", "/")
}

// readText consumes tokens up to the end of the element the decoder is inside
// and returns the text of its runs. Tabs and breaks keep their layout.
func readText(d *xml.Decoder) (string, error) {
	var buf strings.Builder
	depth := 1
	inText := false
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "pPr", "rPr":
				// property blocks carry tab stops, not text
				if err := d.Skip(); err != nil {
					return "", err
				}
				depth--
			case "t":
				inText = true
			case "tab":
				buf.WriteString("\t")
			case "br", "cr":
				buf.WriteString("\n")
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				buf.Write(t)
			}
		}
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := openZip(documents.FormatDOCX, data)
	if err != nil {
		return "", err
	}

	var docPart *zip.File
	for _, f := range zr.File {
		if partName(f) == "word/document.xml" {
			docPart = f
			break
		}
	}
	if docPart == nil {
		return "", corrupt(documents.FormatDOCX, errors.New("word/document.xml not found"))
	}

	raw, err := readPart(docPart)
	if err != nil {
		return "", corrupt(documents.FormatDOCX, err)
	}

	dec := xml.NewDecoder(bytes.NewReader(raw))
	var paragraphs []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", corrupt(documents.FormatDOCX, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "p" {
			continue
		}
		text, err := readText(dec)
		if err != nil {
			return "", corrupt(documents.FormatDOCX, err)
		}
		paragraphs = append(paragraphs, text)
	}
	return joinLines(paragraphs), nil
}

func extractPPTX(data []byte) (string, error) {
	zr, err := openZip(documents.FormatPPTX, data)
	if err != nil {
		return "", err
	}

	type slidePart struct {
		num  int
		file *zip.File
	}
	var parts []slidePart
	for _, f := range zr.File {
		m := slidePartPattern.FindStringSubmatch(partName(f))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		parts = append(parts, slidePart{num: n, file: f})
	}
	if len(parts) == 0 {
		return "", corrupt(documents.FormatPPTX, errors.New("no slides found"))
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].num < parts[j].num })

	slides := make([]string, 0, len(parts))
	for _, part := range parts {
		raw, err := readPart(part.file)
		if err != nil {
			return "", corrupt(documents.FormatPPTX, fmt.Errorf("slide %d: %w", part.num, err))
		}
		var s slide
		if err := xml.Unmarshal(raw, &s); err != nil {
			return "", corrupt(documents.FormatPPTX, fmt.Errorf("slide %d: %w", part.num, err))
		}
		slides = append(slides, s.Tree.text())
	}
	return joinLines(slides), nil
}
