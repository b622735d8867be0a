package extract

import (
	"encoding/xml"
	"strings"
)

// textBearer is any slide element that can contribute text: shapes, table
// frames and groups of either.
type textBearer interface {
	text() string
}

type slide struct {
	Tree shapeTree `xml:"cSld>spTree"`
}

// shapeTree keeps slide elements in document order.
type shapeTree struct {
	elements []textBearer
}

func (t *shapeTree) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			var elem textBearer
			switch el.Name.Local {
			case "sp":
				var sp shape
				if err := d.DecodeElement(&sp, &el); err != nil {
					return err
				}
				elem = sp
			case "graphicFrame":
				var frame tableFrame
				if err := d.DecodeElement(&frame, &el); err != nil {
					return err
				}
				elem = frame
			case "grpSp":
				group := &shapeTree{}
				if err := d.DecodeElement(group, &el); err != nil {
					return err
				}
				elem = group
			default:
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			t.elements = append(t.elements, elem)
		case xml.EndElement:
			return nil
		}
	}
}

func (t *shapeTree) text() string {
	lines := make([]string, 0, len(t.elements))
	for _, el := range t.elements {
		lines = append(lines, el.text())
	}
	return joinLines(lines)
}

type shape struct {
	Body *textBody `xml:"txBody"`
}

func (s shape) text() string {
	if s.Body == nil {
		return ""
	}
	return s.Body.lines("\n")
}

type tableFrame struct {
	Rows []tableRow `xml:"graphic>graphicData>tbl>tr"`
}

type tableRow struct {
	Cells []textBody `xml:"tc>txBody"`
}

func (f tableFrame) text() string {
	rows := make([]string, 0, len(f.Rows))
	for _, row := range f.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, cell.lines(" "))
		}
		rows = append(rows, strings.TrimRight(strings.Join(cells, "\t"), "\t"))
	}
	return joinLines(rows)
}

type textBody struct {
	Paragraphs []paragraph `xml:"p"`
}

func (b textBody) lines(sep string) string {
	out := make([]string, 0, len(b.Paragraphs))
	for _, p := range b.Paragraphs {
		if strings.TrimSpace(p.value) != "" {
			out = append(out, p.value)
		}
	}
	return strings.Join(out, sep)
}

type paragraph struct {
	value string
}

func (p *paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	text, err := readText(d)
	if err != nil {
		return err
	}
	p.value = text
	return nil
}
