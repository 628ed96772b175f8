package extract

import (
	"encoding/xml"
	"io"
	"strings"
)

// partText is the text of one WordprocessingML part.
type partText struct {
	paragraphs []string     // абзацы верхнего уровня (body, hdr, ftr)
	cells      []string     // ячейки таблиц верхнего уровня, абзацы через \n
	sections   []sectionRef // в порядке документа
}

// sectionRef holds the default header and footer relationship IDs of a section.
type sectionRef struct {
	header string
	footer string
}

func isContainer(name string) bool {
	return name == "body" || name == "hdr" || name == "ftr"
}

// hasSuffix reports whether the element stack ends with path.
func hasSuffix(stack []string, path ...string) bool {
	if len(stack) < len(path) {
		return false
	}
	off := len(stack) - len(path)
	for i, p := range path {
		if stack[off+i] != p {
			return false
		}
	}
	return true
}

// topParagraph: a paragraph directly in the part or in a cell of a top-level table.
func topParagraph(stack []string) bool {
	n := len(stack)
	if n >= 2 && isContainer(stack[n-2]) {
		return true
	}
	return n >= 5 && hasSuffix(stack, "tbl", "tr", "tc", "p") && isContainer(stack[n-5])
}

func topCell(stack []string) bool {
	n := len(stack)
	return n >= 4 && hasSuffix(stack, "tbl", "tr", "tc") && isContainer(stack[n-4])
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// parsePart collects paragraph text the way Word shows it: runs are
// concatenated, w:tab becomes a tab and w:br/w:cr a newline. Text of
// nested paragraphs (text boxes, nested tables) is not attributed to the
// enclosing paragraph.
func parsePart(r io.Reader) (partText, error) {
	var (
		out       partText
		stack     []string
		para      *strings.Builder
		paraDepth int
		cell      []string
		inCell    bool
		sect      *sectionRef
	)
	// текст принадлежит абзацу, только если между ним и абзацем нет другого w:p
	ownRun := func() bool {
		for i := len(stack) - 1; i >= paraDepth; i-- {
			if stack[i] == "p" {
				return false
			}
		}
		return stack[len(stack)-2] == "r"
	}

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			stack = append(stack, name)
			switch name {
			case "p":
				if para == nil && topParagraph(stack) {
					para = &strings.Builder{}
					paraDepth = len(stack)
				}
			case "tab", "br", "cr":
				if para != nil && len(stack) >= 2 && ownRun() {
					if name == "tab" {
						para.WriteByte('\t')
					} else {
						para.WriteByte('\n')
					}
				}
			case "tc":
				if topCell(stack) {
					cell = cell[:0]
					inCell = true
				}
			case "sectPr":
				sect = &sectionRef{}
			case "headerReference", "footerReference":
				if sect == nil || attr(t, "type") != "default" {
					continue
				}
				if name == "headerReference" {
					sect.header = attr(t, "id")
				} else {
					sect.footer = attr(t, "id")
				}
			}
		case xml.CharData:
			if para != nil && len(stack) >= 2 && stack[len(stack)-1] == "t" && ownRun() {
				para.Write(t)
			}
		case xml.EndElement:
			switch {
			case t.Name.Local == "p" && para != nil && len(stack) == paraDepth:
				text := para.String()
				para = nil
				if inCell {
					cell = append(cell, text)
				} else {
					out.paragraphs = append(out.paragraphs, text)
				}
			case t.Name.Local == "tc" && inCell && topCell(stack):
				out.cells = append(out.cells, strings.Join(cell, "\n"))
				inCell = false
			case t.Name.Local == "sectPr" && sect != nil:
				out.sections = append(out.sections, *sect)
				sect = nil
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return out, nil
}
