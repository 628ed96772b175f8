package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

const documentRels = "word/_rels/document.xml.rels"

func (x *Extractor) extractDocx(ctx context.Context, raw []byte) ([]string, error) {
	rd, err := docx.ReadDocxFromMemory(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer rd.Close()

	content := rd.Editable().GetContent()
	if int64(len(content)) > x.maxPart() {
		return nil, fmt.Errorf("word/document.xml exceeds %d bytes", x.maxPart())
	}
	doc, err := parsePart(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse word/document.xml: %w", err)
	}

	parts := make([]string, 0, len(doc.paragraphs)+len(doc.cells))
	parts = appendNonBlank(parts, doc.paragraphs...)
	parts = appendNonBlank(parts, doc.cells...)

	if len(doc.sections) == 0 {
		return parts, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// колонтитулы читаем напрямую: библиотека не отдаёт связи r:id
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	rels, err := x.readRels(zr)
	if err != nil {
		return nil, err
	}

	var header, footer string
	for _, sec := range doc.sections {
		// секция без собственного колонтитула наследует предыдущий
		if sec.header != "" {
			header = sec.header
		}
		if sec.footer != "" {
			footer = sec.footer
		}
		for _, id := range [2]string{header, footer} {
			target, ok := rels[id]
			if id == "" || !ok {
				continue
			}
			hf, err := x.readPart(zr, target)
			if err != nil {
				return nil, err
			}
			parts = appendNonBlank(parts, hf.paragraphs...)
		}
	}
	return parts, nil
}

func appendNonBlank(dst []string, src ...string) []string {
	for _, s := range src {
		if strings.TrimSpace(s) != "" {
			dst = append(dst, s)
		}
	}
	return dst
}

type relationships struct {
	Items []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
		Mode   string `xml:"TargetMode,attr"`
	} `xml:"Relationship"`
}

// readRels maps relationship IDs of the main part to zip paths.
func (x *Extractor) readRels(zr *zip.Reader) (map[string]string, error) {
	f := findFile(zr, documentRels)
	if f == nil {
		return map[string]string{}, nil
	}
	data, err := x.readFile(f)
	if err != nil {
		return nil, err
	}
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("parse %s: %w", documentRels, err)
	}
	out := make(map[string]string, len(rels.Items))
	for _, r := range rels.Items {
		if r.Mode == "External" {
			continue
		}
		target := r.Target
		if strings.HasPrefix(target, "/") {
			target = strings.TrimPrefix(target, "/")
		} else {
			target = path.Join("word", target)
		}
		out[r.ID] = target
	}
	return out, nil
}

func (x *Extractor) readPart(zr *zip.Reader, name string) (partText, error) {
	f := findFile(zr, name)
	if f == nil {
		return partText{}, fmt.Errorf("missing part %s", name)
	}
	data, err := x.readFile(f)
	if err != nil {
		return partText{}, err
	}
	pt, err := parsePart(bytes.NewReader(data))
	if err != nil {
		return partText{}, fmt.Errorf("parse %s: %w", name, err)
	}
	return pt, nil
}

var errPartTooLarge = errors.New("part too large")

func (x *Extractor) readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	limit := x.maxPart()
	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", f.Name, errPartTooLarge, limit)
	}
	return data, nil
}

func findFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}
