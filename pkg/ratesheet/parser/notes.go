package parser

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Comments returns the cell comments of a sheet as "A1: text" lines in
// the order the workbook stores them.
func Comments(f *excelize.File, sheetName string) ([]string, error) {
	comments, err := f.GetComments(sheetName)
	if err != nil {
		return nil, err
	}

	var notes []string
	for _, c := range comments {
		text := c.Text
		if text == "" {
			var sb strings.Builder
			for _, run := range c.Paragraph {
				sb.WriteString(run.Text)
			}
			text = sb.String()
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		notes = append(notes, fmt.Sprintf("%s: %s", c.Cell, text))
	}
	return notes, nil
}

// TextBoxes returns the text of every drawing shape in the workbook at
// xlsxPath, keyed by sheet name. Shapes without text are skipped.
func TextBoxes(xlsxPath string) (map[string][]string, error) {
	r, err := zip.OpenReader(xlsxPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	drawings, err := sheetDrawings(&r.Reader)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]string)
	for sheetName, drawingPath := range drawings {
		data, err := readZipFile(&r.Reader, drawingPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", drawingPath, err)
		}
		if texts := shapeTexts(data); len(texts) > 0 {
			result[sheetName] = texts
		}
	}
	return result, nil
}

// sheetDrawings maps sheet names to the zip path of their drawing part.
func sheetDrawings(r *zip.Reader) (map[string]string, error) {
	result := make(map[string]string)

	workbookXML, err := readZipFile(r, "xl/workbook.xml")
	if err != nil || workbookXML == nil {
		return result, err
	}
	relsXML, err := readZipFile(r, "xl/_rels/workbook.xml.rels")
	if err != nil || relsXML == nil {
		return result, err
	}

	sheetIDs := make(map[string]string) // rId -> sheet name
	eachElement(workbookXML, "sheet", func(attrs map[string]string) {
		if attrs["name"] != "" && attrs["id"] != "" {
			sheetIDs[attrs["id"]] = attrs["name"]
		}
	})

	sheetParts := make(map[string]string) // sheet name -> part path
	eachElement(relsXML, "Relationship", func(attrs map[string]string) {
		if name, ok := sheetIDs[attrs["Id"]]; ok && strings.HasSuffix(attrs["Type"], "/worksheet") {
			sheetParts[name] = resolvePart("xl", attrs["Target"])
		}
	})

	for name, part := range sheetParts {
		dir, file := path.Split(part)
		sheetRels, err := readZipFile(r, path.Join(dir, "_rels", file+".rels"))
		if err != nil {
			return nil, err
		}
		if sheetRels == nil {
			continue
		}
		eachElement(sheetRels, "Relationship", func(attrs map[string]string) {
			if strings.HasSuffix(attrs["Type"], "/drawing") {
				result[name] = resolvePart(path.Dir(part), attrs["Target"])
			}
		})
	}
	return result, nil
}

// shapeTexts collects the text of each sp element of a drawing part,
// joining paragraphs with newlines.
func shapeTexts(data []byte) []string {
	var texts []string
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sp" {
			if text := readShapeText(decoder); text != "" {
				texts = append(texts, text)
			}
		}
	}
	return texts
}

func readShapeText(decoder *xml.Decoder) string {
	var paragraphs []string
	var current strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "t" {
				if txt, err := readElementText(decoder); err == nil {
					current.WriteString(txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "p" {
				if p := strings.TrimSpace(current.String()); p != "" {
					paragraphs = append(paragraphs, p)
				}
				current.Reset()
			}
		}
	}
	return strings.Join(paragraphs, "\n")
}

func eachElement(data []byte, local string, fn func(attrs map[string]string)) {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		token, err := decoder.Token()
		if err != nil {
			return
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != local {
			continue
		}
		attrs := make(map[string]string, len(se.Attr))
		for _, a := range se.Attr {
			attrs[a.Name.Local] = a.Value
		}
		fn(attrs)
	}
}

// readZipFile returns the content of name, or nil if the archive has no
// such entry.
func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

func readElementText(decoder *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return sb.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return sb.String(), nil
}

// resolvePart resolves a relationship target against the directory of
// its source part. Absolute targets are package-rooted.
func resolvePart(baseDir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(baseDir, target))
}
