package loader

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// loadXLSX reads the first worksheet of a .xlsx workbook. The format is a ZIP
// of XML parts; only the workbook index, its relationships, the shared string
// pool and the sheet itself are touched. Cell values come back as the literal
// strings Excel stored, including the serial numbers it uses for dates --
// typing is the normalizer's job.
func loadXLSX(path string, opt Options) (*RawTable, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %s: %w", path, err)
	}
	defer zr.Close()

	sheetPath, err := firstSheetPath(&zr.Reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	shared, err := sharedStrings(&zr.Reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sheetXML, err := zipPart(&zr.Reader, sheetPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rows, err := sheetRows(sheetXML, shared)
	if err != nil {
		return nil, fmt.Errorf("parse sheet %s: %w", sheetPath, err)
	}
	return tableFromRows(rows, opt)
}

type workbookSheet struct {
	Name string `xml:"name,attr"`
	RID  string `xml:"id,attr"`
}

// firstSheetPath resolves the ZIP path of the workbook's first sheet via the
// relationship table, falling back to the conventional sheet1.xml location.
func firstSheetPath(zr *zip.Reader) (string, error) {
	wb, err := zipPart(zr, "xl/workbook.xml")
	if err != nil {
		return "", err
	}
	var workbook struct {
		Sheets []workbookSheet `xml:"sheets>sheet"`
	}
	if err := xml.Unmarshal(wb, &workbook); err != nil {
		return "", fmt.Errorf("parse workbook: %w", err)
	}
	if len(workbook.Sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}

	rels, err := zipPart(zr, "xl/_rels/workbook.xml.rels")
	if err == nil {
		var relationships struct {
			Rels []struct {
				ID     string `xml:"Id,attr"`
				Target string `xml:"Target,attr"`
			} `xml:"Relationship"`
		}
		if err := xml.Unmarshal(rels, &relationships); err == nil {
			for _, rel := range relationships.Rels {
				if rel.ID == workbook.Sheets[0].RID && rel.Target != "" {
					return sheetZipPath(rel.Target), nil
				}
			}
		}
	}
	return "xl/worksheets/sheet1.xml", nil
}

// sheetZipPath converts a relationship target to a ZIP entry path.
// Targets may carry a leading slash or omit the xl/ prefix.
func sheetZipPath(target string) string {
	target = strings.TrimPrefix(target, "/")
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return "xl/" + target
}

// sharedStrings reads the workbook's shared string pool, which string cells
// reference by index. Missing pool means no string cells.
func sharedStrings(zr *zip.Reader) ([]string, error) {
	data, err := zipPart(zr, "xl/sharedStrings.xml")
	if err != nil {
		return nil, nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		pool []string
		buf  strings.Builder
		inT  bool
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return pool, nil
			}
			return nil, fmt.Errorf("parse shared strings: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inT = true
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inT = false
			case "si":
				pool = append(pool, buf.String())
			}
		case xml.CharData:
			if inT {
				buf.Write(el)
			}
		}
	}
}

// sheetRows streams a worksheet's <row> elements into a row matrix, resolving
// shared-string cells and honoring the A1-style cell references so that gaps
// left by empty cells keep later columns at their correct positions.
func sheetRows(sheetXML []byte, shared []string) ([][]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(sheetXML))
	var rows [][]string
	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				return rows, nil
			}
			return nil, err
		}
		el, ok := tok.(xml.StartElement)
		if !ok || el.Name.Local != "row" {
			continue
		}
		row, err := readRow(dec, shared)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// readRow reads cells until the enclosing </row>.
func readRow(dec *xml.Decoder, shared []string) ([]string, error) {
	var cur []string
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local != "c" {
				continue
			}
			var ref, typ string
			for _, a := range el.Attr {
				switch a.Name.Local {
				case "r":
					ref = a.Value
				case "t":
					typ = a.Value
				}
			}
			col := columnIndex(ref)
			if col < 0 {
				col = len(cur)
			}
			val, err := cellValue(dec, typ, shared)
			if err != nil {
				return nil, err
			}
			for len(cur) <= col {
				cur = append(cur, "")
			}
			cur[col] = val
		case xml.EndElement:
			if el.Name.Local == "row" {
				return cur, nil
			}
		}
	}
}

// cellValue reads a single <c> element's value: <v> text for plain cells,
// shared-pool lookup for t="s" cells, and <is><t> text for inline strings.
func cellValue(dec *xml.Decoder, typ string, shared []string) (string, error) {
	var val string
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Local == "v" || el.Name.Local == "t" {
				text, err := elementText(dec, el.Name.Local)
				if err != nil {
					return "", err
				}
				val = text
			}
		case xml.EndElement:
			if el.Name.Local == "c" {
				if typ == "s" {
					idx, err := strconv.Atoi(strings.TrimSpace(val))
					if err != nil || idx < 0 || idx >= len(shared) {
						return "", nil
					}
					return shared[idx], nil
				}
				return val, nil
			}
		}
	}
}

func elementText(dec *xml.Decoder, name string) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch el := tok.(type) {
		case xml.CharData:
			sb.Write(el)
		case xml.EndElement:
			if el.Name.Local == name {
				return sb.String(), nil
			}
		}
	}
}

// zipPart returns the contents of a named entry in the workbook archive.
func zipPart(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %s: %w", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("read part %s: %w", name, err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("missing part %s", name)
}

// columnIndex converts the column letters of an A1-style reference to a
// 0-based index ("C12" -> 2), or -1 when the reference is absent.
func columnIndex(ref string) int {
	idx := 0
	n := 0
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case c >= 'A' && c <= 'Z':
			idx = idx*26 + int(c-'A'+1)
			n++
		case c >= 'a' && c <= 'z':
			idx = idx*26 + int(c-'a'+1)
			n++
		default:
			i = len(ref)
		}
	}
	if n == 0 {
		return -1
	}
	return idx - 1
}
