package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"code.sajari.com/docconv"
)

const (
	docxDocumentPart = "word/document.xml"
	docxRelsPart     = "word/_rels/document.xml.rels"
)

func docxPlainText(data []byte) (string, error) {
	text, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return text, nil
}

type docxRelationships struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

var fieldHyperlink = regexp.MustCompile(`HYPERLINK\s+"([^"]+)"`)

// DocxHTML renders the main document part as minimal HTML: one <p> per
// paragraph and an <a href> per hyperlink, resolved through the part's
// relationships. Field-code hyperlinks become empty anchors.
func DocxHTML(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open DOCX archive: %w", err)
	}

	var docFile, relsFile *zip.File
	for _, f := range zr.File {
		switch f.Name {
		case docxDocumentPart:
			docFile = f
		case docxRelsPart:
			relsFile = f
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%s not found", docxDocumentPart)
	}

	targets := map[string]string{}
	if relsFile != nil {
		if raw, err := readZipFile(relsFile); err == nil {
			var rels docxRelationships
			if err := xml.Unmarshal(raw, &rels); err == nil {
				for _, r := range rels.Relationships {
					if strings.HasSuffix(r.Type, "/hyperlink") {
						targets[r.ID] = r.Target
					}
				}
			}
		}
	}

	raw, err := readZipFile(docFile)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("<html><body>")
	dec := xml.NewDecoder(bytes.NewReader(raw))
	inText, inInstr := false, false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", docxDocumentPart, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				sb.WriteString("<p>")
			case "hyperlink":
				sb.WriteString("<a")
				for _, a := range t.Attr {
					if a.Name.Local == "id" {
						if target, ok := targets[a.Value]; ok {
							sb.WriteString(` href="` + html.EscapeString(target) + `"`)
						}
					}
				}
				sb.WriteString(">")
			case "t":
				inText = true
			case "instrText":
				inInstr = true
			case "br":
				sb.WriteString("<br/>")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				sb.WriteString("</p>")
			case "hyperlink":
				sb.WriteString("</a>")
			case "t":
				inText = false
			case "instrText":
				inInstr = false
			}
		case xml.CharData:
			switch {
			case inText:
				sb.WriteString(html.EscapeString(string(t)))
			case inInstr:
				if m := fieldHyperlink.FindStringSubmatch(string(t)); m != nil {
					sb.WriteString(`<a href="` + html.EscapeString(m[1]) + `"></a>`)
				}
			}
		}
	}
	sb.WriteString("</body></html>")
	return sb.String(), nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
