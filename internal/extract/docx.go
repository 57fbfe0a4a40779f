package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	docxDocumentXMLPath = "word/document.xml"
	contentTypesPath    = "[Content_Types].xml"
	docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

// contentTypes is the subset of [Content_Types].xml needed to locate the main document.
type contentTypes struct {
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(io.LimitReader(rc, MaxFileSize))
	}
	return nil, fmt.Errorf("%s not found", name)
}

// docxMainDocumentPath returns the main document part named in [Content_Types].xml,
// falling back to word/document.xml.
func docxMainDocumentPath(zr *zip.Reader) string {
	data, err := readZipFile(zr, contentTypesPath)
	if err != nil {
		return docxDocumentXMLPath
	}
	var ct contentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return docxDocumentXMLPath
	}
	for _, o := range ct.Overrides {
		if o.ContentType == docxMainContentType {
			return strings.TrimPrefix(o.PartName, "/")
		}
	}
	return docxDocumentXMLPath
}

// extractDOCX extracts the text runs of a .docx file. Runs within a paragraph
// are joined with spaces and paragraphs with newlines.
func extractDOCX(content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("extract DOCX: not a zip: %w", err)
	}
	docPath := docxMainDocumentPath(zr)
	docXML, err := readZipFile(zr, docPath)
	if err != nil {
		return "", fmt.Errorf("extract DOCX: %w", err)
	}

	var (
		out       strings.Builder
		paragraph []string
		inText    bool
	)
	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		if out.Len() > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(strings.Join(paragraph, " "))
		paragraph = paragraph[:0]
	}

	dec := xml.NewDecoder(bytes.NewReader(docXML))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("extract DOCX: parse %s: %w", docPath, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flush()
			}
		case xml.CharData:
			if inText {
				if s := strings.TrimSpace(string(t)); s != "" {
					paragraph = append(paragraph, s)
				}
			}
		}
	}
	flush()
	return strings.TrimSpace(out.String()), nil
}
