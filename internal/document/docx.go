// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// docxBody is the part of a .docx package holding the main text.
const docxBody = "word/document.xml"

// DocxLoader reads Office Open XML word-processing documents.
type DocxLoader struct{}

// Load implements Loader. Each w:p element becomes one line; runs of w:t
// text inside it are concatenated, w:tab becomes a tab and w:br a space.
func (DocxLoader) Load(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading docx: %w", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening docx archive: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != docxBody {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("opening %s: %w", docxBody, err)
		}
		defer rc.Close()
		return paragraphs(rc)
	}
	return "", fmt.Errorf("docx archive has no %s", docxBody)
}

func paragraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		paras  []string
		cur    strings.Builder
		inPara bool
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parsing %s: %w", docxBody, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				cur.Reset()
			case "t":
				inText = true
			case "tab":
				cur.WriteByte('\t')
			case "br":
				cur.WriteByte(' ')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if inPara {
					paras = append(paras, cur.String())
				}
				inPara = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}
	return strings.Join(paras, "\n"), nil
}
