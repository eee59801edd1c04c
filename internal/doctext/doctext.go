// Package doctext turns uploaded application documents into plain text.
//
// Extraction is best effort: a document that cannot be parsed yields an
// empty string, never an error. The review prompts tolerate empty document
// text, so a corrupt upload degrades the evaluation instead of blocking it.
package doctext

import (
	"bytes"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Extract returns the plain text of a document, dispatching on the file
// extension of name. Unknown extensions (including .txt) are decoded as
// UTF-8 with invalid byte sequences dropped.
func Extract(data []byte, name string) (text string) {
	// Some of the underlying parsers panic on malformed input.
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	if len(data) == 0 {
		return ""
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".docx":
		return extractDocx(data)
	case ".pdf":
		return extractPDF(data)
	default:
		return strings.ToValidUTF8(string(data), "")
	}
}

func extractPDF(data []byte) string {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			text = ""
		}
		pages = append(pages, text)
	}

	return strings.TrimSpace(strings.Join(pages, "\n"))
}

var (
	docxParagraphRe = regexp.MustCompile(`</w:p>`)
	docxTagRe       = regexp.MustCompile(`<[^>]+>`)
)

func extractDocx(data []byte) string {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	defer doc.Close()

	return stripDocxContent(doc.Editable().GetContent())
}

// stripDocxContent reduces raw document XML to plain text: paragraph
// boundaries become newlines, remaining tags are stripped, entities are
// unescaped.
func stripDocxContent(content string) string {
	content = docxParagraphRe.ReplaceAllString(content, "\n")
	content = docxTagRe.ReplaceAllString(content, "")
	return strings.TrimSpace(html.UnescapeString(content))
}
