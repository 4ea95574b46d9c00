// Package extract turns resume documents into plain text.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	mimePlain = "text/plain"
	mimePDF   = "application/pdf"
	mimeDocx  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var ErrUnsupportedType = errors.New("unsupported resume file type")

// Source describes where resume text comes from.
type Source struct {
	// Name is used in error messages to give more context about the source.
	Name string
	// Value is inline resume text.
	Value string
	// File points to a PDF, DOCX or plain text resume. When set it takes
	// precedence over Value.
	File string
}

// IsEmpty reports whether the source has neither a file nor inline text.
func (s Source) IsEmpty() bool {
	return strings.TrimSpace(s.File) == "" && strings.TrimSpace(s.Value) == ""
}

// Load returns the resume text described by src. Inline values are returned
// as is. Files are read and converted with Text.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "resume"
	}

	file := strings.TrimSpace(src.File)
	if file == "" {
		return src.Value, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
	}

	text, err := Text(data)
	if err != nil {
		return "", fmt.Errorf("extracting %s from file %q: %w", name, file, err)
	}

	return text, nil
}

// Text detects the document type of data and extracts its text.
func Text(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	detected := mimetype.Detect(data)
	switch {
	case detected.Is(mimePDF):
		return pdfText(data)
	case detected.Is(mimeDocx):
		return docxText(data)
	case detected.Is(mimePlain):
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, detected.String())
	}
}

// pdfText joins the text of all pages with a space. The parser panics on some
// malformed documents, so panics are turned into errors.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}

		if content != "" {
			pages = append(pages, content)
		}
	}

	return strings.Join(pages, " "), nil
}

func docxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	return xmlText(doc.Editable().GetContent())
}

// xmlText strips WordprocessingML markup. Paragraph ends become line breaks so
// words of adjacent paragraphs do not run together.
func xmlText(content string) (string, error) {
	content = strings.ReplaceAll(content, "</w:p>", "</w:p>\n")
	content = strings.ReplaceAll(content, "<w:tab/>", " ")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse docx content: %w", err)
	}

	return doc.Text(), nil
}
