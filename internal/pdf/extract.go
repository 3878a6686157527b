// Package pdf turns PDF bytes into ordered page texts.
package pdf

import (
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/apperr"
)

// NoTitle is the title page of a document without pages.
const NoTitle = "No Title"

// pageSeparator joins the main text pages.
const pageSeparator = "\n\n"

// ExtractedDocument is the text of one PDF, in page order.
type ExtractedDocument struct {
	TitlePage string
	Pages     []string
	MainText  string
}

// NewExtractedDocument derives the title page and main text from pages: the first page is the
// title page and the remaining pages form the main text.
func NewExtractedDocument(pages []string) ExtractedDocument {
	doc := ExtractedDocument{TitlePage: NoTitle, Pages: pages}
	if len(pages) > 0 {
		doc.TitlePage = pages[0]
		doc.MainText = strings.Join(pages[1:], pageSeparator)
	}
	return doc
}

// PageCount returns the number of pages.
func (d ExtractedDocument) PageCount() int {
	return len(d.Pages)
}

// Extract parses data as a PDF and returns its pages' plain text.
func Extract(data []byte) (ExtractedDocument, error) {
	const op = "extract pdf"
	if len(data) == 0 {
		return ExtractedDocument{}, apperr.Errorf(apperr.Decode, op, "empty document")
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return ExtractedDocument{}, apperr.E(apperr.Decode, op, err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return ExtractedDocument{}, apperr.Errorf(apperr.Decode, op, "page %d: %w", i+1, err)
		}
		pages = append(pages, text)
	}
	return NewExtractedDocument(pages), nil
}

// Extractor adapts Extract to the roadmap pipeline's extractor interface.
type Extractor struct{}

func (Extractor) Extract(data []byte) (ExtractedDocument, error) {
	return Extract(data)
}
