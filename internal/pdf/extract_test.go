package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/apperr"
)

// buildPDF writes a minimal PDF with one line of Helvetica text per page.
func buildPDF(pages []string) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, text := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestNewExtractedDocumentEmpty(t *testing.T) {
	doc := NewExtractedDocument(nil)
	assert.Equal(t, "No Title", doc.TitlePage)
	assert.Equal(t, "", doc.MainText)
	assert.Equal(t, 0, doc.PageCount())
}

func TestNewExtractedDocumentSinglePage(t *testing.T) {
	doc := NewExtractedDocument([]string{"Lecture 1"})
	assert.Equal(t, "Lecture 1", doc.TitlePage)
	assert.Equal(t, "", doc.MainText)
}

func TestNewExtractedDocumentManyPages(t *testing.T) {
	doc := NewExtractedDocument([]string{"cover", "intro", "body", "outro"})
	assert.Equal(t, "cover", doc.TitlePage)
	assert.Equal(t, "intro\n\nbody\n\noutro", doc.MainText)
	assert.Equal(t, 4, doc.PageCount())
}

func TestExtractReadsPagesInOrder(t *testing.T) {
	doc, err := Extract(buildPDF([]string{"Operating Systems", "Processes", "Threads"}))
	require.NoError(t, err)

	require.Equal(t, 3, doc.PageCount())
	assert.Contains(t, doc.TitlePage, "Operating Systems")
	assert.Contains(t, doc.Pages[1], "Processes")
	assert.Contains(t, doc.Pages[2], "Threads")
	assert.Equal(t, doc.Pages[1]+"\n\n"+doc.Pages[2], doc.MainText)
}

func TestExtractRejectsMalformedInput(t *testing.T) {
	_, err := Extract([]byte("definitely not a pdf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.Decode)

	_, err = Extractor{}.Extract(nil)
	assert.ErrorIs(t, err, apperr.Decode)
}
