package extract

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/zwinglabs/support-chat/internal/domain/faq"
	apperrors "github.com/zwinglabs/support-chat/pkg/errors"
)

// PDFParser extracts plain text from PDF documents.
type PDFParser struct{}

// NewPDFParser constructs the parser.
func NewPDFParser() *PDFParser {
	return &PDFParser{}
}

// ExtractText reads the document and returns its concatenated text content.
func (p *PDFParser) ExtractText(_ context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", apperrors.Wrap("unreadable_document", "document is empty", nil)
	}
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.Wrap("unreadable_document", "parse pdf", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", apperrors.Wrap("unreadable_document", "extract pdf text", err)
	}
	var buf strings.Builder
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", apperrors.Wrap("unreadable_document", "read pdf text", err)
	}
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return "", apperrors.Wrap("unreadable_document", "document contains no extractable text", nil)
	}
	return text, nil
}

var _ faq.DocumentParser = (*PDFParser)(nil)
