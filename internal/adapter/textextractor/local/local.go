// Package local extracts plain text from stored resume files without an
// external service. Supported formats: PDF, DOCX and plain text, routed by
// file extension.
package local

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/fairyhunter13/ai-mock-interviewer/internal/domain"
	"github.com/fairyhunter13/ai-mock-interviewer/pkg/textx"
)

// Extractor implements domain.TextExtractor.
type Extractor struct{}

// New constructs an Extractor.
func New() *Extractor { return &Extractor{} }

// ExtractPath reads the file and returns sanitized plain text. An
// unsupported extension is a validation error, not a fallback case.
func (e *Extractor) ExtractPath(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("op=extract.read: %w", err)
	}
	var text string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDocx(data)
	case ".txt":
		text = string(data)
	default:
		return "", fmt.Errorf("%w: unsupported extension %q", domain.ErrValidation, ext)
	}
	if err != nil {
		return "", err
	}
	return textx.CollapseWhitespace(textx.SanitizeText(text)), nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("op=extract.pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("op=extract.docx: %w", err)
	}
	defer func() { _ = doc.Close() }()
	return doc.Editable().GetContent(), nil
}
