// Package extractor turns uploaded policy files into plain policy text.
package extractor

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/ledongthuc/pdf"
	"github.com/microcosm-cc/bluemonday"

	"privlens/internal/domain"
)

// Extractor implements port.TextExtractor for pdf, html and plain text files.
type Extractor struct {
	sanitizer   *bluemonday.Policy
	mdConverter *converter.Converter
}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{
		sanitizer: bluemonday.UGCPolicy(),
		mdConverter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Extract returns the policy text held in data, choosing the decoder by the
// file extension of filename.
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if _, ok := domain.AllowedUploadTypes[ext]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, ext)
	}

	var (
		text string
		err  error
	)
	switch ext {
	case "pdf":
		text, err = extractPDF(data)
	case "html", "htm":
		text, err = e.extractHTML(data)
	default:
		text, err = extractPlain(data)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrExtractionFailed
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: reading pdf: %v", domain.ErrExtractionFailed, err)
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
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

// extractHTML sanitizes the markup and converts it to markdown so headings
// survive as "#" lines for the segmenter.
func (e *Extractor) extractHTML(data []byte) (string, error) {
	clean := e.sanitizer.SanitizeBytes(data)
	md, err := e.mdConverter.ConvertString(string(clean))
	if err != nil {
		return "", fmt.Errorf("%w: converting html: %v", domain.ErrExtractionFailed, err)
	}
	return md, nil
}

func extractPlain(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: text is not valid UTF-8", domain.ErrExtractionFailed)
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}
