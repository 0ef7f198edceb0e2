// Package document turns uploaded files into text usable as chat context.
package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/Rrens/promptdesk/internal/domain"
	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog/log"
)

const pdfMediaType = "application/pdf"

// Extractor pulls plain text out of uploaded documents
type Extractor struct {
	maxBytes int64
}

// NewExtractor creates an extractor refusing inputs above maxBytes.
// A non-positive limit disables the check.
func NewExtractor(maxBytes int64) *Extractor {
	return &Extractor{maxBytes: maxBytes}
}

// IsPDF reports whether the declared content type names a PDF
func IsPDF(declaredType string) bool {
	mediaType, _, err := mime.ParseMediaType(declaredType)
	if err != nil {
		return false
	}
	return strings.EqualFold(mediaType, pdfMediaType)
}

// Extract returns the text of a PDF document. The declared type must say
// PDF and the bytes must look like one; anything that fails to parse is
// reported as domain.ErrUnreadableDocument.
func (e *Extractor) Extract(ctx context.Context, data []byte, declaredType string) (string, error) {
	if e.maxBytes > 0 && int64(len(data)) > e.maxBytes {
		return "", domain.ErrPayloadTooLarge
	}

	if !IsPDF(declaredType) {
		return "", fmt.Errorf("%w: declared type %q is not a PDF", domain.ErrUnreadableDocument, declaredType)
	}

	if detected := mimetype.Detect(data); !detected.Is(pdfMediaType) {
		return "", fmt.Errorf("%w: content detected as %s", domain.ErrUnreadableDocument, detected.String())
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	text, err := plainText(data)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Int("bytes", len(data)).Msg("PDF text extraction failed")
		return "", fmt.Errorf("%w: %v", domain.ErrUnreadableDocument, err)
	}

	return strings.TrimSpace(text), nil
}

// plainText guards the parser, which panics on some malformed inputs
func plainText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	content, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return "", err
	}
	return buf.String(), nil
}
