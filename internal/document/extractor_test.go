package document

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/Rrens/promptdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF assembles a one-page PDF drawing text with Helvetica
func buildPDF(text string) []byte {
	stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtract_PDF(t *testing.T) {
	e := NewExtractor(1 << 20)

	text, err := e.Extract(context.Background(), buildPDF("Hello PDF"), "application/pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "Hello PDF")
}

func TestExtract_Fixture(t *testing.T) {
	data, err := os.ReadFile("testdata/hello.pdf")
	require.NoError(t, err)

	text, err := NewExtractor(0).Extract(context.Background(), data, "application/pdf")
	require.NoError(t, err)
	assert.Contains(t, text, "Hello PDF")
}

func TestExtract_Rejections(t *testing.T) {
	e := NewExtractor(1 << 20)
	ctx := context.Background()

	tests := []struct {
		name         string
		data         []byte
		declaredType string
		wantErr      error
	}{
		{"declared text", buildPDF("x"), "text/plain", domain.ErrUnreadableDocument},
		{"not a pdf body", []byte("just some text"), "application/pdf", domain.ErrUnreadableDocument},
		{"truncated pdf", []byte("%PDF-1.4\n1 0 obj\n<<"), "application/pdf", domain.ErrUnreadableDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Extract(ctx, tt.data, tt.declaredType)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtract_TooLarge(t *testing.T) {
	e := NewExtractor(10)

	_, err := e.Extract(context.Background(), buildPDF("big"), "application/pdf")
	assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("application/pdf"))
	assert.True(t, IsPDF("Application/PDF; name=a.pdf"))
	assert.False(t, IsPDF("image/png"))
	assert.False(t, IsPDF(""))
}
