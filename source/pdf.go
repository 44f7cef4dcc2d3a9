package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFHandler extracts plain text from PDF files page by page.
type PDFHandler struct{}

// NewPDFHandler creates a PDF handler.
func NewPDFHandler() *PDFHandler {
	return &PDFHandler{}
}

// ExtractText pulls text from every page. Pages that fail to parse are
// skipped; an entirely image-based PDF yields a placeholder rather
// than an error so the extraction run can report it downstream.
func (h *PDFHandler) ExtractText(_ context.Context, src string) (string, error) {
	content, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF file %s: %w", src, err)
	}

	reader, err := pdf.NewReader(newBytesReaderAt(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open PDF %s: %w", src, err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		if text != "" {
			if sb.Len() > 0 {
				sb.WriteString("\n\n---\n\n") // Page separator
			}
			sb.WriteString(text)
		}
	}

	extracted := sb.String()
	if extracted == "" {
		extracted = fmt.Sprintf("[PDF document with %d pages - no text content extracted]", numPages)
	}

	return extracted, nil
}

// Metadata reports the source path, type, and file size.
func (h *PDFHandler) Metadata(_ context.Context, src string) (map[string]string, error) {
	metadata := map[string]string{
		"source": src,
		"type":   "pdf",
	}
	if info, err := os.Stat(src); err == nil {
		metadata["size"] = strconv.FormatInt(info.Size(), 10)
	}
	return metadata, nil
}

// bytesReaderAt implements io.ReaderAt for a byte slice.
type bytesReaderAt struct {
	data []byte
}

func newBytesReaderAt(data []byte) *bytesReaderAt {
	return &bytesReaderAt{data: data}
}

func (r *bytesReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset")
	}
	if off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n = copy(p, r.data[off:])
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}
