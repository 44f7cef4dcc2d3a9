package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
)

// utf8BOM is stripped from text files saved by BOM-happy editors.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextHandler reads plain text and markdown files.
type TextHandler struct{}

// NewTextHandler creates a text file handler.
func NewTextHandler() *TextHandler {
	return &TextHandler{}
}

// ExtractText reads the file as UTF-8, stripping a leading BOM.
func (h *TextHandler) ExtractText(_ context.Context, src string) (string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read text file %s: %w", src, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	return string(data), nil
}

// Metadata reports the source path, type, and file size.
func (h *TextHandler) Metadata(_ context.Context, src string) (map[string]string, error) {
	metadata := map[string]string{
		"source": src,
		"type":   "text",
	}
	if info, err := os.Stat(src); err == nil {
		metadata["size"] = strconv.FormatInt(info.Size(), 10)
	}
	return metadata, nil
}
