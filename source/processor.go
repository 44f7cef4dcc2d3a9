// Package source turns heterogeneous document sources (text files,
// PDFs, URLs) into plain text ready for extraction.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Document is the text and metadata pulled from one source.
type Document struct {
	// Source is the path or URL the document came from.
	Source string
	// Text is the extracted plain text.
	Text string
	// Metadata carries source-specific details (type, size, title).
	Metadata map[string]string
}

// Handler extracts text and metadata from one kind of source.
type Handler interface {
	// ExtractText pulls the plain text out of the source.
	ExtractText(ctx context.Context, source string) (string, error)

	// Metadata gathers descriptive details about the source. Metadata
	// failures should degrade to partial maps, not errors, where
	// possible.
	Metadata(ctx context.Context, source string) (map[string]string, error)
}

// Processor routes sources to handlers. URLs go to the url handler;
// files dispatch on extension, falling back to the text handler for
// unknown extensions.
type Processor struct {
	handlers map[string]Handler
}

// NewProcessor creates a processor with the default handlers
// registered: pdf, txt, text, md, and url.
func NewProcessor() *Processor {
	p := &Processor{handlers: make(map[string]Handler)}

	p.Register("pdf", NewPDFHandler())
	text := NewTextHandler()
	p.Register("txt", text)
	p.Register("text", text)
	p.Register("md", text)
	p.Register("url", NewURLHandler())

	return p
}

// Register adds or replaces the handler for a source kind.
func (p *Processor) Register(kind string, h Handler) {
	p.handlers[kind] = h
}

// Process extracts one source into a Document.
func (p *Processor) Process(ctx context.Context, src string) (*Document, error) {
	handler, err := p.handlerFor(src)
	if err != nil {
		return nil, err
	}

	text, err := handler.ExtractText(ctx, src)
	if err != nil {
		return nil, err
	}

	metadata, err := handler.Metadata(ctx, src)
	if err != nil {
		return nil, err
	}

	return &Document{
		Source:   src,
		Text:     text,
		Metadata: metadata,
	}, nil
}

// ProcessAll extracts every source, returning one result per source in
// order. A failed source contributes a nil Document and its error; the
// rest still process.
func (p *Processor) ProcessAll(ctx context.Context, sources []string) ([]*Document, []error) {
	docs := make([]*Document, len(sources))
	errs := make([]error, len(sources))
	for i, src := range sources {
		docs[i], errs[i] = p.Process(ctx, src)
	}
	return docs, errs
}

func (p *Processor) handlerFor(src string) (Handler, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		if h, ok := p.handlers["url"]; ok {
			return h, nil
		}
		return nil, fmt.Errorf("no handler registered for URLs")
	}

	ext := strings.TrimPrefix(filepath.Ext(src), ".")
	if ext == "" {
		ext = "txt"
	}

	if h, ok := p.handlers[ext]; ok {
		return h, nil
	}
	if h, ok := p.handlers["txt"]; ok {
		return h, nil
	}
	return nil, fmt.Errorf("no handler found for file type: %s", ext)
}
