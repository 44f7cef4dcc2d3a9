package source_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/kgraph/source"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
<title>Acme Announces Results</title>
<meta name="description" content="Quarterly results from Acme">
<meta name="author" content="Jane Reporter">
<meta name="keywords" content="acme, finance">
</head>
<body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<article>
<h1>Acme Announces Results</h1>
<p>Acme Corporation reported strong quarterly results today. Revenue grew by
twelve percent compared to the same quarter last year, driven by demand for
its flagship widget line across all regions.</p>
<p>The chief executive said the company expects continued growth through the
rest of the fiscal year and announced plans to expand the Berlin office.</p>
</article>
<footer>Copyright Acme</footer>
</body>
</html>`

func articleServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(articleHTML))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestURLHandler_ExtractText(t *testing.T) {
	server := articleServer(t)
	h := source.NewURLHandler()

	text, err := h.ExtractText(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Acme Corporation reported strong quarterly results")
	assert.Contains(t, text, "Berlin office")
}

func TestURLHandler_Metadata(t *testing.T) {
	server := articleServer(t)
	h := source.NewURLHandler()

	metadata, err := h.Metadata(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, server.URL, metadata["source"])
	assert.Equal(t, "url", metadata["type"])
	assert.Equal(t, "Acme Announces Results", metadata["title"])
	assert.Equal(t, "Quarterly results from Acme", metadata["description"])
	assert.Equal(t, "Jane Reporter", metadata["author"])
	assert.Equal(t, "acme, finance", metadata["keywords"])
}

func TestURLHandler_Metadata_FetchFailureDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	h := source.NewURLHandler()
	metadata, err := h.Metadata(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "url", metadata["type"])
	assert.NotContains(t, metadata, "title")
}

func TestURLHandler_ExtractText_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	h := source.NewURLHandler()
	_, err := h.ExtractText(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestProcessor_RoutesURLs(t *testing.T) {
	server := articleServer(t)

	p := source.NewProcessor()
	doc, err := p.Process(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "url", doc.Metadata["type"])
	assert.Contains(t, doc.Text, "quarterly results")
}
