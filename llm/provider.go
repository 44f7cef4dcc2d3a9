package llm

import (
	"net/http"
	"sync"
)

// Provider defines the interface for LLM server implementations. The
// client stays provider-agnostic: URL layout, auth headers, and wire
// format all live behind this interface.
type Provider interface {
	// Name returns the provider identifier (e.g., "openai").
	Name() string

	// CompletionsURL constructs the chat completions endpoint.
	CompletionsURL(baseURL string) string

	// HealthURL constructs the server health endpoint.
	HealthURL(baseURL string) string

	// ModelsURL constructs the model listing endpoint.
	ModelsURL(baseURL string) string

	// SetHeaders adds provider-specific headers to the request.
	// apiKey may be empty for unauthenticated local servers.
	SetHeaders(req *http.Request, apiKey string)

	// BuildRequestBody creates the JSON request body for the provider.
	BuildRequestBody(model string, messages []Message, temperature float64, maxTokens int) ([]byte, error)

	// ParseResponse extracts the completion from provider-specific JSON.
	ParseResponse(body []byte) (*Response, error)

	// ParseModels extracts model identifiers from the model listing.
	ParseModels(body []byte) ([]string, error)
}

// providerRegistry holds registered providers.
var (
	providerRegistry = make(map[string]Provider)
	providerMu       sync.RWMutex
)

// RegisterProvider adds a provider to the registry.
func RegisterProvider(p Provider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	providerRegistry[p.Name()] = p
}

// GetProvider retrieves a provider by name.
func GetProvider(name string) Provider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return providerRegistry[name]
}

// ListProviders returns all registered provider names.
func ListProviders() []string {
	providerMu.RLock()
	defer providerMu.RUnlock()

	names := make([]string, 0, len(providerRegistry))
	for name := range providerRegistry {
		names = append(names, name)
	}
	return names
}
