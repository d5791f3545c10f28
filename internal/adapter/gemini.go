package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/lazycommit/lazycommit/internal/config"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// geminiAdapter implements LLMAdapter for Google Gemini via the REST API.
type geminiAdapter struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGemini creates a Gemini adapter. If apiKey is empty, GEMINI_API_KEY
// is used.
func NewGemini(apiKey, baseURL, model string) LLMAdapter {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if model == "" {
		model = config.DefaultGeminiModel
	}
	return &geminiAdapter{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

func (g *geminiAdapter) Info() ModelInfo {
	return ModelInfo{
		Name:             g.model,
		Provider:         config.ProviderGemini,
		MaxContextWindow: 1000000,
	}
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature float32 `json:"temperature"`
}

type geminiGenerateRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// sanitizeURL strips the query (which carries the API key) before a URL is
// embedded in an error message.
func sanitizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String()
}

func (g *geminiAdapter) endpoint(model string) string {
	if strings.HasSuffix(g.baseURL, ":generateContent") {
		return g.baseURL
	}
	return fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, model)
}

func (g *geminiAdapter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}

	body, err := json.Marshal(geminiGenerateRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: req.System}}},
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.User}}},
		},
		GenerationConfig: &geminiGenerationConfig{Temperature: req.Temperature},
	})
	if err != nil {
		return "", fmt.Errorf("gemini marshal: %w", err)
	}

	endpoint := g.endpoint(model) + "?" + url.Values{"key": {g.apiKey}}.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini complete: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini complete: HTTP %d from %s: %s",
			resp.StatusCode, sanitizeURL(endpoint), compactText(string(raw), 500))
	}

	var result geminiGenerateResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("gemini decode: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini complete: response has no candidates")
	}
	var chunks []string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			chunks = append(chunks, part.Text)
		}
	}
	content := strings.TrimSpace(strings.Join(chunks, "\n"))
	if content == "" {
		return "", fmt.Errorf("gemini complete: response has no text content")
	}
	return content, nil
}

func compactText(raw string, limit int) string {
	compact := strings.Join(strings.Fields(raw), " ")
	if len(compact) > limit {
		return compact[:limit]
	}
	return compact
}
