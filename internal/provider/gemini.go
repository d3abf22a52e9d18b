package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// GeminiConfig configures the Gemini REST adapter.
type GeminiConfig struct {
	APIKey          string
	BaseURL         string
	Model           string
	MaxOutputTokens int
	Temperature     float64
	Timeout         time.Duration
}

// GeminiClient calls the Gemini generateContent endpoint directly.
type GeminiClient struct {
	apiKey          string
	baseURL         string
	model           string
	maxOutputTokens int
	temperature     float64
	client          *http.Client
}

// NewGeminiClient creates a Gemini conversational adapter.
func NewGeminiClient(cfg GeminiConfig) *GeminiClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &GeminiClient{
		apiKey:          cfg.APIKey,
		baseURL:         strings.TrimRight(baseURL, "/"),
		model:           model,
		maxOutputTokens: maxTokens,
		temperature:     cfg.Temperature,
		client:          &http.Client{Timeout: timeout},
	}
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
		Temperature     float64 `json:"temperature,omitempty"`
	} `json:"generationConfig"`
}

// geminiResponse covers the reply envelope variants seen in the wild: current
// replies nest text under content.parts, older ones expose a flat output
// field on the candidate.
type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
		Output  string        `json:"output"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Converse sends the history plus the new message and returns the first
// textual candidate of the reply.
func (c *GeminiClient) Converse(ctx context.Context, system string, history []Turn, message string) (string, error) {
	reqBody := geminiRequest{}
	if system != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: system}}}
	}
	for _, turn := range history {
		role := "user"
		if turn.Role == RoleAssistant {
			role = "model"
		}
		reqBody.Contents = append(reqBody.Contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: turn.Text}},
		})
	}
	reqBody.Contents = append(reqBody.Contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: message}},
	})
	reqBody.GenerationConfig.MaxOutputTokens = c.maxOutputTokens
	reqBody.GenerationConfig.Temperature = c.temperature

	payload, err := sonic.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope geminiResponse
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if envelope.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", envelope.Error.Code, envelope.Error.Message)
	}

	return extractCandidateText(envelope)
}

// extractCandidateText tries each known reply shape in order and returns a
// typed miss when none yields text.
func extractCandidateText(envelope geminiResponse) (string, error) {
	for _, candidate := range envelope.Candidates {
		var parts []string
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				parts = append(parts, part.Text)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ""), nil
		}
		if candidate.Output != "" {
			return candidate.Output, nil
		}
	}
	return "", ErrNoCandidates
}
