package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Content is one conversation turn as the generative-language API sees it.
type Content struct {
	Role string
	Text string
}

type ClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// GeminiClient talks to the Google generative-language REST API. There is no
// client-side retry; a turn either completes or the caller rolls back.
type GeminiClient struct {
	cfg        ClientConfig
	httpClient *http.Client
}

func NewGeminiClient(cfg ClientConfig) *GeminiClient {
	return &GeminiClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate submits the full turn sequence, prior context first and the new
// input as the final element, and returns the model's reply text.
func (c *GeminiClient) Generate(ctx context.Context, contents []Content) (string, error) {
	if len(contents) == 0 {
		return "", fmt.Errorf("empty gemini contents")
	}

	reqBody := geminiRequest{Contents: make([]geminiContent, 0, len(contents))}
	for _, content := range contents {
		reqBody.Contents = append(reqBody.Contents, geminiContent{
			Role:  content.Role,
			Parts: []geminiPart{{Text: content.Text}},
		})
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal gemini request failed: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build gemini request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read gemini response failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse gemini json failed: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty gemini candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
