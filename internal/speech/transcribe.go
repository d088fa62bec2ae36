package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta/models"

// KeyResolver returns the current Gemini API key from settings
type KeyResolver func() string

// Transcriber converts captured audio to text using the Gemini API.
type Transcriber struct {
	keyResolver KeyResolver
	httpClient  *http.Client
	baseURL     string
	model       string
}

func NewTranscriber(keyResolver KeyResolver) *Transcriber {
	return &Transcriber{
		keyResolver: keyResolver,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		baseURL: geminiAPIBase,
		model:   "gemini-2.0-flash",
	}
}

// Transcribe sends one finished audio capture and returns the recognized text.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	apiKey := t.keyResolver()
	if apiKey == "" {
		return "", fmt.Errorf("Gemini API key not configured")
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("empty audio payload")
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{
						"inline_data": map[string]string{
							"mime_type": mimeType,
							"data":      base64.StdEncoding.EncodeToString(audio),
						},
					},
					{
						"text": "Transcribe this audio verbatim. Return only the spoken text, nothing else.",
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s:generateContent", t.baseURL, t.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	log.Printf("[speech] transcribing %d bytes of %s", len(audio), mimeType)

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("Gemini API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, string(body))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		if geminiResp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("Gemini blocked: %s", geminiResp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("empty Gemini response")
	}

	return strings.TrimSpace(geminiResp.Candidates[0].Content.Parts[0].Text), nil
}
