package translate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/polyglot-console/backend/internal/languages"
)

const geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta/models"

// KeyResolver returns the current Gemini API key from settings
type KeyResolver func() string

// ModelResolver returns the current Gemini model from settings
type ModelResolver func() string

// GeminiTranslator streams translations from the Google Gemini API using the
// streamGenerateContent endpoint with server-sent events.
type GeminiTranslator struct {
	keyResolver   KeyResolver
	modelResolver ModelResolver // dynamically resolves model from DB
	httpClient    *http.Client
	baseURL       string
}

func NewGeminiTranslator(keyResolver KeyResolver, modelResolver ModelResolver) *GeminiTranslator {
	return &GeminiTranslator{
		keyResolver:   keyResolver,
		modelResolver: modelResolver,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		baseURL: geminiAPIBase,
	}
}

func (g *GeminiTranslator) Name() string {
	return "gemini"
}

func (g *GeminiTranslator) currentModel() string {
	if g.modelResolver != nil {
		if m := g.modelResolver(); m != "" {
			return m
		}
	}
	return "gemini-2.0-flash"
}

// StreamTranslate issues one streaming translation request. The returned
// channel carries text chunks in emission order and is closed when the model
// finishes; a failure mid-stream arrives as a final chunk with Err set.
func (g *GeminiTranslator) StreamTranslate(ctx context.Context, text string, target languages.Language) (<-chan Chunk, error) {
	apiKey := ""
	if g.keyResolver != nil {
		apiKey = g.keyResolver()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not configured")
	}

	model := g.currentModel()
	systemPrompt := fmt.Sprintf(
		"You are a professional simultaneous interpreter. Translate the user's text into %s. "+
			"Return ONLY the translation, with no preamble, notes, or quotation marks.",
		target.Name,
	)

	reqBody := map[string]interface{}{
		"system_instruction": map[string]interface{}{
			"parts": []map[string]string{
				{"text": systemPrompt},
			},
		},
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": text},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.3,
		},
		"safetySettings": []map[string]string{
			{"category": "HARM_CATEGORY_HARASSMENT", "threshold": "BLOCK_NONE"},
			{"category": "HARM_CATEGORY_HATE_SPEECH", "threshold": "BLOCK_NONE"},
			{"category": "HARM_CATEGORY_SEXUALLY_EXPLICIT", "threshold": "BLOCK_NONE"},
			{"category": "HARM_CATEGORY_DANGEROUS_CONTENT", "threshold": "BLOCK_NONE"},
			{"category": "HARM_CATEGORY_CIVIC_INTEGRITY", "threshold": "BLOCK_NONE"},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s:streamGenerateContent?alt=sse", g.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("Gemini API request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, string(body))
	}

	out := make(chan Chunk)
	go func() {
		defer close(out)
		defer resp.Body.Close()
		g.readStream(ctx, resp.Body, out)
	}()

	return out, nil
}

// readStream parses SSE data lines from the response body and forwards
// candidate text deltas as chunks.
func (g *GeminiTranslator) readStream(ctx context.Context, body io.Reader, out chan<- Chunk) {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}

		var event struct {
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
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			g.emit(ctx, out, Chunk{Err: fmt.Errorf("parse stream event: %w", err)})
			return
		}

		if event.PromptFeedback.BlockReason != "" {
			g.emit(ctx, out, Chunk{Err: fmt.Errorf("Gemini blocked: %s", event.PromptFeedback.BlockReason)})
			return
		}

		for _, cand := range event.Candidates {
			for _, part := range cand.Content.Parts {
				if part.Text == "" {
					continue
				}
				if !g.emit(ctx, out, Chunk{Text: part.Text}) {
					return
				}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		g.emit(ctx, out, Chunk{Err: fmt.Errorf("read stream: %w", err)})
	}
}

func (g *GeminiTranslator) emit(ctx context.Context, out chan<- Chunk, chunk Chunk) bool {
	select {
	case out <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
