package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/polyglot-console/backend/internal/languages"
)

// TTSModelResolver returns the current Gemini TTS model from settings
type TTSModelResolver func() string

// Synthesizer produces spoken audio for a translation using the Gemini TTS
// models. The voice is chosen from the target language's table entry.
type Synthesizer struct {
	keyResolver   KeyResolver
	modelResolver TTSModelResolver
	httpClient    *http.Client
	baseURL       string
}

func NewSynthesizer(keyResolver KeyResolver, modelResolver TTSModelResolver) *Synthesizer {
	return &Synthesizer{
		keyResolver:   keyResolver,
		modelResolver: modelResolver,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		baseURL: geminiAPIBase,
	}
}

func (s *Synthesizer) currentModel() string {
	if s.modelResolver != nil {
		if m := s.modelResolver(); m != "" {
			return m
		}
	}
	return "gemini-2.5-flash-preview-tts"
}

// Synthesize returns raw audio bytes and their MIME type for the given text.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, target languages.Language) ([]byte, string, error) {
	apiKey := s.keyResolver()
	if apiKey == "" {
		return nil, "", fmt.Errorf("Gemini API key not configured")
	}
	if text == "" {
		return nil, "", fmt.Errorf("empty text")
	}

	voice := target.Voice
	if voice == "" {
		voice = "Kore"
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": text},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseModalities": []string{"AUDIO"},
			"speechConfig": map[string]interface{}{
				"voiceConfig": map[string]interface{}{
					"prebuiltVoiceConfig": map[string]string{
						"voiceName": voice,
					},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, "", err
	}

	url := fmt.Sprintf("%s/%s:generateContent", s.baseURL, s.currentModel())
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("Gemini API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, string(body))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					InlineData struct {
						MimeType string `json:"mimeType"`
						Data     string `json:"data"`
					} `json:"inlineData"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return nil, "", fmt.Errorf("parse response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, "", fmt.Errorf("empty Gemini response")
	}

	inline := geminiResp.Candidates[0].Content.Parts[0].InlineData
	if inline.Data == "" {
		return nil, "", fmt.Errorf("no audio in Gemini response")
	}

	audio, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil {
		return nil, "", fmt.Errorf("decode audio: %w", err)
	}

	mime := inline.MimeType
	if mime == "" {
		mime = "audio/L16;codec=pcm;rate=24000"
	}
	return audio, mime, nil
}
