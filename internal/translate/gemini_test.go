package translate

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/polyglot-console/backend/internal/languages"
)

var testTarget = languages.Language{Code: "es", Name: "Spanish"}

func newTestTranslator(url string) *GeminiTranslator {
	g := NewGeminiTranslator(func() string { return "test-key" }, nil)
	g.baseURL = url
	return g
}

func collectChunks(t *testing.T, stream <-chan Chunk) ([]string, error) {
	t.Helper()
	var texts []string
	for {
		select {
		case chunk, ok := <-stream:
			if !ok {
				return texts, nil
			}
			if chunk.Err != nil {
				return texts, chunk.Err
			}
			texts = append(texts, chunk.Text)
		case <-time.After(2 * time.Second):
			t.Fatal("stream did not terminate")
		}
	}
}

func TestStreamTranslateEmitsChunksInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":streamGenerateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("missing api key header, got %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Hola\"}]}}]}\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\" mundo\"}]}}]}\n\n")
	}))
	defer srv.Close()

	stream, err := newTestTranslator(srv.URL).StreamTranslate(context.Background(), "Hello world", testTarget)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	texts, err := collectChunks(t, stream)
	if err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if got := strings.Join(texts, ""); got != "Hola mundo" {
		t.Fatalf("expected %q, got %q (chunks %#v)", "Hola mundo", got, texts)
	}
}

func TestStreamTranslateSkipsKeepaliveLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ": keepalive\n\n")
		fmt.Fprint(w, "data:\n\n")
		fmt.Fprint(w, "data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Hola\"}]}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	stream, err := newTestTranslator(srv.URL).StreamTranslate(context.Background(), "Hello", testTarget)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	texts, err := collectChunks(t, stream)
	if err != nil {
		t.Fatalf("unexpected stream error: %v", err)
	}
	if len(texts) != 1 || texts[0] != "Hola" {
		t.Fatalf("expected single chunk %q, got %#v", "Hola", texts)
	}
}

func TestStreamTranslateAPIErrorFailsBeforeStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota"}}`))
	}))
	defer srv.Close()

	_, err := newTestTranslator(srv.URL).StreamTranslate(context.Background(), "Hello", testTarget)
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "status 429") {
		t.Fatalf("error does not carry status: %v", err)
	}
}

func TestStreamTranslateBlockedPromptFailsMidStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"promptFeedback\":{\"blockReason\":\"SAFETY\"}}\n\n")
	}))
	defer srv.Close()

	stream, err := newTestTranslator(srv.URL).StreamTranslate(context.Background(), "Hello", testTarget)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = collectChunks(t, stream)
	if err == nil || !strings.Contains(err.Error(), "SAFETY") {
		t.Fatalf("expected blocked error, got %v", err)
	}
}

func TestStreamTranslateRequiresAPIKey(t *testing.T) {
	g := NewGeminiTranslator(func() string { return "" }, nil)
	if _, err := g.StreamTranslate(context.Background(), "Hello", testTarget); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestCurrentModelFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name     string
		resolver ModelResolver
		expected string
	}{
		{name: "nil resolver", resolver: nil, expected: "gemini-2.0-flash"},
		{name: "empty resolution", resolver: func() string { return "" }, expected: "gemini-2.0-flash"},
		{name: "configured model", resolver: func() string { return "gemini-2.5-pro" }, expected: "gemini-2.5-pro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGeminiTranslator(func() string { return "k" }, tt.resolver)
			if got := g.currentModel(); got != tt.expected {
				t.Errorf("currentModel() = %q, want %q", got, tt.expected)
			}
		})
	}
}
