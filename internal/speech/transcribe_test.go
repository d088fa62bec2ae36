package speech

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTranscribeReturnsRecognizedText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"  hello there \n"}]}}]}`)
	}))
	defer srv.Close()

	tr := NewTranscriber(func() string { return "test-key" })
	tr.baseURL = srv.URL

	text, err := tr.Transcribe(context.Background(), []byte("fake-audio"), "audio/webm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello there" {
		t.Fatalf("expected trimmed transcript, got %q", text)
	}
}

func TestTranscribeRejectsEmptyAudio(t *testing.T) {
	tr := NewTranscriber(func() string { return "test-key" })
	if _, err := tr.Transcribe(context.Background(), nil, "audio/webm"); err == nil {
		t.Fatal("expected error for empty audio")
	}
}

func TestTranscribeRequiresAPIKey(t *testing.T) {
	tr := NewTranscriber(func() string { return "" })
	if _, err := tr.Transcribe(context.Background(), []byte("x"), "audio/webm"); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestTranscribeSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded"}}`))
	}))
	defer srv.Close()

	tr := NewTranscriber(func() string { return "test-key" })
	tr.baseURL = srv.URL

	_, err := tr.Transcribe(context.Background(), []byte("x"), "audio/webm")
	if err == nil || !strings.Contains(err.Error(), "status 503") {
		t.Fatalf("expected API error with status, got %v", err)
	}
}
