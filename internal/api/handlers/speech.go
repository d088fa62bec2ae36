package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/polyglot-console/backend/internal/languages"
	"github.com/polyglot-console/backend/internal/speech"
)

const maxAudioUploadSize = 20 * 1024 * 1024 // 20MB per capture

// SpeechHandler serves the one-shot speech collaborators: audio-to-text for
// voice input and text-to-speech for spoken playback of a translation.
type SpeechHandler struct {
	transcriber *speech.Transcriber
	synthesizer *speech.Synthesizer
}

func NewSpeechHandler(transcriber *speech.Transcriber, synthesizer *speech.Synthesizer) *SpeechHandler {
	return &SpeechHandler{transcriber: transcriber, synthesizer: synthesizer}
}

// Transcribe accepts a multipart audio upload and returns the recognized text.
func (h *SpeechHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUploadSize)
	if err := r.ParseMultipartForm(maxAudioUploadSize); err != nil {
		jsonError(w, "invalid or oversized upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		jsonError(w, "missing audio file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, "failed to read audio", http.StatusBadRequest)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "audio/webm"
	}

	text, err := h.transcriber.Transcribe(r.Context(), audio, mimeType)
	if err != nil {
		jsonError(w, "transcription failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	jsonResponse(w, map[string]string{"text": text}, http.StatusOK)
}

type synthesizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Synthesize returns raw audio bytes for the given text in the given target
// language's voice.
func (h *SpeechHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	lang, ok := languages.ByCode(req.Language)
	if !ok {
		jsonError(w, "unknown language: "+req.Language, http.StatusBadRequest)
		return
	}

	audio, mime, err := h.synthesizer.Synthesize(r.Context(), req.Text, lang)
	if err != nil {
		jsonError(w, "synthesis failed: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.Write(audio)
}
