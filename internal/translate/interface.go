package translate

import (
	"context"

	"github.com/polyglot-console/backend/internal/languages"
)

// Chunk is one incremental unit of streamed translation text. A terminal
// failure is delivered as a final chunk with Err set; normal completion
// closes the stream channel.
type Chunk struct {
	Text string
	Err  error
}

// StreamTranslator produces a lazy stream of translated text chunks for one
// target language. Chunks arrive in emission order; the stream may fail at
// any point, including before the first chunk.
type StreamTranslator interface {
	StreamTranslate(ctx context.Context, text string, target languages.Language) (<-chan Chunk, error)
	// Name returns the engine name
	Name() string
}
