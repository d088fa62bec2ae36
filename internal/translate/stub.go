package translate

import (
	"context"
	"time"

	"github.com/polyglot-console/backend/internal/languages"
)

// StubTranslatorConfig configures the stub translator behavior.
type StubTranslatorConfig struct {
	// ChunkDelay simulates streaming latency between chunks.
	ChunkDelay time.Duration
	// Scripts maps a target language code to the chunk sequence its stream
	// emits. Languages without a script emit "[CODE] " followed by the input.
	Scripts map[string][]string
	// Errors maps a target language code to a terminal failure delivered
	// after its scripted chunks.
	Errors map[string]error
}

// StubTranslator is a deterministic test implementation that streams scripted
// chunks instead of calling a model.
type StubTranslator struct {
	config StubTranslatorConfig
}

func NewStubTranslator(config StubTranslatorConfig) *StubTranslator {
	return &StubTranslator{config: config}
}

func (s *StubTranslator) Name() string {
	return "stub"
}

func (s *StubTranslator) StreamTranslate(ctx context.Context, text string, target languages.Language) (<-chan Chunk, error) {
	chunks, ok := s.config.Scripts[target.Code]
	if !ok {
		chunks = []string{"[" + target.Code + "] ", text}
	}
	failure := s.config.Errors[target.Code]

	out := make(chan Chunk)
	go func() {
		defer close(out)
		for _, chunk := range chunks {
			if s.config.ChunkDelay > 0 {
				select {
				case <-time.After(s.config.ChunkDelay):
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- Chunk{Text: chunk}:
			case <-ctx.Done():
				return
			}
		}
		if failure != nil {
			select {
			case out <- Chunk{Err: failure}:
			case <-ctx.Done():
			}
		}
	}()

	return out, nil
}
