package console

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/polyglot-console/backend/internal/languages"
	"github.com/polyglot-console/backend/internal/translate"
)

// Snapshot is a consistent copy of the console state for the rendering layer.
type Snapshot struct {
	Generation   uint64            `json:"generation"`
	SourceText   string            `json:"source_text"`
	Translations map[string]string `json:"translations"` // language code -> accumulated text
	Streaming    bool              `json:"streaming"`
	Error        string            `json:"error,omitempty"`
}

// Controller fans a stabilized input out into one streaming translation per
// target language and owns the aggregate state those streams merge into: the
// per-language accumulators, the streaming flag and the one-shot error slot.
//
// All mutations are serialized by mu, and every merge of stream output is
// generation-checked immediately before it is applied. Streams of superseded
// generations keep running (their context is cancelled as a courtesy, but
// correctness does not depend on it) and have their effects dropped at the
// merge point.
type Controller struct {
	translator translate.StreamTranslator
	targets    []languages.Language

	guard generationGuard

	mu        sync.Mutex
	source    string
	text      map[string]string
	streaming bool
	errMsg    string
	cancel    context.CancelFunc

	onChange func()
}

func NewController(translator translate.StreamTranslator, targets []languages.Language) *Controller {
	c := &Controller{
		translator: translator,
		targets:    targets,
		text:       make(map[string]string, len(targets)),
	}
	for _, lang := range targets {
		c.text[lang.Code] = ""
	}
	return c
}

// Targets returns the fixed set of target languages.
func (c *Controller) Targets() []languages.Language {
	return c.targets
}

// OnChange registers a callback invoked after every accepted state change.
// Must be set before the first Submit.
func (c *Controller) OnChange(fn func()) {
	c.onChange = fn
}

// Submit begins a new generation for the given input text and returns once
// the per-language streams are launched. Empty or whitespace-only input
// resets the state and launches nothing. Results arrive asynchronously; read
// them via Snapshot after an OnChange notification.
func (c *Controller) Submit(ctx context.Context, text string) {
	gen := c.guard.begin()

	c.mu.Lock()
	if !c.guard.isCurrent(gen) {
		// A newer Submit raced past us and owns the state now.
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.source = text
	for code := range c.text {
		c.text[code] = ""
	}
	c.errMsg = ""

	if strings.TrimSpace(text) == "" {
		c.source = ""
		c.streaming = false
		c.mu.Unlock()
		c.notify()
		return
	}

	c.streaming = true
	genCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	c.notify()

	var wg sync.WaitGroup
	for _, lang := range c.targets {
		wg.Add(1)
		go func(lang languages.Language) {
			defer wg.Done()
			c.consumeStream(genCtx, gen, text, lang)
		}(lang)
	}
	go func() {
		wg.Wait()
		c.settle(gen)
	}()
}

// Snapshot returns a consistent copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	translations := make(map[string]string, len(c.text))
	for code, t := range c.text {
		translations[code] = t
	}
	return Snapshot{
		Generation:   c.guard.current.Load(),
		SourceText:   c.source,
		Translations: translations,
		Streaming:    c.streaming,
		Error:        c.errMsg,
	}
}

// consumeStream drains one language's chunk stream into the accumulator.
// Chunk order within the stream is preserved; a terminal failure is reported
// in aggregate without disturbing sibling streams.
func (c *Controller) consumeStream(ctx context.Context, gen uint64, text string, lang languages.Language) {
	stream, err := c.translator.StreamTranslate(ctx, text, lang)
	if err != nil {
		c.failStream(gen, lang, err)
		return
	}
	for chunk := range stream {
		if chunk.Err != nil {
			c.failStream(gen, lang, chunk.Err)
			return
		}
		c.applyChunk(gen, lang, chunk.Text)
	}
}

func (c *Controller) applyChunk(gen uint64, lang languages.Language, text string) {
	c.mu.Lock()
	if !c.guard.isCurrent(gen) {
		c.mu.Unlock()
		return
	}
	c.text[lang.Code] += text
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) failStream(gen uint64, lang languages.Language, err error) {
	c.mu.Lock()
	if !c.guard.isCurrent(gen) {
		c.mu.Unlock()
		return
	}
	log.Printf("[console] stream failed (gen %d, lang %s): %v", gen, lang.Code, err)
	c.errMsg = "translation failed for " + lang.Name
	c.mu.Unlock()
	c.notify()
}

// settle clears the streaming flag once every stream of gen has terminated.
// If a newer generation has started it owns the flag and this is a no-op.
func (c *Controller) settle(gen uint64) {
	c.mu.Lock()
	if !c.guard.isCurrent(gen) {
		c.mu.Unlock()
		return
	}
	c.streaming = false
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}
