package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/polyglot-console/backend/internal/api/middleware"
	"github.com/polyglot-console/backend/internal/console"
	"github.com/polyglot-console/backend/internal/db"
	"github.com/polyglot-console/backend/internal/languages"
	"github.com/polyglot-console/backend/internal/translate"
)

// SessionHandler runs the live console over a WebSocket: one debouncer and
// one controller per connection. Inbound messages carry the raw input text;
// outbound messages carry coalesced state snapshots as the per-language
// streams fill in.
type SessionHandler struct {
	database   *db.Database
	translator translate.StreamTranslator
	targets    []languages.Language
	window     time.Duration
	upgrader   websocket.Upgrader
}

func NewSessionHandler(database *db.Database, translator translate.StreamTranslator, targets []languages.Language, window time.Duration) *SessionHandler {
	return &SessionHandler{
		database:   database,
		translator: translator,
		targets:    targets,
		window:     window,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Cross-origin policy is enforced by the CORS middleware; the
			// upgrade itself is already behind token auth.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type string `json:"type"` // "input"
	Text string `json:"text"`
}

type outboundMessage struct {
	Type      string               `json:"type"` // "hello" or "state"
	SessionID string               `json:"session_id,omitempty"`
	Languages []languages.Language `json:"languages,omitempty"`
	State     *console.Snapshot    `json:"state,omitempty"`
}

// Serve upgrades the connection and pumps the console until the client
// disconnects.
func (h *SessionHandler) Serve(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		jsonError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[session] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.New().String()
	log.Printf("[session] %s connected (user %s)", sessionID, claims.Username)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ctrl := console.NewController(h.translator, h.targets)
	dirty := make(chan struct{}, 1)
	ctrl.OnChange(func() {
		select {
		case dirty <- struct{}{}:
		default:
		}
	})

	deb := console.NewDebouncer(h.window)
	go deb.Run(ctx)

	hello := outboundMessage{Type: "hello", SessionID: sessionID, Languages: h.targets}
	if err := conn.WriteJSON(hello); err != nil {
		log.Printf("[session] %s hello failed: %v", sessionID, err)
		return
	}

	// Stabilized input -> controller
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case text := <-deb.Out():
				ctrl.Submit(ctx, text)
			}
		}
	}()

	// State changes -> client (single writer after the hello message)
	go func() {
		var prev console.Snapshot
		for {
			select {
			case <-ctx.Done():
				return
			case <-dirty:
				snap := ctrl.Snapshot()
				msg := outboundMessage{Type: "state", State: &snap}
				if err := conn.WriteJSON(msg); err != nil {
					cancel()
					return
				}
				if prev.Streaming && !snap.Streaming && snap.Error == "" && snap.SourceText != "" {
					h.recordHistory(claims.UserID, snap)
				}
				prev = snap
			}
		}
	}()

	// Raw input from the client (this goroutine)
	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		switch msg.Type {
		case "input":
			deb.Set(msg.Text)
		default:
			log.Printf("[session] %s unknown message type %q", sessionID, msg.Type)
		}
	}

	log.Printf("[session] %s disconnected", sessionID)
}

// recordHistory persists one finished generation per target language.
func (h *SessionHandler) recordHistory(userID int64, snap console.Snapshot) {
	for code, text := range snap.Translations {
		if text == "" {
			continue
		}
		if err := h.database.AddHistoryEntry(userID, snap.SourceText, code, text); err != nil {
			log.Printf("[session] failed to record history: %v", err)
			return
		}
	}
}
