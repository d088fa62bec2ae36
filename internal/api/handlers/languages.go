package handlers

import (
	"net/http"

	"github.com/polyglot-console/backend/internal/languages"
)

// LanguagesHandler exposes the static target-language table.
type LanguagesHandler struct {
	targets []languages.Language
}

func NewLanguagesHandler(targets []languages.Language) *LanguagesHandler {
	return &LanguagesHandler{targets: targets}
}

// List returns the active target languages plus everything the console could
// be configured with.
func (h *LanguagesHandler) List(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]interface{}{
		"active":    h.targets,
		"available": languages.Targets,
	}, http.StatusOK)
}
