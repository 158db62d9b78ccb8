package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/websaver/internal/httpserver/deps"
)

type themeResponse struct {
	Theme string `json:"theme"`
}

// GetTheme returns the persisted theme, "light" when unset.
func GetTheme(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		theme, err := d.LocalStore.LoadTheme()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load theme")
			return
		}
		writeJSON(w, http.StatusOK, themeResponse{Theme: theme})
	}
}

// SetTheme persists the theme preference.
func SetTheme(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req themeResponse
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Theme != "light" && req.Theme != "dark" {
			writeError(w, http.StatusBadRequest, `theme must be "light" or "dark"`)
			return
		}
		if err := d.LocalStore.SaveTheme(req.Theme); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save theme")
			return
		}
		writeJSON(w, http.StatusOK, themeResponse{Theme: req.Theme})
	}
}
