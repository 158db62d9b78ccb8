package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/websaver/internal/httpserver/deps"
)

type keywordRequest struct {
	Keyword string `json:"keyword"`
}

// AddKeyword appends a keyword to the group at {index}.
func AddKeyword(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := pathIndex(w, r, "index")
		if !ok {
			return
		}
		var req keywordRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := d.Coordinator.AddKeyword(r.Context(), index, req.Keyword); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, renderGroups(d.Coordinator.Snapshot(), d.SearchURL))
	}
}

// EditKeyword replaces keyword {k} of group {index} in place.
func EditKeyword(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := pathIndex(w, r, "index")
		if !ok {
			return
		}
		kw, ok := pathIndex(w, r, "k")
		if !ok {
			return
		}
		var req keywordRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := d.Coordinator.EditKeyword(r.Context(), index, kw, req.Keyword); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, renderGroups(d.Coordinator.Snapshot(), d.SearchURL))
	}
}

// DeleteKeyword removes keyword {k} of group {index}.
func DeleteKeyword(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := pathIndex(w, r, "index")
		if !ok {
			return
		}
		kw, ok := pathIndex(w, r, "k")
		if !ok {
			return
		}
		if err := d.Coordinator.DeleteKeyword(r.Context(), index, kw); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, renderGroups(d.Coordinator.Snapshot(), d.SearchURL))
	}
}
