package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/websaver/internal/domain"
	"github.com/MrSnakeDoc/websaver/internal/httpserver/deps"
	"github.com/MrSnakeDoc/websaver/internal/logger"
)

// keywordView is the render model for one keyword: the stored text plus
// everything derived on the fly (never persisted).
type keywordView struct {
	Text    string `json:"text"`
	Emoji   string `json:"emoji"`
	IsURL   bool   `json:"is_url"`
	OpenURL string `json:"open_url"`
	Display string `json:"display"`
	Favicon string `json:"favicon,omitempty"`
}

type groupView struct {
	Name     string        `json:"name"`
	Color    string        `json:"color"`
	Keywords []keywordView `json:"keywords"`
}

type groupsResponse struct {
	Groups []groupView `json:"groups"`
}

func renderGroups(col domain.Collection, searchURL string) groupsResponse {
	names := make([]string, len(col))
	for i, g := range col {
		names[i] = g.Name
	}
	colors := domain.AssignColors(names)

	views := make([]groupView, len(col))
	for i, g := range col {
		kws := make([]keywordView, len(g.Keywords))
		for j, kw := range g.Keywords {
			link := domain.Classify(kw)
			kws[j] = keywordView{
				Text:    kw,
				Emoji:   domain.EmojiFor(kw),
				IsURL:   link.IsURL,
				OpenURL: domain.OpenURL(kw, searchURL),
				Display: domain.DisplayName(kw),
				Favicon: domain.FaviconURL(kw),
			}
		}
		views[i] = groupView{Name: g.Name, Color: colors[i], Keywords: kws}
	}
	return groupsResponse{Groups: views}
}

// ListGroups returns the rendered collection, optionally filtered by ?q=.
func ListGroups(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))

		var col domain.Collection
		if q == "" {
			col = d.Coordinator.Snapshot()
		} else {
			col = d.Coordinator.Search(q)
		}
		writeJSON(w, http.StatusOK, renderGroups(col, d.SearchURL))
	}
}

type groupRequest struct {
	Name string `json:"name"`
}

// CreateGroup appends a new empty group.
func CreateGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groupRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := d.Coordinator.AddGroup(r.Context(), req.Name); err != nil {
			writeDomainError(w, err)
			return
		}
		d.Logger.Info("group created", logger.String("name", req.Name))
		writeJSON(w, http.StatusCreated, renderGroups(d.Coordinator.Snapshot(), d.SearchURL))
	}
}

// RenameGroup renames the group at {index}.
func RenameGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := pathIndex(w, r, "index")
		if !ok {
			return
		}
		var req groupRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := d.Coordinator.RenameGroup(r.Context(), index, req.Name); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, renderGroups(d.Coordinator.Snapshot(), d.SearchURL))
	}
}

// DeleteGroup removes the group at {index}.
func DeleteGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := pathIndex(w, r, "index")
		if !ok {
			return
		}
		if err := d.Coordinator.DeleteGroup(r.Context(), index); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, renderGroups(d.Coordinator.Snapshot(), d.SearchURL))
	}
}

type reorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ReorderGroups moves one group to a new position, shifting the rest.
func ReorderGroups(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reorderRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := d.Coordinator.MoveGroup(r.Context(), req.From, req.To); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, renderGroups(d.Coordinator.Snapshot(), d.SearchURL))
	}
}

func pathIndex(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := chi.URLParam(r, name)
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		writeError(w, http.StatusBadRequest, "invalid index "+strconv.Quote(raw))
		return 0, false
	}
	return idx, true
}
