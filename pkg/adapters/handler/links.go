package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wadjakorntonsri/folio/pkg/core/domain"
	"github.com/wadjakorntonsri/folio/pkg/logger"
	"github.com/wadjakorntonsri/folio/pkg/ports"
)

type LinkHandler struct {
	service ports.LinkService
	log     logger.Logger
}

func NewLinkHandler(service ports.LinkService, log logger.Logger) *LinkHandler {
	return &LinkHandler{service: service, log: log}
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

type moveRequest struct {
	OldIndex *int `json:"old_index"`
	NewIndex *int `json:"new_index"`
}

type linksResponse struct {
	Links []domain.Link `json:"links"`
}

func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	links, err := h.service.List(r.Context(), ProfileIDFromContext(r.Context()))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, linksResponse{Links: links})
}

func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.LinkFields
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	link, err := h.service.Add(r.Context(), ProfileIDFromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (h *LinkHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.LinkPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	link, err := h.service.Update(r.Context(), ProfileIDFromContext(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), ProfileIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LinkHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	link, err := h.service.ToggleActive(r.Context(), ProfileIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

// Reorder assigns position = index to each id in the body
func (h *LinkHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	profileID := ProfileIDFromContext(r.Context())
	if err := h.service.Reorder(r.Context(), profileID, req.IDs); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	links, err := h.service.List(r.Context(), profileID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, linksResponse{Links: links})
}

// Move relocates one link by index, as a drag-and-drop drop would
func (h *LinkHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if req.OldIndex == nil || req.NewIndex == nil {
		writeError(w, r, h.log, domain.Invalid("body", "old_index and new_index are required"))
		return
	}

	links, err := h.service.Move(r.Context(), ProfileIDFromContext(r.Context()), *req.OldIndex, *req.NewIndex)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, linksResponse{Links: links})
}
