package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wadjakorntonsri/folio/pkg/core/domain"
	"github.com/wadjakorntonsri/folio/pkg/logger"
	"github.com/wadjakorntonsri/folio/pkg/ports"
)

// PublicHandler serves the visitor-facing page and its tracking endpoints
type PublicHandler struct {
	profiles   ports.ProfileService
	engagement ports.EngagementService
	log        logger.Logger
}

func NewPublicHandler(profiles ports.ProfileService, engagement ports.EngagementService, log logger.Logger) *PublicHandler {
	return &PublicHandler{profiles: profiles, engagement: engagement, log: log}
}

type viewRequest struct {
	Referrer string `json:"referrer"`
}

type clickResponse struct {
	URL string `json:"url"`
}

func (h *PublicHandler) Page(w http.ResponseWriter, r *http.Request) {
	page, err := h.profiles.PublicPage(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// RecordView logs a page load. The referrer comes from the body when the
// page reports document.referrer, else from the Referer header.
func (h *PublicHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, h.log, err)
			return
		}
	}
	if req.Referrer == "" {
		req.Referrer = r.Referer()
	}

	page, err := h.profiles.PublicPage(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := h.engagement.RecordView(r.Context(), page.Profile.ID, r.UserAgent(), req.Referrer); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordClick logs an outbound click and returns the destination
func (h *PublicHandler) RecordClick(w http.ResponseWriter, r *http.Request) {
	link, err := h.click(r.Context(), r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, clickResponse{URL: link.URL})
}

// Redirect logs a click and sends the visitor on to the link
func (h *PublicHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	link, err := h.click(r.Context(), r)
	if err != nil {
		if domain.IsNotFound(err) {
			http.Error(w, "Link not found", http.StatusNotFound)
			return
		}
		// The click is lost but the visitor still gets where they were going.
		if link == nil {
			writeError(w, r, h.log, err)
			return
		}
		h.log.Warn("click not recorded", logger.String("link_id", link.ID), logger.Error(err))
	}
	http.Redirect(w, r, link.URL, http.StatusFound)
}

// click resolves a link that is visible on the page and records the click.
// The link is returned alongside a recording error.
func (h *PublicHandler) click(ctx context.Context, r *http.Request) (*domain.Link, error) {
	username, linkID := chi.URLParam(r, "username"), chi.URLParam(r, "id")

	page, err := h.profiles.PublicPage(ctx, username)
	if err != nil {
		return nil, err
	}

	var link *domain.Link
	for i := range page.Links {
		if page.Links[i].ID == linkID {
			link = &page.Links[i]
			break
		}
	}
	if link == nil {
		return nil, domain.NotFound("link", linkID)
	}

	if err := h.engagement.RecordClick(ctx, link.ID, page.Profile.ID, r.UserAgent()); err != nil {
		return link, err
	}
	return link, nil
}
