package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/folio/pkg/catalog"
	"github.com/wadjakorntonsri/folio/pkg/core/domain"
	"github.com/wadjakorntonsri/folio/pkg/logger"
	"github.com/wadjakorntonsri/folio/pkg/ports"
)

type ProfileHandler struct {
	service ports.ProfileService
	catalog *catalog.Catalog
	log     logger.Logger
}

func NewProfileHandler(service ports.ProfileService, cat *catalog.Catalog, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, catalog: cat, log: log}
}

type usernameRequest struct {
	Username string `json:"username"`
}

// Me returns the caller's profile, creating it if the session predates it
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity := domain.Identity{
		ID:    ProfileIDFromContext(r.Context()),
		Email: EmailFromContext(r.Context()),
	}

	profile, err := h.service.EnsureProfile(r.Context(), identity)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProfilePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), ProfileIDFromContext(r.Context()), patch)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) SetUsername(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	profile, err := h.service.SetUsername(r.Context(), ProfileIDFromContext(r.Context()), req.Username)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Catalog lists theme presets and link types
func (h *ProfileHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog)
}
