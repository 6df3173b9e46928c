package handler

import (
	"net/http"
	"strconv"

	"github.com/wadjakorntonsri/folio/pkg/core/domain"
	"github.com/wadjakorntonsri/folio/pkg/logger"
	"github.com/wadjakorntonsri/folio/pkg/ports"
)

type AnalyticsHandler struct {
	service ports.EngagementService
	log     logger.Logger
}

func NewAnalyticsHandler(service ports.EngagementService, log logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, log: log}
}

// Report serves the derived dashboard metrics. ?days= sets the window (default 30).
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	days, err := windowParam(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	report, err := h.service.Report(r.Context(), ProfileIDFromContext(r.Context()), days)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Events serves the raw view and click rows behind the report
func (h *AnalyticsHandler) Events(w http.ResponseWriter, r *http.Request) {
	days, err := windowParam(r)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	analytics, err := h.service.GetAnalytics(r.Context(), ProfileIDFromContext(r.Context()), days)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

func windowParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return 0, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid("days", "must be a number")
	}
	return days, nil
}
