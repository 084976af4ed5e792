package backup

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/freightdesk/freightdesk/internal/platform/httpx"
)

// Handler manages backup endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers backup routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/export", h.export)
	r.Post("/restore", h.restore)
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=freightdesk-backup-%s.json", time.Now().Format("20060102-150405")))
	if err := h.service.Export(r.Context(), w); err != nil {
		h.logger.Error("export backup", slog.Any("error", err))
	}
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Restore(r.Context(), r.Body); err != nil {
		h.logger.Error("restore backup", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"restored": true})
}
