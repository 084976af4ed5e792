package numbering

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/freightdesk/freightdesk/internal/platform/httpx"
)

// Handler manages numbering admin endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers numbering routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{type}", h.get)
	r.Put("/{type}/current", h.updateCurrent)
	r.Post("/{type}/resync", h.resync)
	r.Post("/resync", h.resyncAll)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	configs, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list numbering configs", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"configs": configs})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	docType := DocType(chi.URLParam(r, "type"))
	cfg, err := h.service.Get(r.Context(), docType)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cfg)
}

type updateCurrentRequest struct {
	CurrentNumber int64 `json:"current_number"`
}

func (h *Handler) updateCurrent(w http.ResponseWriter, r *http.Request) {
	docType := DocType(chi.URLParam(r, "type"))
	var req updateCurrentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := h.service.UpdateCurrent(r.Context(), docType, req.CurrentNumber); err != nil {
		h.logger.Error("update numbering current", slog.String("type", string(docType)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"doc_type": docType, "current_number": req.CurrentNumber})
}

func (h *Handler) resync(w http.ResponseWriter, r *http.Request) {
	docType := DocType(chi.URLParam(r, "type"))
	next, err := h.service.Resync(r.Context(), docType)
	if err != nil {
		h.logger.Error("resync numbering", slog.String("type", string(docType)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"doc_type": docType, "current_number": next})
}

func (h *Handler) resyncAll(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ResyncAll(r.Context())
	if err != nil {
		h.logger.Error("resync all numbering", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"resynced": result})
}
