package ledger

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/freightdesk/freightdesk/internal/platform/httpx"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// Handler manages ledger endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/client/{customerID}", h.clientLedger)
	r.Get("/company", h.companyLedger)
}

func (h *Handler) clientLedger(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.ParseInt(chi.URLParam(r, "customerID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid customer ID")
		return
	}
	filter, err := shared.ParseDateRange(r.URL.Query())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	data, err := h.service.ClientLedger(r.Context(), customerID, filter)
	if err != nil {
		h.logger.Error("build client ledger", slog.Int64("customer_id", customerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=ledger-%d.csv", customerID))
		if err := WriteCSV(w, data); err != nil {
			h.logger.Error("write ledger csv", slog.Any("error", err))
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=ledger-%d.xlsx", customerID))
		if err := WriteXLSX(w, data); err != nil {
			h.logger.Error("write ledger xlsx", slog.Any("error", err))
		}
	default:
		httpx.JSON(w, http.StatusOK, data)
	}
}

func (h *Handler) companyLedger(w http.ResponseWriter, r *http.Request) {
	filter, err := shared.ParseDateRange(r.URL.Query())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	data, err := h.service.CompanyLedger(r.Context(), filter)
	if err != nil {
		h.logger.Error("build company ledger", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, data)
}
