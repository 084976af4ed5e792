package report

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/freightdesk/freightdesk/internal/platform/httpx"
	"github.com/freightdesk/freightdesk/internal/shared"
)

// Handler manages report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	client  *Client
}

// NewHandler creates a report handler.
func NewHandler(logger *slog.Logger, service *Service, client *Client) *Handler {
	return &Handler{logger: logger, service: service, client: client}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ping", h.ping)
	r.Get("/consignment-notes/{id}", h.consignmentNote)
	r.Get("/invoices/{id}", h.taxInvoice)
	r.Get("/ledgers/{customerID}", h.ledgerStatement)
}

func (h *Handler) ping(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Ping(r.Context()); err != nil {
		h.logger.Warn("gotenberg ping failed", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) consignmentNote(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ID")
		return
	}
	pdf, filename, err := h.service.ConsignmentNotePDF(r.Context(), id)
	if err != nil {
		h.logger.Error("render consignment note", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	writePDF(w, filename, pdf)
}

func (h *Handler) taxInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ID")
		return
	}
	pdf, filename, err := h.service.TaxInvoicePDF(r.Context(), id)
	if err != nil {
		h.logger.Error("render tax invoice", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	writePDF(w, filename, pdf)
}

func (h *Handler) ledgerStatement(w http.ResponseWriter, r *http.Request) {
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
	pdf, filename, err := h.service.LedgerStatementPDF(r.Context(), customerID, filter)
	if err != nil {
		h.logger.Error("render ledger statement", slog.Int64("customer_id", customerID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	writePDF(w, filename, pdf)
}

func writePDF(w http.ResponseWriter, filename string, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
