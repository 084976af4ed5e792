package company

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/freightdesk/freightdesk/internal/platform/httpx"
)

// Handler manages company profile endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers company routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.get)
	r.Put("/", h.update)
	r.Get("/bank-accounts", h.listBankAccounts)
	r.Post("/bank-accounts", h.addBankAccount)
	r.Delete("/bank-accounts/{id}", h.deleteBankAccount)
	r.Put("/bank-accounts/{id}/current", h.setCurrentBankAccount)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("get company profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, info)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var input InfoInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	info, err := h.service.Update(r.Context(), input)
	if err != nil {
		h.logger.Error("update company profile", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, info)
}

func (h *Handler) listBankAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListBankAccounts(r.Context())
	if err != nil {
		h.logger.Error("list bank accounts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"bank_accounts": accounts})
}

func (h *Handler) addBankAccount(w http.ResponseWriter, r *http.Request) {
	var input BankAccountInput
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	acc, err := h.service.AddBankAccount(r.Context(), input)
	if err != nil {
		h.logger.Error("add bank account", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, acc)
}

func (h *Handler) deleteBankAccount(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid bank account ID")
		return
	}
	if err := h.service.DeleteBankAccount(r.Context(), id); err != nil {
		h.logger.Error("delete bank account", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setCurrentBankAccount(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid bank account ID")
		return
	}
	if err := h.service.SetCurrentBankAccount(r.Context(), id); err != nil {
		h.logger.Error("set current bank account", slog.Int64("id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"current_bank_account_id": id})
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
