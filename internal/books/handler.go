package books

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bahikhata-erp/bahikhata/internal/platform/httpx"
)

// Handler serves ledger and voucher lookups backing the report screens.
type Handler struct {
	logger    *slog.Logger
	store     *Store
	validator *validator.Validate
}

// NewHandler constructs the books HTTP handler.
func NewHandler(logger *slog.Logger, store *Store) *Handler {
	return &Handler{
		logger:    logger,
		store:     store,
		validator: validator.New(),
	}
}

// MountRoutes registers books routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/ledgers", h.handleListLedgers)
	r.Get("/ledgers/{id}", h.handleGetLedger)
	r.Get("/vouchers", h.handleListVouchers)
}

type ledgerListQuery struct {
	Type   string `validate:"omitempty,max=64"`
	Status string `validate:"omitempty,oneof=Active Inactive"`
}

func (h *Handler) handleListLedgers(w http.ResponseWriter, r *http.Request) {
	q := ledgerListQuery{
		Type:   r.URL.Query().Get("type"),
		Status: r.URL.Query().Get("status"),
	}
	if err := h.validator.Struct(q); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	var filter LedgerFilter
	if q.Type != "" {
		t := LedgerType(q.Type)
		filter.Type = &t
	}
	if q.Status != "" {
		s := LedgerStatus(q.Status)
		filter.Status = &s
	}
	ledgers, err := h.store.Ledgers(r.Context(), filter)
	if err != nil {
		h.logger.Error("list ledgers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ledgers": ledgers})
}

func (h *Handler) handleGetLedger(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, fmt.Errorf("%w: ledger id", httpx.ErrValidation))
		return
	}
	ledger, err := h.store.FindLedger(r.Context(), id)
	if err == ErrLedgerNotFound {
		httpx.RespondError(w, fmt.Errorf("%w: ledger %d", httpx.ErrNotFound, id))
		return
	}
	if err != nil {
		h.logger.Error("find ledger", slog.Int64("ledger_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ledger)
}

type voucherListQuery struct {
	From     string `validate:"required,datetime=2006-01-02"`
	To       string `validate:"required,datetime=2006-01-02"`
	LedgerID int64  `validate:"omitempty,gt=0"`
}

func (h *Handler) handleListVouchers(w http.ResponseWriter, r *http.Request) {
	ledgerID, _ := strconv.ParseInt(r.URL.Query().Get("ledgerId"), 10, 64)
	q := voucherListQuery{
		From:     r.URL.Query().Get("from"),
		To:       r.URL.Query().Get("to"),
		LedgerID: ledgerID,
	}
	if err := h.validator.Struct(q); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %v", httpx.ErrValidation, err))
		return
	}
	from, _ := time.Parse("2006-01-02", q.From)
	to, _ := time.Parse("2006-01-02", q.To)
	to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999000000, to.Location())

	vouchers, err := h.store.Vouchers(r.Context(), VoucherFilter{From: from, To: to, LedgerID: q.LedgerID})
	if err != nil {
		h.logger.Error("list vouchers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"vouchers": vouchers})
}
