package reports

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bahikhata-erp/bahikhata/internal/books"
	"github.com/bahikhata-erp/bahikhata/internal/inventory"
	"github.com/bahikhata-erp/bahikhata/internal/platform/httpx"
)

const requestTimeout = 10 * time.Second

// Handler serves the report API.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the report HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers report routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/cash-book", h.handleCashBook)
	r.Get("/ledgers/{id}", h.handleLedgerStatement)
	r.Get("/ledger-abstract", h.handleLedgerAbstract)
	r.Get("/trial-balance", h.handleTrialBalance)
	r.Get("/receipts-disbursements/{layout}", h.handleReceipts)
	r.Get("/stock-register/{itemID}", h.handleStockRegister)
	r.Get("/party-statements/{id}", h.handlePartyStatement)
	r.Get("/gst-summary", h.handleGSTSummary)
}

type rangeQuery struct {
	Preset string `validate:"required,oneof=thisMonth lastMonth thisQuarter thisYear financialYear custom"`
	From   string `validate:"omitempty,datetime=2006-01-02"`
	To     string `validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) resolveRange(r *http.Request) (DateRange, error) {
	q := rangeQuery{
		Preset: r.URL.Query().Get("preset"),
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
	}
	if q.Preset == "" {
		q.Preset = string(PresetThisMonth)
	}
	if err := h.validator.Struct(q); err != nil {
		return DateRange{}, ErrInvalidDateRange
	}
	return h.service.Resolve(Preset(q.Preset), q.From, q.To)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, action string, payload any, err error) {
	if err != nil {
		h.respondError(w, r, action, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payload)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, action string, err error) {
	switch {
	case errors.Is(err, ErrInvalidDateRange), errors.Is(err, ErrInvalidStockMode):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
	case errors.Is(err, ErrNotPartyLedger):
		httpx.Problem(w, http.StatusBadRequest, "Not A Party Ledger", err.Error())
	case errors.Is(err, books.ErrLedgerNotFound), errors.Is(err, inventory.ErrItemNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, books.ErrVoucherIntegrity), errors.Is(err, books.ErrEntryBothSides):
		h.logger.Error("voucher integrity failure", slog.String("action", action), slog.Any("error", err))
		httpx.Problem(w, http.StatusUnprocessableEntity, "Books Integrity Failure", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		httpx.Problem(w, http.StatusGatewayTimeout, "Timeout", "report computation timed out")
	default:
		h.logger.Error("report failed", slog.String("action", action),
			slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func (h *Handler) handleCashBook(w http.ResponseWriter, r *http.Request) {
	rng, err := h.resolveRange(r)
	if err != nil {
		h.respondError(w, r, "cash book", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	out, err := h.service.CashBook(ctx, rng)
	h.respond(w, r, "cash book", out, err)
}

func (h *Handler) handleLedgerStatement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "ledger id must be a positive integer")
		return
	}
	rng, err := h.resolveRange(r)
	if err != nil {
		h.respondError(w, r, "ledger statement", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	out, err := h.service.LedgerStatement(ctx, id, rng)
	h.respond(w, r, "ledger statement", out, err)
}

func (h *Handler) handleLedgerAbstract(w http.ResponseWriter, r *http.Request) {
	rng, err := h.resolveRange(r)
	if err != nil {
		h.respondError(w, r, "ledger abstract", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	out, err := h.service.LedgerAbstract(ctx, rng)
	h.respond(w, r, "ledger abstract", out, err)
}

func (h *Handler) handleTrialBalance(w http.ResponseWriter, r *http.Request) {
	rng, err := h.resolveRange(r)
	if err != nil {
		h.respondError(w, r, "trial balance", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	out, err := h.service.TrialBalance(ctx, rng)
	h.respond(w, r, "trial balance", out, err)
}

func (h *Handler) handleReceipts(w http.ResponseWriter, r *http.Request) {
	rng, err := h.resolveRange(r)
	if err != nil {
		h.respondError(w, r, "receipts disbursements", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	var out any
	switch layout := chi.URLParam(r, "layout"); layout {
	case "single":
		out, err = h.service.ReceiptsSingle(ctx, rng)
	case "daily":
		out, err = h.service.ReceiptsDaily(ctx, rng)
	case "classified":
		out, err = h.service.ReceiptsClassified(ctx, rng)
	case "ledger-wise":
		out, err = h.service.ReceiptsLedgerWise(ctx, rng)
	case "monthly":
		out, err = h.service.ReceiptsMonthly(ctx, rng)
	default:
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "unknown layout "+layout)
		return
	}
	h.respond(w, r, "receipts disbursements", out, err)
}

func (h *Handler) handleStockRegister(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "itemID")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "item id must be a positive integer")
		return
	}
	mode := StockMode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = StockModeDay
	}
	rng, err := h.resolveRange(r)
	if err != nil {
		h.respondError(w, r, "stock register", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	out, err := h.service.StockRegister(ctx, id, mode, rng)
	h.respond(w, r, "stock register", out, err)
}

func (h *Handler) handlePartyStatement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "ledger id must be a positive integer")
		return
	}
	rng, err := h.resolveRange(r)
	if err != nil {
		h.respondError(w, r, "party statement", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	out, err := h.service.PartyStatement(ctx, id, rng)
	h.respond(w, r, "party statement", out, err)
}

func (h *Handler) handleGSTSummary(w http.ResponseWriter, r *http.Request) {
	rng, err := h.resolveRange(r)
	if err != nil {
		h.respondError(w, r, "gst summary", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	out, err := h.service.GSTSummary(ctx, rng)
	h.respond(w, r, "gst summary", out, err)
}
