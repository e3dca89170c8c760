package reports

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahikhata-erp/bahikhata/internal/books"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	ledgers := &mockLedgerStore{ledgers: []books.Ledger{cashLedger()}}
	vouchers := &mockVoucherStore{vouchers: aprilVouchers()}
	svc := newBooksService(t, ledgers, vouchers)
	svc.WithNow(func() time.Time { return date(2024, time.April, 15) })

	router := chi.NewRouter()
	handler := NewHandler(discardLogger(), svc)
	router.Route("/api/reports", handler.MountRoutes)
	return router
}

func doRequest(t *testing.T, router *chi.Mux, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCashBook(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, "/api/reports/cash-book?preset=custom&from=2024-04-01&to=2024-04-30")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var book CashBook
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &book))
	assert.Equal(t, "Cash", book.LedgerName)
	assert.Equal(t, 1000.0, book.Summary.ClosingBalance)
}

func TestHandlerDefaultsToThisMonth(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, "/api/reports/cash-book")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var book CashBook
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &book))
	assert.Equal(t, "2024-04-01", book.Range.Start.Format("2006-01-02"))
}

func TestHandlerRejectsBadPreset(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, "/api/reports/trial-balance?preset=fortnight")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerRejectsBadCustomDates(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, "/api/reports/trial-balance?preset=custom&from=01-04-2024&to=2024-04-30")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerRejectsUnknownReceiptsLayout(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, "/api/reports/receipts-disbursements/weekly?preset=thisMonth")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerReceiptsLayouts(t *testing.T) {
	router := newTestRouter(t)
	for _, layout := range []string{"single", "daily", "classified", "ledger-wise", "monthly"} {
		rec := doRequest(t, router, "/api/reports/receipts-disbursements/"+layout+"?preset=thisMonth")
		assert.Equal(t, http.StatusOK, rec.Code, "layout %s: %s", layout, rec.Body.String())
	}
}

func TestHandlerLedgerStatementNotFound(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, "/api/reports/ledgers/42?preset=thisMonth")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerPartyStatementWrongType(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, "/api/reports/party-statements/1?preset=thisMonth")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerStockRegisterUnknownItem(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, "/api/reports/stock-register/5?preset=thisMonth")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerRejectsNonNumericID(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, "/api/reports/ledgers/abc?preset=thisMonth")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
