package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/invenpos/invenpos-backend/api/responses"
	"github.com/invenpos/invenpos-backend/api/validators"
	"github.com/invenpos/invenpos-backend/internal/receipts"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/logger"
)

const (
	receiptTextWidth     = 42
	defaultRecentReceipt = 20
	maxRecentReceipts    = 100
)

// ReceiptReader reads receipts rendered at checkout.
type ReceiptReader interface {
	Get(ctx context.Context, orderID string) (*receipts.Receipt, error)
	Recent(ctx context.Context, limit int) ([]receipts.Receipt, error)
}

// ReceiptGet returns a receipt as JSON, or as printer text with
// ?format=text.
func ReceiptGet(svc ReceiptReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "receipt service unavailable"))
			return
		}

		orderID := strings.TrimSpace(chi.URLParam(r, "orderId"))
		receipt, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		switch strings.ToLower(r.URL.Query().Get("format")) {
		case "", "json":
			responses.WriteSuccess(w, receipt)
		case "text":
			responses.WriteText(w, http.StatusOK, receipt.Text(receiptTextWidth))
		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "format must be json or text").
				WithDetails(map[string]string{"format": "must be one of [json text]"}))
		}
	}
}

// ReceiptRecent lists the latest receipts, newest first.
func ReceiptRecent(svc ReceiptReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "receipt service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultRecentReceipt, 1, maxRecentReceipts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Recent(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"receipts": list})
	}
}
