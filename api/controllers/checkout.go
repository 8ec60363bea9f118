package controllers

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/invenpos/invenpos-backend/api/responses"
	"github.com/invenpos/invenpos-backend/api/validators"
	checkoutsvc "github.com/invenpos/invenpos-backend/internal/checkout"
	"github.com/invenpos/invenpos-backend/pkg/enums"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/logger"
)

type checkoutRequest struct {
	PaymentMethod  string           `json:"payment_method" validate:"required,payment_method"`
	AmountTendered *decimal.Decimal `json:"amount_tendered,omitempty"`
}

// Checkout finalizes the open order and returns the frozen transaction.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(body.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method").
				WithDetails(map[string]string{"payment_method": fmt.Sprintf("must be one of %v", enums.PaymentMethods())}))
			return
		}
		input := checkoutsvc.Input{PaymentMethod: method}
		if body.AmountTendered != nil {
			tendered, err := validators.RequireNonNegative("amount_tendered", body.AmountTendered)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.AmountTendered = &tendered
		}

		txn, err := svc.Checkout(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, txn)
	}
}
