package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invenpos/invenpos-backend/api/responses"
	"github.com/invenpos/invenpos-backend/api/validators"
	"github.com/invenpos/invenpos-backend/internal/cart"
	"github.com/invenpos/invenpos-backend/internal/pos"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
	"github.com/invenpos/invenpos-backend/pkg/logger"
)

const maxCustomerFieldLen = 120

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type setDiscountRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type setCustomerRequest struct {
	CustomerID   string `json:"customer_id" validate:"max=64"`
	CustomerName string `json:"customer_name" validate:"max=120"`
}

func POSOrder(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writePOSUnavailable(w, r, logg)
			return
		}
		responses.WriteSuccess(w, svc.Order(r.Context()))
	}
}

// POSAddItem adds one unit of a catalog product, merging into an existing
// row for the same product.
func POSAddItem(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writePOSUnavailable(w, r, logg)
			return
		}

		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AddProduct(r.Context(), uuid.MustParse(body.ProductID))
		writeOrder(w, r, logg, order, err)
	}
}

// POSSetQuantity sets a row's quantity. Zero or less removes the row.
func POSSetQuantity(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writePOSUnavailable(w, r, logg)
			return
		}

		itemID, err := validators.ParseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SetQuantity(r.Context(), itemID, *body.Quantity)
		writeOrder(w, r, logg, order, err)
	}
}

func POSRemoveItem(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writePOSUnavailable(w, r, logg)
			return
		}

		itemID, err := validators.ParseUUIDParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.RemoveItem(r.Context(), itemID)
		writeOrder(w, r, logg, order, err)
	}
}

func POSSetDiscount(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writePOSUnavailable(w, r, logg)
			return
		}

		var body setDiscountRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		amount, err := validators.RequireNonNegative("amount", body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SetDiscount(r.Context(), amount)
		writeOrder(w, r, logg, order, err)
	}
}

func POSSetCustomer(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writePOSUnavailable(w, r, logg)
			return
		}

		var body setCustomerRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SetCustomer(r.Context(), pos.CustomerInput{
			CustomerID:   validators.SanitizeString(body.CustomerID, maxCustomerFieldLen),
			CustomerName: validators.SanitizeString(body.CustomerName, maxCustomerFieldLen),
		})
		writeOrder(w, r, logg, order, err)
	}
}

// POSClear abandons the open order.
func POSClear(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writePOSUnavailable(w, r, logg)
			return
		}
		responses.WriteSuccess(w, svc.Clear(r.Context()))
	}
}

func writeOrder(w http.ResponseWriter, r *http.Request, logg *logger.Logger, order cart.Order, err error) {
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, order)
}

func writePOSUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pos service unavailable"))
}
