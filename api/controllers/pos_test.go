package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invenpos/invenpos-backend/internal/cart"
	"github.com/invenpos/invenpos-backend/internal/pos"
	pkgerrors "github.com/invenpos/invenpos-backend/pkg/errors"
)

type stubPOSService struct {
	order       cart.Order
	err         error
	addedID     uuid.UUID
	quantity    int
	discount    decimal.Decimal
	customer    pos.CustomerInput
	clearCalled bool
}

func (s *stubPOSService) Order(context.Context) cart.Order { return s.order }

func (s *stubPOSService) AddProduct(_ context.Context, productID uuid.UUID) (cart.Order, error) {
	s.addedID = productID
	return s.order, s.err
}

func (s *stubPOSService) SetQuantity(_ context.Context, _ uuid.UUID, quantity int) (cart.Order, error) {
	s.quantity = quantity
	return s.order, s.err
}

func (s *stubPOSService) RemoveItem(context.Context, uuid.UUID) (cart.Order, error) {
	return s.order, s.err
}

func (s *stubPOSService) SetDiscount(_ context.Context, amount decimal.Decimal) (cart.Order, error) {
	s.discount = amount
	return s.order, s.err
}

func (s *stubPOSService) SetCustomer(_ context.Context, input pos.CustomerInput) (cart.Order, error) {
	s.customer = input
	return s.order, s.err
}

func (s *stubPOSService) Clear(context.Context) cart.Order {
	s.clearCalled = true
	return cart.Order{}
}

func TestPOSAddItem(t *testing.T) {
	svc := &stubPOSService{}
	productID := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/order/items", strings.NewReader(`{"product_id":"`+productID.String()+`"}`))
	resp := httptest.NewRecorder()
	POSAddItem(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, productID, svc.addedID)
}

func TestPOSAddItemRejectsBadProductID(t *testing.T) {
	svc := &stubPOSService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/order/items", strings.NewReader(`{"product_id":"abc"}`))
	resp := httptest.NewRecorder()
	POSAddItem(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, string(pkgerrors.CodeValidation), env.Error.Code)
	assert.Equal(t, "must be a valid uuid", env.Error.Details["product_id"])
}

func TestPOSAddItemInactiveProduct(t *testing.T) {
	svc := &stubPOSService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available")}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/order/items", strings.NewReader(`{"product_id":"`+uuid.NewString()+`"}`))
	resp := httptest.NewRecorder()
	POSAddItem(svc, nil).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestPOSSetQuantityAllowsZero(t *testing.T) {
	svc := &stubPOSService{quantity: -1}
	itemID := uuid.New()

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/pos/order/items/"+itemID.String(), strings.NewReader(`{"quantity":0}`))
	req = withURLParams(req, map[string]string{"itemId": itemID.String()})
	resp := httptest.NewRecorder()
	POSSetQuantity(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 0, svc.quantity)
}

func TestPOSSetQuantityRequiresBody(t *testing.T) {
	itemID := uuid.New()

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`))
	req = withURLParams(req, map[string]string{"itemId": itemID.String()})
	resp := httptest.NewRecorder()
	POSSetQuantity(&stubPOSService{}, nil).ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPOSSetDiscount(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"amount":"5.00"}`, http.StatusOK},
		{"numeric", `{"amount":2.5}`, http.StatusOK},
		{"negative", `{"amount":"-1"}`, http.StatusBadRequest},
		{"missing", `{}`, http.StatusBadRequest},
		{"unknown field", `{"amount":"1","percent":true}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubPOSService{}
			req := httptest.NewRequest(http.MethodPut, "/api/v1/pos/order/discount", strings.NewReader(tt.body))
			resp := httptest.NewRecorder()
			POSSetDiscount(svc, nil).ServeHTTP(resp, req)
			assert.Equal(t, tt.want, resp.Code)
		})
	}
}

func TestPOSSetCustomerTrims(t *testing.T) {
	svc := &stubPOSService{}

	req := httptest.NewRequest(http.MethodPut, "/api/v1/pos/order/customer", strings.NewReader(`{"customer_id":" c-1 ","customer_name":"  Ada  "}`))
	resp := httptest.NewRecorder()
	POSSetCustomer(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, pos.CustomerInput{CustomerID: "c-1", CustomerName: "Ada"}, svc.customer)
}

func TestPOSOrderReturnsSnapshot(t *testing.T) {
	c := cart.New()
	c.AddItem(cart.Product{ID: uuid.NewString(), Name: "Classic Burger", Price: decimal.RequireFromString("8.99")})
	c.AddItem(cart.Product{ID: "ignored", Name: "Fries", Price: decimal.RequireFromString("3.49")})
	svc := &stubPOSService{order: c.Snapshot()}

	resp := httptest.NewRecorder()
	POSOrder(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/pos/order", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var order cart.Order
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &order))
	assert.Len(t, order.Items, 2)
	assert.True(t, order.Totals.Subtotal.Equal(decimal.RequireFromString("12.48")))
}

func TestPOSClear(t *testing.T) {
	svc := &stubPOSService{}
	resp := httptest.NewRecorder()
	POSClear(svc, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/v1/pos/order", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, svc.clearCalled)
}
