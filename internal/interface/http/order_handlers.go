package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domorder "example.com/loja/internal/domain/order"
)

type customerRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
	Notes   string `json:"notes"`
}

type orderItemRequest struct {
	ID  string `json:"id" validate:"required"`
	Qty int64  `json:"qty" validate:"gt=0"`
}

type createOrderRequest struct {
	Customer customerRequest    `json:"customer" validate:"required"`
	Items    []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (a *API) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	items := make([]domorder.Item, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domorder.Item{ID: item.ID, Qty: item.Qty})
	}
	c := req.Customer
	customer := domorder.Customer{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		City:    c.City,
		State:   c.State,
		Zip:     c.Zip,
		Notes:   c.Notes,
	}

	order, err := a.checkoutSvc.Checkout(r.Context(), customer, items)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":       true,
		"message":  "Order created.",
		"order_id": order.ID,
		"totals":   mapTotals(order),
	})
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orderSvc.List(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, mapOrder(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": resp})
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := a.orderSvc.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(order))
}
