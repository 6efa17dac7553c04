package api

import (
	"context"
	"net/http"

	"github.com/manhhung3004/Gentsshop/httpclient"
)

// Orders covers order placement and administration.
type Orders struct {
	client httpclient.Client
}

// NewOrders creates the order module.
func NewOrders(c httpclient.Client) *Orders {
	return &Orders{client: c}
}

// AdminList returns every order and the revenue total. Admin only.
func (o *Orders) AdminList(ctx context.Context) (*OrderList, error) {
	var out OrderList
	if err := send(ctx, o.client, httpclient.NewDescriptor(http.MethodGet, PathAdminOrders), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Mine returns the signed-in user's orders.
func (o *Orders) Mine(ctx context.Context) ([]Order, error) {
	var out struct {
		Orders []Order `json:"orders"`
	}
	if err := send(ctx, o.client, httpclient.NewDescriptor(http.MethodGet, PathMyOrders), &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// Get returns one order with the buyer populated.
func (o *Orders) Get(ctx context.Context, id string) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	d := httpclient.NewDescriptor(http.MethodGet, resource(PathOrder, id), route(PathOrder))
	if err := send(ctx, o.client, d, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// Create places an order.
func (o *Orders) Create(ctx context.Context, in OrderInput) (*Order, error) {
	if err := preflight(in); err != nil {
		return nil, err
	}

	var out struct {
		Order Order `json:"order"`
	}
	d := httpclient.NewDescriptor(http.MethodPost, PathNewOrder, httpclient.WithJSON(in))
	if err := send(ctx, o.client, d, &out); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// UpdateStatus moves an order to status. Admin only.
func (o *Orders) UpdateStatus(ctx context.Context, id, status string) error {
	req := OrderStatusUpdate{Status: status}
	if err := preflight(req); err != nil {
		return err
	}
	d := httpclient.NewDescriptor(http.MethodPut, resource(PathAdminOrder, id),
		httpclient.WithJSON(req), route(PathAdminOrder))
	return send(ctx, o.client, d, nil)
}

// Delete removes an order. Admin only.
func (o *Orders) Delete(ctx context.Context, id string) error {
	d := httpclient.NewDescriptor(http.MethodDelete, resource(PathAdminOrder, id), route(PathAdminOrder))
	return send(ctx, o.client, d, nil)
}
