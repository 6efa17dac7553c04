// Package api maps each commerce backend endpoint to one function. Every
// function builds a single descriptor, sends it through the shared client and
// decodes the payload. Errors are passed through untouched; mutating calls
// are validated before anything is sent.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"github.com/manhhung3004/Gentsshop/httpclient"
	"github.com/manhhung3004/Gentsshop/validation"
)

// MsgUnexpectedResponse is reported when a 2xx payload cannot be decoded.
const MsgUnexpectedResponse = "Unexpected response from server."

// API groups the per-resource modules over one client.
type API struct {
	Auth     *Auth
	Products *Products
	Reviews  *Reviews
	Orders   *Orders
	Users    *Users
	Payments *Payments
}

// New builds all modules over c.
func New(c httpclient.Client) *API {
	return &API{
		Auth:     NewAuth(c),
		Products: NewProducts(c),
		Reviews:  NewReviews(c),
		Orders:   NewOrders(c),
		Users:    NewUsers(c),
		Payments: NewPayments(c),
	}
}

// send forwards d and decodes the payload into out when out is non-nil.
func send(ctx context.Context, c httpclient.Client, d *httpclient.Descriptor, out any) error {
	raw, err := c.Send(ctx, d)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &httpclient.Error{Kind: httpclient.KindUnknown, Message: MsgUnexpectedResponse, Err: err}
	}
	return nil
}

// preflight rejects an invalid payload with a validation error.
func preflight(payload any) error {
	err := validation.Struct(payload)
	if err == nil {
		return nil
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		return httpclient.NewValidationError(verr.Fields)
	}
	return &httpclient.Error{Kind: httpclient.KindUnknown, Message: err.Error(), Err: err}
}

// resource joins a collection path and an escaped id.
func resource(base, id string) string {
	return base + "/" + url.PathEscape(id)
}

func route(base string) httpclient.Option {
	return httpclient.WithRoute(base + "/:id")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func addUpload(m *httpclient.Multipart, field string, u *Upload) {
	if u == nil || len(u.Data) == 0 {
		return
	}
	m.File(field, u.Filename, u.ContentType, u.Data)
}
