package api

import (
	"context"
	"net/http"

	"github.com/manhhung3004/Gentsshop/httpclient"
)

// Users covers admin user management.
type Users struct {
	client httpclient.Client
}

// NewUsers creates the user module.
func NewUsers(c httpclient.Client) *Users {
	return &Users{client: c}
}

// List returns every user.
func (u *Users) List(ctx context.Context) ([]User, error) {
	var out struct {
		Users []User `json:"users"`
	}
	if err := send(ctx, u.client, httpclient.NewDescriptor(http.MethodGet, PathAdminUsers), &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// Get returns one user.
func (u *Users) Get(ctx context.Context, id string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	d := httpclient.NewDescriptor(http.MethodGet, resource(PathAdminUser, id), route(PathAdminUser))
	if err := send(ctx, u.client, d, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Update changes a user's name, email and role.
func (u *Users) Update(ctx context.Context, id string, in UserUpdate) error {
	if err := preflight(in); err != nil {
		return err
	}
	d := httpclient.NewDescriptor(http.MethodPut, resource(PathAdminUser, id),
		httpclient.WithJSON(in), route(PathAdminUser))
	return send(ctx, u.client, d, nil)
}

// Delete removes a user.
func (u *Users) Delete(ctx context.Context, id string) error {
	d := httpclient.NewDescriptor(http.MethodDelete, resource(PathAdminUser, id), route(PathAdminUser))
	return send(ctx, u.client, d, nil)
}
