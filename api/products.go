package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/manhhung3004/Gentsshop/httpclient"
)

// Products covers the catalog and its admin endpoints.
type Products struct {
	client httpclient.Client
}

// NewProducts creates the product module.
func NewProducts(c httpclient.Client) *Products {
	return &Products{client: c}
}

// List returns one page of the public catalog.
func (p *Products) List(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	var out ProductPage
	d := httpclient.NewDescriptor(http.MethodGet, PathProducts, httpclient.WithQuery(q.Values()))
	if err := send(ctx, p.client, d, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns one product with its reviews.
func (p *Products) Get(ctx context.Context, id string) (*Product, error) {
	var out struct {
		Product Product `json:"product"`
	}
	d := httpclient.NewDescriptor(http.MethodGet, resource(PathProduct, id), route(PathProduct))
	if err := send(ctx, p.client, d, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// AdminList returns every product. Admin only.
func (p *Products) AdminList(ctx context.Context) ([]Product, error) {
	var out struct {
		Products []Product `json:"products"`
	}
	if err := send(ctx, p.client, httpclient.NewDescriptor(http.MethodGet, PathAdminProducts), &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// Create adds a product. Admin only.
func (p *Products) Create(ctx context.Context, in ProductInput) (*Product, error) {
	if err := preflight(in); err != nil {
		return nil, err
	}

	var out struct {
		Product Product `json:"product"`
	}
	d := httpclient.NewDescriptor(http.MethodPost, PathNewProduct, httpclient.WithMultipart(productForm(in)))
	if err := send(ctx, p.client, d, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// Update replaces a product's fields. New images replace the old ones.
func (p *Products) Update(ctx context.Context, id string, in ProductInput) (*Product, error) {
	if err := preflight(in); err != nil {
		return nil, err
	}

	var out struct {
		Product Product `json:"product"`
	}
	d := httpclient.NewDescriptor(http.MethodPut, resource(PathAdminProduct, id),
		httpclient.WithMultipart(productForm(in)), route(PathAdminProduct))
	if err := send(ctx, p.client, d, &out); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

// Delete removes a product. Admin only.
func (p *Products) Delete(ctx context.Context, id string) error {
	d := httpclient.NewDescriptor(http.MethodDelete, resource(PathAdminProduct, id), route(PathAdminProduct))
	return send(ctx, p.client, d, nil)
}

func productForm(in ProductInput) *httpclient.Multipart {
	form := httpclient.NewMultipart().
		Field("name", in.Name).
		Field("description", in.Description).
		Field("price", formatFloat(in.Price)).
		Field("category", in.Category).
		Field("stock", strconv.Itoa(in.Stock))
	for i := range in.Images {
		addUpload(form, "images", &in.Images[i])
	}
	return form
}
