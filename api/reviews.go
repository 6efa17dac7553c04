package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/manhhung3004/Gentsshop/httpclient"
)

// Reviews covers product reviews.
type Reviews struct {
	client httpclient.Client
}

// NewReviews creates the review module.
func NewReviews(c httpclient.Client) *Reviews {
	return &Reviews{client: c}
}

// List returns the reviews of a product.
func (r *Reviews) List(ctx context.Context, productID string) ([]Review, error) {
	var out struct {
		Reviews []Review `json:"reviews"`
	}
	d := httpclient.NewDescriptor(http.MethodGet, PathReviews, httpclient.WithQuery(url.Values{"id": {productID}}))
	if err := send(ctx, r.client, d, &out); err != nil {
		return nil, err
	}
	return out.Reviews, nil
}

// Create posts the caller's review. A second review by the same user
// replaces the first.
func (r *Reviews) Create(ctx context.Context, in ReviewInput) error {
	if err := preflight(in); err != nil {
		return err
	}
	return send(ctx, r.client, httpclient.NewDescriptor(http.MethodPost, PathReview, httpclient.WithJSON(in)), nil)
}

// Delete removes a review. productID is optional and scopes the delete to
// one product.
func (r *Reviews) Delete(ctx context.Context, reviewID, productID string) error {
	d := httpclient.NewDescriptor(http.MethodDelete, resource(PathReview, reviewID),
		httpclient.WithQuery(url.Values{"productId": {productID}}), route(PathReview))
	return send(ctx, r.client, d, nil)
}
