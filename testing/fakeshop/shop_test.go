package fakeshop

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, s *Shop, method, target, token, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestLoginAndMe(t *testing.T) {
	s := New()

	status, body := do(t, s, http.MethodPost, "/api/v1/login", "", `{"email":"`+UserEmail+`","password":"`+UserPassword+`"}`)
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	status, body = do(t, s, http.MethodGet, "/api/v1/me", token, "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ann", body["user"].(map[string]any)["name"])

	status, body = do(t, s, http.MethodPost, "/api/v1/login", "", `{"email":"`+UserEmail+`","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid email or password", body["message"])
}

func TestAuthGuards(t *testing.T) {
	s := New()

	status, _ := do(t, s, http.MethodGet, "/api/v1/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := do(t, s, http.MethodGet, "/api/v1/admin/users", s.IssueToken(UserEmail), "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body["message"], "not allowed")

	token := s.IssueToken(AdminEmail)
	status, _ = do(t, s, http.MethodGet, "/api/v1/admin/users", token, "")
	assert.Equal(t, http.StatusOK, status)

	s.Revoke(token)
	status, _ = do(t, s, http.MethodGet, "/api/v1/admin/users", token, "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProductFilters(t *testing.T) {
	s := New()

	_, body := do(t, s, http.MethodGet, "/api/v1/products?keyword=jeans", "", "")
	assert.EqualValues(t, 1, body["filteredProductsCount"])
	assert.EqualValues(t, 3, body["productsCount"])

	_, body = do(t, s, http.MethodGet, "/api/v1/products?price%5Bgte%5D=50&price%5Blte%5D=200", "", "")
	assert.EqualValues(t, 2, body["filteredProductsCount"])

	_, body = do(t, s, http.MethodGet, "/api/v1/products?ratings%5Bgte%5D=4", "", "")
	assert.EqualValues(t, 1, body["filteredProductsCount"])

	status, body := do(t, s, http.MethodGet, "/api/v1/product/missing", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Product not found.", body["message"])
}

func TestFailNextAndRequests(t *testing.T) {
	s := New()
	s.FailNext(http.MethodGet, "/api/v1/products", http.StatusServiceUnavailable, "try later")

	status, body := do(t, s, http.MethodGet, "/api/v1/products", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "try later", body["message"])

	status, _ = do(t, s, http.MethodGet, "/api/v1/products", "", "")
	assert.Equal(t, http.StatusOK, status)

	assert.Len(t, s.Requests(), 2)
	last, ok := s.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "/api/v1/products", last.Path)
}

func TestReviewUpsertRecountsRatings(t *testing.T) {
	s := New()
	token := s.IssueToken(UserEmail)

	status, _ := do(t, s, http.MethodPost, "/api/v1/review", token, `{"productId":"`+ProductTee+`","rating":2,"comment":"Shrank"}`)
	require.Equal(t, http.StatusOK, status)

	_, body := do(t, s, http.MethodGet, "/api/v1/product/"+ProductTee, "", "")
	product := body["product"].(map[string]any)
	assert.EqualValues(t, 1, product["numOfReviews"])
	assert.EqualValues(t, 2, product["ratings"])
}
