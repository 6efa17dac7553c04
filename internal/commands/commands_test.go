package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manhhung3004/Gentsshop/api"
	"github.com/manhhung3004/Gentsshop/app"
	"github.com/manhhung3004/Gentsshop/config"
	"github.com/manhhung3004/Gentsshop/credentials"
	"github.com/manhhung3004/Gentsshop/httpclient"
	"github.com/manhhung3004/Gentsshop/logger"
	"github.com/manhhung3004/Gentsshop/testing/fakeshop"
)

type harness struct {
	shop    *fakeshop.Shop
	cfg     *config.Config
	backend *credentials.MemoryBackend
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	shop, baseURL := fakeshop.Start(t)
	cfg, err := config.LoadFromBytes([]byte("api:\n  baseurl: " + baseURL + "\nretry:\n  initialdelay: 1ms\n"))
	require.NoError(t, err)
	return &harness{shop: shop, cfg: cfg, backend: credentials.NewMemoryBackend()}
}

// run executes one command line. The credential backend is shared between
// runs, as the file backend would be between processes.
func (h *harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand("test",
		app.WithConfigLoader(func() (*config.Config, error) { return h.cfg, nil }),
		app.WithLogger(logger.Nop()),
		app.WithBackend(h.backend),
	)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLoginMeLogout(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "login", "--email", fakeshop.UserEmail, "--password", fakeshop.UserPassword)
	require.NoError(t, err)
	assert.Contains(t, out, api.MsgLoginSuccess)
	assert.Contains(t, out, `"name": "Ann"`)

	out, err = h.run(t, "", "me", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "email: "+fakeshop.UserEmail)

	out, err = h.run(t, "", "orders", "mine")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)

	out, err = h.run(t, "", "logout")
	require.NoError(t, err)
	assert.Equal(t, api.MsgLogoutSuccess+"\n", out)

	_, err = h.run(t, "", "me")
	assert.ErrorIs(t, err, credentials.ErrNoCredential)
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, fakeshop.AdminPassword+"\n", "login", "-e", fakeshop.AdminEmail)
	require.NoError(t, err)
	assert.Contains(t, out, `"role": "admin"`)

	_, err = h.run(t, "", "login", "-e", fakeshop.AdminEmail)
	assert.EqualError(t, err, "password is required")
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "", "login", "-e", fakeshop.UserEmail, "-p", "wrong-pass")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.ErrorIs(t, err, httpclient.ErrUnauthorized)
}

func TestProductsList(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "products", "list", "--keyword", "tee", "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Classic Tee")
	assert.NotContains(t, out, "Slim Jeans")

	last, ok := h.shop.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "keyword=tee", last.Query)

	_, err = h.run(t, "", "products", "list", "--min-price", "10", "--max-price", "60")
	require.NoError(t, err)
	last, _ = h.shop.LastRequest()
	assert.Contains(t, last.Query, "price%5Bgte%5D=10")
	assert.Contains(t, last.Query, "price%5Blte%5D=60")

	out, err = h.run(t, "", "products", "list", "--min-price", "10")
	require.NoError(t, err)
	last, _ = h.shop.LastRequest()
	assert.Contains(t, last.Query, "price%5Bgte%5D=10")
	assert.Contains(t, last.Query, "price%5Blte%5D=1000000")
	assert.Contains(t, out, "Slim Jeans")
}

func TestProductsGet(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "products", "get", fakeshop.ProductWatch)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Field Watch"`)

	_, err = h.run(t, "", "products", "get", "missing")
	assert.ErrorIs(t, err, httpclient.ErrNotFound)
	assert.Equal(t, "Product not found.", err.Error())

	_, err = h.run(t, "", "products", "get")
	assert.EqualError(t, err, "expected exactly one product id")
}

func TestProductsListRetriesServerErrors(t *testing.T) {
	h := newHarness(t)
	h.shop.FailNext("GET", "/api/v1/products", 503, "busy")

	_, err := h.run(t, "", "products", "list")
	require.NoError(t, err)
	assert.Len(t, h.shop.Requests(), 2)
}

func TestReviewsList(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "reviews", "list", fakeshop.ProductTee)
	require.NoError(t, err)
	assert.Contains(t, out, "Fits well")
}

func TestStripeKeyRequiresLogin(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "", "stripe-key")
	assert.ErrorIs(t, err, httpclient.ErrUnauthorized)

	_, err = h.run(t, "", "login", "-e", fakeshop.UserEmail, "-p", fakeshop.UserPassword)
	require.NoError(t, err)

	out, err := h.run(t, "", "stripe-key", "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "stripeApiKey: "+fakeshop.StripeKey+"\n", out)
}

func TestOutputFormat(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "", "products", "list", "-o", "xml")
	assert.EqualError(t, err, "unsupported output format: xml (supported: json, yaml)")
	assert.Empty(t, h.shop.Requests())

	var buf bytes.Buffer
	require.NoError(t, render(&buf, formatYAML, map[string]any{"b": 1, "a": []string{"x"}}))
	assert.Equal(t, "a:\n  - x\nb: 1\n", buf.String())
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gentsshop version test")
}
