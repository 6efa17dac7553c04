// Package fakeshop is an in-process commerce backend for tests. It serves
// the same routes, envelopes and status codes as the real backend over an
// echo router, keeps its state in memory and records every request.
package fakeshop

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Seeded accounts.
const (
	AdminEmail    = "admin@gentsshop.test"
	AdminPassword = "Admin123"
	UserEmail     = "ann@gentsshop.test"
	UserPassword  = "Secret1"
	StripeKey     = "pk_test_fakeshop"
)

// Seeded product ids.
const (
	ProductTee   = "prod-tee"
	ProductJeans = "prod-jeans"
	ProductWatch = "prod-watch"
)

// ResultPerPage is the catalog page size.
const ResultPerPage = 8

// Request is what the shop saw of one incoming request.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	ContentType   string
	RequestID     string
}

type failure struct {
	status  int
	message string
	delay   time.Duration
}

// Shop is the fake backend.
type Shop struct {
	echo *echo.Echo

	mu       sync.Mutex
	users    map[string]*userDoc // by id
	tokens   map[string]string   // token -> user id
	resets   map[string]string   // reset token -> user id
	products map[string]*productDoc
	orders   map[string]*orderDoc
	requests []Request
	failures map[string][]failure // "METHOD path" -> queued failures
	now      func() time.Time
}

// New builds a shop seeded with one admin, one user and three products.
func New() *Shop {
	s := &Shop{
		users:    make(map[string]*userDoc),
		tokens:   make(map[string]string),
		resets:   make(map[string]string),
		products: make(map[string]*productDoc),
		orders:   make(map[string]*orderDoc),
		failures: make(map[string][]failure),
		now:      func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) },
	}
	s.seed()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler
	e.Use(s.record, s.inject)
	s.routes(e)
	s.echo = e
	return s
}

// Start serves the shop until the test ends and returns its base URL.
func Start(t testing.TB) (*Shop, string) {
	t.Helper()
	s := New()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return s, srv.URL + "/"
}

// ServeHTTP implements http.Handler.
func (s *Shop) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Requests returns the requests seen so far.
func (s *Shop) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request.
func (s *Shop) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// FailNext makes the next request to method and path answer status with
// message. Calls queue up.
func (s *Shop) FailNext(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, message: message})
}

// StallNext delays the next request to method and path by d before it is
// handled normally.
func (s *Shop) StallNext(method, path string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{delay: d})
}

// Revoke invalidates a token, as an expired session would be.
func (s *Shop) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// IssueToken signs in the account with email and returns a token.
func (s *Shop) IssueToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByEmail(email)
	if u == nil {
		return ""
	}
	return s.issue(u.ID)
}

// ResetToken starts a password reset for email and returns the token that
// would have been mailed.
func (s *Shop) ResetToken(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userByEmail(email)
	if u == nil {
		return ""
	}
	tok := newID()
	s.resets[tok] = u.ID
	return tok
}

func (s *Shop) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get(echo.HeaderAuthorization),
			ContentType:   r.Header.Get(echo.HeaderContentType),
			RequestID:     r.Header.Get(echo.HeaderXRequestID),
		})
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Shop) inject(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		r := c.Request()
		key := r.Method + " " + r.URL.Path

		s.mu.Lock()
		var f *failure
		if queue := s.failures[key]; len(queue) > 0 {
			f = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if f == nil {
			return next(c)
		}
		if f.delay > 0 {
			select {
			case <-time.After(f.delay):
			case <-r.Context().Done():
				return r.Context().Err()
			}
			return next(c)
		}
		return echo.NewHTTPError(f.status, f.message)
	}
}

func (s *Shop) issue(userID string) string {
	tok := newID()
	s.tokens[tok] = userID
	return tok
}

func (s *Shop) userByEmail(email string) *userDoc {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
