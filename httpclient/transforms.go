package httpclient

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/manhhung3004/Gentsshop/logger"
	"github.com/manhhung3004/Gentsshop/trace"
)

// RequestTransform can modify an outbound request. Transforms run in
// registration order; an error aborts the call.
type RequestTransform func(ctx context.Context, req *http.Request) error

// ResponseTransform observes a response before it is normalized. Transforms
// run in registration order on every response; an error aborts the call.
type ResponseTransform func(ctx context.Context, req *http.Request, resp *http.Response) error

// Clearer drops stored credentials.
type Clearer interface {
	Clear(ctx context.Context) error
}

// RequestIDTransform sets X-Request-ID from the context, or a fresh UUID.
func RequestIDTransform() RequestTransform {
	return func(ctx context.Context, req *http.Request) error {
		if req.Header.Get(trace.HeaderXRequestID) == "" {
			req.Header.Set(trace.HeaderXRequestID, trace.EnsureRequestID(ctx))
		}
		return nil
	}
}

// BearerTransform sets "Authorization: Bearer <token>" when src has a
// token. A missing token or a failing source leaves the request anonymous;
// the server answers 401 where a credential is required.
func BearerTransform(src oauth2.TokenSource) RequestTransform {
	return func(_ context.Context, req *http.Request) error {
		if src == nil {
			return nil
		}
		tok, err := src.Token()
		if err != nil || tok == nil || tok.AccessToken == "" {
			return nil
		}
		tok.SetAuthHeader(req)
		return nil
	}
}

// UnauthorizedTransform clears the credential store when the server answers
// 401, so the next request goes out anonymous. The store is cleared before
// the caller sees the error. A failing clear is logged and the caller still
// receives the 401.
func UnauthorizedTransform(store Clearer, log logger.Logger) ResponseTransform {
	if log == nil {
		log = logger.Nop()
	}
	return func(ctx context.Context, req *http.Request, resp *http.Response) error {
		if resp.StatusCode != http.StatusUnauthorized || store == nil {
			return nil
		}
		if err := store.Clear(ctx); err != nil {
			log.Error().
				Err(err).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Msg("Failed to clear credential after unauthorized response")
			return nil
		}
		log.Warn().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Msg("Credential cleared after unauthorized response")
		return nil
	}
}
