package api

import (
	"context"
	"errors"

	"github.com/manhhung3004/Gentsshop/httpclient"
)

// Result is the outcome of Invoke. Error is set only when Success is false.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Invoke runs op and folds its error into the result. onError, when set,
// receives the message of a failed call.
func Invoke[T any](ctx context.Context, op func(context.Context) (T, error), onError func(string)) Result[T] {
	data, err := op(ctx)
	if err == nil {
		return Result[T]{Success: true, Data: data}
	}

	msg := MsgGenericFailure
	var herr *httpclient.Error
	switch {
	case errors.As(err, &herr):
		if herr.Message != "" {
			msg = herr.Message
		}
	case err.Error() != "":
		msg = err.Error()
	}

	if onError != nil {
		onError(msg)
	}
	return Result[T]{Error: msg}
}

// ErrorMessage picks the text to show for err: the server message or status
// text when a response arrived, the network message when none did, and the
// error's own text otherwise.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var herr *httpclient.Error
	if errors.As(err, &herr) {
		switch {
		case herr.StatusCode != 0 && herr.Message != "":
			return herr.Message
		case herr.StatusCode != 0:
			return MsgServerError
		case herr.Kind == httpclient.KindNetwork:
			return MsgNetworkError
		case herr.Message != "":
			return herr.Message
		}
		return MsgServerError
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgServerError
}
