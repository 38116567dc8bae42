// Package api exposes the ledger over HTTP.
package api

import (
	"errors"
	"net/http"

	"github.com/pocketledger/pocketledger/internal/api/middleware"
	"github.com/pocketledger/pocketledger/internal/importer"
	"github.com/pocketledger/pocketledger/internal/logger"
	"github.com/pocketledger/pocketledger/internal/model"
)

// Result is the envelope returned by every mutating endpoint.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps data in a successful Result.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail returns a failed Result carrying msg and optional data.
func Fail[T any](msg string, data T) Result[T] {
	return Result[T]{Error: msg, Data: data}
}

const (
	msgNotFound     = "not found"
	msgUnauthorized = "unauthorized"
	msgInternal     = "something went wrong"
)

// classify maps an error to a status code and a message safe to show the
// caller.
func classify(err error) (int, string) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, importer.ErrNoValidRows):
		return http.StatusBadRequest, importer.ErrNoValidRows.Error()
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// writeErr writes the failure envelope for err. Server-side failures are
// logged with full detail; the caller only sees the generic message.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	middleware.WriteError(w, status, msg)
}
