package web

// errors.go provides unified error responses for the web layer.
//
// The technical error is logged with the request ID; the client receives the
// mapped user message from core.MapError, as JSON for API callers and as an
// HTML alert otherwise. Parse and column errors are precise enough to show
// as they are, so their text is returned verbatim in the error field.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/csv2sendy/internal/charset"
	"github.com/JonMunkholm/csv2sendy/internal/core"
	"github.com/JonMunkholm/csv2sendy/internal/logging"
	"github.com/JonMunkholm/csv2sendy/internal/session"
	"github.com/JonMunkholm/csv2sendy/internal/web/templates"
)

var (
	errNoFile      = errors.New("no file provided")
	errNotCSV      = errors.New("not a csv file")
	errBadExport   = errors.New("invalid export request")
	errBadSession  = fmt.Errorf("%w: malformed id", session.ErrNotFound)
	errUnavailable = errors.New("session store unavailable")
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the user-facing response with status.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	logFn := logger.Warn
	if status >= http.StatusInternalServerError {
		logFn = logger.Error
	}
	logFn("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	if wantsJSON(r) {
		writeJSON(w, status, errorBody(err, msg))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		logger.Error("render error alert", "error", err)
	}
}

func errorBody(err error, msg core.UserMessage) ErrorResponse {
	text := msg.Message
	var pe *core.ParseError
	var ue *core.UnknownColumnError
	if errors.As(err, &pe) || errors.As(err, &ue) {
		text = err.Error()
	}
	return ErrorResponse{
		Error:   text,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
}

// statusFor picks the HTTP status for an error returned by the pipeline or
// its collaborators.
func statusFor(err error) int {
	var pe *core.ParseError
	var ue *core.UnknownColumnError
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe), errors.Is(err, charset.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &pe), errors.As(err, &ue),
		errors.Is(err, charset.ErrUndecodable), errors.Is(err, core.ErrInvalidDelimiter),
		errors.Is(err, errNoFile), errors.Is(err, errNotCSV), errors.Is(err, errBadExport):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooManyUploads), errors.Is(err, errUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// wantsJSON checks if the client prefers a JSON response. API routes always
// answer in JSON.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
