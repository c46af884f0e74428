// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Response is the JSON body of every error reply.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorLogger logs a failure with request context and writes the matching
// JSON error reply. Log messages are for operators; userMsg is what the
// client sees.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger}
}

func (e *ErrorLogger) fields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
}

// LogBadRequest logs at Warn and replies 400.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Warn(logMsg, e.fields(r, err)...)
	WriteError(w, http.StatusBadRequest, userMsg)
}

// LogNotFound logs at Info and replies 404.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Info(logMsg, e.fields(r, err)...)
	WriteError(w, http.StatusNotFound, userMsg)
}

// LogConflict logs at Info and replies 409.
func (e *ErrorLogger) LogConflict(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Info(logMsg, e.fields(r, err)...)
	WriteError(w, http.StatusConflict, userMsg)
}

// LogTooLarge logs at Warn and replies 413.
func (e *ErrorLogger) LogTooLarge(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Warn(logMsg, e.fields(r, err)...)
	WriteError(w, http.StatusRequestEntityTooLarge, userMsg)
}

// LogTooManyRequests logs at Info and replies 429.
func (e *ErrorLogger) LogTooManyRequests(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Info(logMsg, e.fields(r, err)...)
	WriteError(w, http.StatusTooManyRequests, userMsg)
}

// LogUnavailable logs at Warn and replies 503, used when a backing
// service is not configured.
func (e *ErrorLogger) LogUnavailable(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Warn(logMsg, e.fields(r, err)...)
	WriteError(w, http.StatusServiceUnavailable, userMsg)
}

// LogServerError logs at Error and replies 500.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.Log.Error(logMsg, e.fields(r, err)...)
	WriteError(w, http.StatusInternalServerError, userMsg)
}

// WriteError writes {"status":"error","message":msg} with code.
func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, Response{Status: "error", Message: msg})
}

// WriteJSON writes v as JSON with code.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// NotFound is the router's fallback for unknown paths.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "Not found.")
}

// MethodNotAllowed is the router's fallback for known paths with the
// wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed.")
}
