// internal/app/features/browse/handler.go
package browse

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/studyvault/internal/app/browse"
	uierrors "github.com/dalemusser/studyvault/internal/app/features/errors"
	"github.com/dalemusser/studyvault/internal/app/selection"
	"github.com/dalemusser/studyvault/internal/app/system/timeouts"
	"github.com/dalemusser/studyvault/internal/app/system/visitor"
	"go.uber.org/zap"
)

// Handler exposes a per-visitor browse session over JSON.
//
// It is constructed once at startup in bootstrap and mounted behind the
// visitor middleware, which supplies the session id.
type Handler struct {
	Sessions *browse.Registry
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(reg *browse.Registry, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Sessions: reg, ErrLog: errLog, Log: logger}
}

type selectRequest struct {
	Level string `json:"level"`
	Value string `json:"value"`
}

var errNoVisitor = errors.New("request has no browse id")

// ServeView handles GET /browse. ?group=1 adds files grouped by material
// type; ?wait=1 waits briefly for an in-flight resolution to settle.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.render(w, r, sess)
}

// HandleSelect handles POST /browse/select {level, value}. An empty value
// resets the level.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode select request failed", err, "Invalid request body.")
		return
	}
	a, err := selection.ParseAction(req.Level, req.Value)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid selection", err, err.Error())
		return
	}
	h.dispatch(w, r, a)
}

// HandleReset handles POST /browse/reset {level}. A missing body or level
// resets everything.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.ErrLog.LogBadRequest(w, r, "decode reset request failed", err, "Invalid request body.")
			return
		}
	}
	lv, err := selection.ParseLevel(req.Level)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "invalid reset level", err, err.Error())
		return
	}
	h.dispatch(w, r, selection.Reset(lv))
}

// HandleRefresh handles POST /browse/refresh.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Refresh()
	h.render(w, r, sess)
}

func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, a selection.Action) {
	id, ok := visitor.ID(r)
	if !ok {
		h.ErrLog.LogServerError(w, r, "browse route mounted without visitor middleware", errNoVisitor, "Session unavailable.")
		return
	}
	sess := h.Sessions.Dispatch(r.Context(), id, a)
	h.render(w, r, sess)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*browse.Session, bool) {
	id, ok := visitor.ID(r)
	if !ok {
		h.ErrLog.LogServerError(w, r, "browse route mounted without visitor middleware", errNoVisitor, "Session unavailable.")
		return nil, false
	}
	return h.Sessions.Get(r.Context(), id), true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, sess *browse.Session) {
	q := r.URL.Query()
	if q.Get("wait") == "1" {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		if err := sess.WaitIdle(ctx); err != nil {
			h.Log.Debug("browse view served while resolution still running",
				zap.String("session", sess.ID), zap.Error(err))
		}
		cancel()
	}
	uierrors.WriteJSON(w, http.StatusOK, sess.View(q.Get("group") == "1"))
}
