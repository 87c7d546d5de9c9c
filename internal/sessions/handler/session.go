package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"coachly/internal/sessions/service"
	apperrors "coachly/pkg/errors"
	httputil "coachly/pkg/http"
	"coachly/pkg/logger"
	"coachly/pkg/model"
)

type SessionHandler struct {
	service service.SessionService
	log     *logger.Logger
}

func NewSessionHandler(service service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		log:     log,
	}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var session model.CoachingSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid JSON request body"))
		return
	}

	created, err := h.service.Create(r.Context(), &session)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write response", "handler", "Create", "error", err)
	}
}

func (h *SessionHandler) GetByID(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	session, err := h.service.GetByID(r.Context(), params.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, session); err != nil {
		h.log.Error("failed to write response", "handler", "GetByID", "error", err)
	}
}

func (h *SessionHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	sessions, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, sessions, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write response", "handler", "GetAll", "error", err)
	}
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var update model.CoachingSessionUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid JSON request body"))
		return
	}

	updated, err := h.service.Update(r.Context(), params.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write response", "handler", "Update", "error", err)
	}
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if err := h.service.Delete(r.Context(), params.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SessionHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *SessionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/sessions", h.Create)
	router.GET("/api/v1/sessions", h.GetAll)
	router.GET("/api/v1/sessions/id/:id", h.GetByID)
	router.PATCH("/api/v1/sessions/id/:id", h.Update)
	router.DELETE("/api/v1/sessions/id/:id", h.Delete)
}
