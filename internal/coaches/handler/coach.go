package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"coachly/internal/coaches/service"
	apperrors "coachly/pkg/errors"
	httputil "coachly/pkg/http"
	"coachly/pkg/logger"
	"coachly/pkg/model"
)

type CoachHandler struct {
	service service.CoachService
	log     *logger.Logger
}

func NewCoachHandler(service service.CoachService, log *logger.Logger) *CoachHandler {
	return &CoachHandler{
		service: service,
		log:     log,
	}
}

func (h *CoachHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var coach model.CoachProfile
	if err := json.NewDecoder(r.Body).Decode(&coach); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid JSON request body"))
		return
	}

	created, err := h.service.Create(r.Context(), &coach)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write response", "handler", "Create", "error", err)
	}
}

func (h *CoachHandler) GetByID(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	coach, err := h.service.GetByID(r.Context(), params.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, coach); err != nil {
		h.log.Error("failed to write response", "handler", "GetByID", "error", err)
	}
}

func (h *CoachHandler) GetBySlug(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	coach, err := h.service.GetBySlug(r.Context(), params.ByName("slug"))
	if err != nil {
		h.writeError(w, "GetBySlug", err)
		return
	}

	if err := httputil.WriteSuccess(w, coach); err != nil {
		h.log.Error("failed to write response", "handler", "GetBySlug", "error", err)
	}
}

func (h *CoachHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	coaches, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, coaches, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write response", "handler", "GetAll", "error", err)
	}
}

func (h *CoachHandler) Update(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var update model.CoachProfileUpdate
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

func (h *CoachHandler) Delete(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	if err := h.service.Delete(r.Context(), params.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *CoachHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *CoachHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/coaches", h.Create)
	router.GET("/api/v1/coaches", h.GetAll)
	router.GET("/api/v1/coaches/id/:id", h.GetByID)
	router.GET("/api/v1/coaches/slug/:slug", h.GetBySlug)
	router.PATCH("/api/v1/coaches/id/:id", h.Update)
	router.DELETE("/api/v1/coaches/id/:id", h.Delete)
}
