package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"coachly/internal/availability/service"
	apperrors "coachly/pkg/errors"
	httputil "coachly/pkg/http"
	"coachly/pkg/logger"
	"coachly/pkg/model"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

// availabilityQuery is the typed form of the availability query string,
// built and validated at the HTTP boundary.
type availabilityQuery struct {
	CoachID string
	From    time.Time
	To      time.Time
}

type SlotsResponse struct {
	Slots []model.Slot `json:"slots"`
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query, err := parseAvailabilityQuery(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	slots, err := h.service.ComputeForCoach(r.Context(), query.CoachID, query.From, query.To)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, SlotsResponse{Slots: slots}); err != nil {
		h.log.Error("failed to write slots response", "handler", "Get", "operation", "WriteJSON", "error", err)
	}
}

func parseAvailabilityQuery(r *http.Request) (*availabilityQuery, error) {
	q := r.URL.Query()

	coachID := q.Get("coach")
	fromStr := q.Get("from")
	toStr := q.Get("to")

	var missing []string
	if coachID == "" {
		missing = append(missing, "coach")
	}
	if fromStr == "" {
		missing = append(missing, "from")
	}
	if toStr == "" {
		missing = append(missing, "to")
	}
	if len(missing) > 0 {
		return nil, apperrors.MissingParameter(missing...)
	}

	from, err := time.Parse(time.DateOnly, fromStr)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid from parameter, expected YYYY-MM-DD: " + fromStr)
	}
	to, err := time.Parse(time.DateOnly, toStr)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid to parameter, expected YYYY-MM-DD: " + toStr)
	}

	return &availabilityQuery{
		CoachID: coachID,
		From:    from,
		To:      to,
	}, nil
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Get)
}
