package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlist/wanderlist/internal/api/models"
	"github.com/wanderlist/wanderlist/internal/api/response"
	"github.com/wanderlist/wanderlist/internal/enrich"
	"github.com/wanderlist/wanderlist/internal/geocode"
	"github.com/wanderlist/wanderlist/internal/item"
	"github.com/wanderlist/wanderlist/internal/route"
	"github.com/wanderlist/wanderlist/pkg/geo"
)

// PlannerHandler handles route planner session endpoints.
type PlannerHandler struct {
	manager *route.Manager
}

// NewPlannerHandler creates a new PlannerHandler.
func NewPlannerHandler(manager *route.Manager) *PlannerHandler {
	return &PlannerHandler{manager: manager}
}

// OpenPlanner handles POST /v1/me/items/{itemId}/planner - open a
// planner session, superseding any previous session for the item.
func (h *PlannerHandler) OpenPlanner(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	itemID := chi.URLParam(r, "itemId")

	var input models.PlannerOpenRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	p, err := h.manager.Open(r.Context(), userID, itemID, route.Mode(input.Mode))
	if err != nil {
		writePlannerError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, p.Snapshot())
}

// GetPlanner handles GET /v1/me/items/{itemId}/planner - current state.
func (h *PlannerHandler) GetPlanner(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planner(w, r)
	if !ok {
		return
	}
	response.JSON(w, r, http.StatusOK, p.Snapshot())
}

// ClosePlanner handles DELETE /v1/me/items/{itemId}/planner - discard
// the session without saving.
func (h *PlannerHandler) ClosePlanner(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	itemID := chi.URLParam(r, "itemId")

	h.manager.Close(userID, itemID)
	response.NoContent(w, r)
}

// AddStop handles POST /v1/me/items/{itemId}/planner/stops.
func (h *PlannerHandler) AddStop(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planner(w, r)
	if !ok {
		return
	}

	var input models.StopAddRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if _, err := p.AddStop(r.Context(), input.Name); err != nil {
		writePlannerError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, p.Snapshot())
}

// RemoveStop handles DELETE /v1/me/items/{itemId}/planner/stops/{index}.
func (h *PlannerHandler) RemoveStop(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planner(w, r)
	if !ok {
		return
	}

	index, ok := stopIndex(w, r)
	if !ok {
		return
	}

	if err := p.RemoveStop(index); err != nil {
		writePlannerError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, p.Snapshot())
}

// MoveStop handles POST /v1/me/items/{itemId}/planner/stops/{index}/move.
func (h *PlannerHandler) MoveStop(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planner(w, r)
	if !ok {
		return
	}

	index, ok := stopIndex(w, r)
	if !ok {
		return
	}

	var input models.StopMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if err := p.MoveStop(index, input.To); err != nil {
		writePlannerError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, p.Snapshot())
}

// SetStopCompletion handles PUT /v1/me/items/{itemId}/planner/stops/{index}/completion.
func (h *PlannerHandler) SetStopCompletion(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planner(w, r)
	if !ok {
		return
	}

	index, ok := stopIndex(w, r)
	if !ok {
		return
	}

	var input models.StopCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if err := p.SetStopCompleted(index, input.Completed); err != nil {
		writePlannerError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, p.Snapshot())
}

// SetStartLocation handles PUT /v1/me/items/{itemId}/planner/start-location.
func (h *PlannerHandler) SetStartLocation(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planner(w, r)
	if !ok {
		return
	}

	var input models.StartLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if err := p.SetStartLocation(r.Context(), input.Query); err != nil {
		writePlannerError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, p.Snapshot())
}

// SetCurrentLocation handles PUT /v1/me/items/{itemId}/planner/current-location.
func (h *PlannerHandler) SetCurrentLocation(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planner(w, r)
	if !ok {
		return
	}

	var input models.CurrentLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if err := geo.Validate(input.Coordinate); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	if err := p.SetCurrentLocation(r.Context(), input.Coordinate); err != nil {
		writePlannerError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// Regenerate handles POST /v1/me/items/{itemId}/planner/regenerate.
func (h *PlannerHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planner(w, r)
	if !ok {
		return
	}

	var input models.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if err := p.Regenerate(r.Context(), input.Confirm); err != nil {
		writePlannerError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, p.Snapshot())
}

// SuggestStops handles POST /v1/me/items/{itemId}/planner/suggest.
func (h *PlannerHandler) SuggestStops(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planner(w, r)
	if !ok {
		return
	}

	var input models.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if err := p.SuggestStops(r.Context(), input.Confirm); err != nil {
		writePlannerError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, p.Snapshot())
}

// Optimize handles POST /v1/me/items/{itemId}/planner/optimize.
func (h *PlannerHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planner(w, r)
	if !ok {
		return
	}

	if err := p.Optimize(r.Context()); err != nil {
		writePlannerError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, p.Snapshot())
}

// GetStats handles GET /v1/me/items/{itemId}/planner/stats.
func (h *PlannerHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planner(w, r)
	if !ok {
		return
	}

	stats, err := p.Stats()
	if err != nil {
		writePlannerError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, stats)
}

// GetNavigationURL handles GET /v1/me/items/{itemId}/planner/navigation-url.
func (h *PlannerHandler) GetNavigationURL(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planner(w, r)
	if !ok {
		return
	}

	u, err := p.NavigationURL()
	if err != nil {
		writePlannerError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.NavigationURLResponse{URL: u})
}

// SavePlanner handles POST /v1/me/items/{itemId}/planner/save - commit
// the working copy to the item store.
func (h *PlannerHandler) SavePlanner(w http.ResponseWriter, r *http.Request) {
	p, ok := h.planner(w, r)
	if !ok {
		return
	}

	saved, err := p.Save(r.Context())
	if err != nil {
		writePlannerError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toItemModel(saved))
}

// planner resolves the session for the request, writing the error
// response itself when there is none.
func (h *PlannerHandler) planner(w http.ResponseWriter, r *http.Request) (*route.Planner, bool) {
	userID := GetUserID(r.Context())
	itemID := chi.URLParam(r, "itemId")

	p, err := h.manager.Get(userID, itemID)
	if err != nil {
		writePlannerError(w, r, err)
		return nil, false
	}
	return p, true
}

func stopIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		response.BadRequest(w, r, "index must be a non-negative integer", nil)
		return 0, false
	}
	return index, true
}

// writePlannerError maps planner and collaborator errors onto problem
// responses.
func writePlannerError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, route.ErrNoSession):
		response.NotFound(w, r, "no open planner session for this item")
	case errors.Is(err, item.ErrItemNotFound):
		response.NotFound(w, r, "item not found")
	case errors.Is(err, route.ErrStopNotFound):
		response.NotFound(w, r, "stop index out of range")
	case errors.Is(err, route.ErrConfirmRequired):
		response.Conflict(w, r, "existing stops would be discarded; retry with confirm set")
	case errors.Is(err, route.ErrPlannerClosed):
		response.Conflict(w, r, "planner session was closed")
	case errors.Is(err, route.ErrBlankStop),
		errors.Is(err, route.ErrWrongMode),
		errors.Is(err, route.ErrTooFewStops),
		errors.Is(err, route.ErrNoAnchor),
		errors.Is(err, route.ErrNoLocation),
		errors.Is(err, route.ErrStartUnresolved):
		response.BadRequest(w, r, err.Error(), nil)
	case errors.Is(err, enrich.ErrUnavailable),
		errors.Is(err, geocode.ErrProviderUnavailable),
		errors.Is(err, geocode.ErrRateLimited):
		response.ServiceUnavailable(w, r, "upstream provider unavailable")
	case errors.Is(err, enrich.ErrNoResult), errors.Is(err, geocode.ErrNoResult):
		response.NotFound(w, r, "no result from provider")
	default:
		response.InternalError(w, r, "planner operation failed")
	}
}
