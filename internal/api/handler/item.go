package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlist/wanderlist/internal/api/models"
	"github.com/wanderlist/wanderlist/internal/api/response"
	"github.com/wanderlist/wanderlist/internal/item"
)

// ItemHandler handles bucket-list item endpoints.
type ItemHandler struct {
	service *item.Service
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *item.Service) *ItemHandler {
	return &ItemHandler{service: service}
}

// ListItems handles GET /v1/me/items - list the user's items.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	filter := item.ListFilter{
		Category: r.URL.Query().Get("category"),
		Interest: r.URL.Query().Get("interest"),
	}
	if raw := r.URL.Query().Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, r, "completed must be true or false", nil)
			return
		}
		filter.Completed = &completed
	}

	items, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		response.InternalError(w, r, "failed to list items")
		return
	}

	response.JSON(w, r, http.StatusOK, models.ItemList{Items: toItemModels(items)})
}

// CreateItem handles POST /v1/me/items - create an item.
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input models.ItemCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.service.Create(r.Context(), userID, item.CreateInput{
		Title:           input.Title,
		Description:     input.Description,
		LocationName:    input.LocationName,
		Coordinates:     input.Coordinates,
		Images:          input.Images,
		Category:        input.Category,
		Interests:       input.Interests,
		Owner:           input.Owner,
		BestTimeToVisit: input.BestTimeToVisit,
	})
	if err != nil {
		writeItemError(w, r, err)
		return
	}

	response.Created(w, r, "/v1/me/items/"+created.ID, toItemModel(created))
}

// GetItem handles GET /v1/me/items/{itemId} - fetch one item.
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	itemID := chi.URLParam(r, "itemId")

	it, err := h.service.Get(r.Context(), userID, itemID)
	if err != nil {
		writeItemError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toItemModel(it))
}

// UpdateItem handles PUT /v1/me/items/{itemId} - partial item update.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	itemID := chi.URLParam(r, "itemId")

	var input models.ItemUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.service.Update(r.Context(), userID, itemID, item.UpdateInput{
		Title:           input.Title,
		Description:     input.Description,
		LocationName:    input.LocationName,
		Coordinates:     input.Coordinates,
		Images:          input.Images,
		Category:        input.Category,
		Interests:       input.Interests,
		Owner:           input.Owner,
		BestTimeToVisit: input.BestTimeToVisit,
	})
	if err != nil {
		writeItemError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toItemModel(updated))
}

// SetCompletion handles PUT /v1/me/items/{itemId}/completion - toggle
// the item's completion state.
func (h *ItemHandler) SetCompletion(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	itemID := chi.URLParam(r, "itemId")

	var input models.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.service.SetCompletion(r.Context(), userID, itemID, input.Completed, timestampPtr(input.CompletedAt))
	if err != nil {
		writeItemError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toItemModel(updated))
}

// DeleteItem handles DELETE /v1/me/items/{itemId}.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	itemID := chi.URLParam(r, "itemId")

	if err := h.service.Delete(r.Context(), userID, itemID); err != nil {
		writeItemError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// writeItemError maps item service errors onto problem responses.
func writeItemError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *item.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(w, r, "validation failed", validationErr.Errors)
	case errors.Is(err, item.ErrItemNotFound):
		response.NotFound(w, r, "item not found")
	case errors.Is(err, item.ErrCompletionDateRequired):
		response.BadRequest(w, r, "completion date required to mark an item complete", []models.FieldError{
			{Field: "completedAt", Message: "is required when completed is true"},
		})
	default:
		response.InternalError(w, r, "item operation failed")
	}
}
