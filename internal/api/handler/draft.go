package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/wanderlist/wanderlist/internal/api/models"
	"github.com/wanderlist/wanderlist/internal/api/response"
	"github.com/wanderlist/wanderlist/internal/enrich"
)

// DraftHandler handles AI item-draft enrichment.
type DraftHandler struct {
	enricher enrich.Provider
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(enricher enrich.Provider) *DraftHandler {
	return &DraftHandler{enricher: enricher}
}

// CreateDraft handles POST /v1/me/drafts - expand free text into a
// structured item draft.
func (h *DraftHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var input models.DraftRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if strings.TrimSpace(input.Text) == "" {
		response.BadRequest(w, r, "text is required", []models.FieldError{
			{Field: "text", Message: "is required"},
		})
		return
	}

	draft, err := h.enricher.DraftItem(r.Context(), input.Text)
	if err != nil {
		switch {
		case errors.Is(err, enrich.ErrInvalidDraft), errors.Is(err, enrich.ErrNoResult):
			response.BadRequest(w, r, "could not build a draft from the given text", nil)
		default:
			response.ServiceUnavailable(w, r, "enrichment provider unavailable")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, draft)
}
