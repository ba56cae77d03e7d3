package item

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wanderlist/wanderlist/internal/api/models"
	"github.com/wanderlist/wanderlist/pkg/geo"
)

// Service errors.
var (
	ErrCompletionDateRequired = errors.New("completion date required to mark an item complete")
)

// Validation constants.
const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 2000
	MaxImages            = 20
)

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Service provides item operations.
type Service struct {
	repo Repository
}

// NewService creates a new item service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves items for a user, optionally filtered.
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]*Item, error) {
	return s.repo.List(ctx, userID, filter)
}

// Get retrieves a single item.
func (s *Service) Get(ctx context.Context, userID, itemID string) (*Item, error) {
	return s.repo.GetByUserAndID(ctx, userID, itemID)
}

// CreateInput holds the fields for creating an item.
type CreateInput struct {
	Title           string
	Description     string
	LocationName    *string
	Coordinates     *geo.Coordinate
	Images          []string
	Category        *string
	Interests       []string
	Owner           *string
	BestTimeToVisit *string
}

// Create creates a new item for a user.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*Item, error) {
	if fieldErrors := validateItemFields(input.Title, input.Description, input.Coordinates, input.Images); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	it := &Item{
		ID:              "itm_" + uuid.New().String()[:22],
		UserID:          userID,
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		LocationName:    input.LocationName,
		Coordinates:     input.Coordinates,
		Images:          input.Images,
		Category:        input.Category,
		Interests:       input.Interests,
		Owner:           input.Owner,
		BestTimeToVisit: input.BestTimeToVisit,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}

	return it, nil
}

// UpdateInput holds optional fields for updating an item. Nil fields are
// left unchanged. Completion state is not updated here; use SetCompletion.
type UpdateInput struct {
	Title           *string
	Description     *string
	LocationName    *string
	Coordinates     *geo.Coordinate
	Images          []string
	Category        *string
	Interests       []string
	Owner           *string
	BestTimeToVisit *string
	Itinerary       []Stop
	RoadTrip        *RoadTrip
}

// Update applies a partial update to an item.
func (s *Service) Update(ctx context.Context, userID, itemID string, input UpdateInput) (*Item, error) {
	it, err := s.repo.GetByUserAndID(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		it.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		it.Description = *input.Description
	}
	if input.LocationName != nil {
		it.LocationName = input.LocationName
	}
	if input.Coordinates != nil {
		it.Coordinates = input.Coordinates
	}
	if input.Images != nil {
		it.Images = input.Images
	}
	if input.Category != nil {
		it.Category = input.Category
	}
	if input.Interests != nil {
		it.Interests = input.Interests
	}
	if input.Owner != nil {
		it.Owner = input.Owner
	}
	if input.BestTimeToVisit != nil {
		it.BestTimeToVisit = input.BestTimeToVisit
	}
	if input.Itinerary != nil {
		it.Itinerary = input.Itinerary
	}
	if input.RoadTrip != nil {
		it.RoadTrip = input.RoadTrip
	}

	if fieldErrors := validateItemFields(it.Title, it.Description, it.Coordinates, it.Images); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	it.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}

	return it, nil
}

// Replace stores a full item as-is, preserving the completion invariant.
// Used by the route planner's save operation (replace-by-id semantics).
func (s *Service) Replace(ctx context.Context, it *Item) error {
	if !it.Completed {
		it.CompletedAt = nil
	}
	it.UpdatedAt = time.Now()
	return s.repo.Update(ctx, it)
}

// SetCompletion toggles an item's completion state. Completing an item
// requires a user-confirmed date; un-completing clears the date
// unconditionally.
func (s *Service) SetCompletion(ctx context.Context, userID, itemID string, completed bool, completedAt *time.Time) (*Item, error) {
	it, err := s.repo.GetByUserAndID(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if completed {
		if completedAt == nil {
			return nil, ErrCompletionDateRequired
		}
		it.Completed = true
		it.CompletedAt = completedAt
	} else {
		it.Completed = false
		it.CompletedAt = nil
	}

	it.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}

	return it, nil
}

// Delete deletes an item for a user.
func (s *Service) Delete(ctx context.Context, userID, itemID string) error {
	return s.repo.Delete(ctx, userID, itemID)
}

func validateItemFields(title, description string, coords *geo.Coordinate, images []string) []models.FieldError {
	var errs []models.FieldError

	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		errs = append(errs, models.FieldError{Field: "title", Message: "is required"})
	} else if len(trimmed) > MaxTitleLength {
		errs = append(errs, models.FieldError{Field: "title", Message: "must be at most 120 characters"})
	}

	if len(description) > MaxDescriptionLength {
		errs = append(errs, models.FieldError{Field: "description", Message: "must be at most 2000 characters"})
	}

	if coords != nil {
		if err := geo.Validate(*coords); err != nil {
			errs = append(errs, models.FieldError{Field: "coordinates", Message: err.Error()})
		}
	}

	if len(images) > MaxImages {
		errs = append(errs, models.FieldError{Field: "images", Message: "must contain at most 20 entries"})
	}

	return errs
}
