package item

import "context"

// ListFilter narrows List results. Zero-value fields do not filter.
type ListFilter struct {
	Category  string
	Interest  string
	Completed *bool
}

// Repository defines the interface for item persistence.
type Repository interface {
	// GetByUserAndID retrieves an item scoped to a user.
	// Returns ErrItemNotFound if the item doesn't exist or isn't the user's.
	GetByUserAndID(ctx context.Context, userID, itemID string) (*Item, error)

	// List retrieves all items for a user in creation order.
	List(ctx context.Context, userID string, filter ListFilter) ([]*Item, error)

	// Create creates a new item.
	Create(ctx context.Context, it *Item) error

	// Update replaces an existing item by ID.
	Update(ctx context.Context, it *Item) error

	// Delete deletes an item by ID.
	Delete(ctx context.Context, userID, itemID string) error
}
