package repository

import (
	"context"

	"stoneapi/internal/model"
)

// OrderRepository defines data access for ingested orders using SQL queries
// only. No business logic here — strictly persistence operations.
type OrderRepository interface {
	// Create inserts a new order row. The caller provides ID and UploadDate.
	// Returns the stored order (may include values set by the DB).
	Create(ctx context.Context, order *model.Order) (*model.Order, error)

	// FindByID returns an order by its ID, including the encoded payload.
	FindByID(ctx context.Context, id string) (*model.Order, error)

	// Search returns orders matching the filter, newest first, capped at
	// filter.Limit rows. An unrecognized filter field matches nothing.
	Search(ctx context.Context, filter SearchFilter) ([]model.Order, error)

	// List returns up to limit orders, newest first, with no predicate.
	List(ctx context.Context, limit int) ([]model.Order, error)

	// Delete removes an order by ID and reports whether a row was deleted.
	Delete(ctx context.Context, id string) (bool, error)
}

// SearchFilter describes a case-insensitive substring predicate over the
// recognized fields. Field model.SearchAll matches a row when any of the
// three fields contains the term.
type SearchFilter struct {
	Field model.SearchField
	Term  string
	Limit int
}
