package providerRepo

import (
	"context"
	"errors"

	"maideasy/models"
)

var ErrNotFound = errors.New("maid not found")

// ProviderRepository defines methods for maid data access.
type ProviderRepository interface {
	// GetByID retrieves a maid by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// Search lists active maids matching the filter, best rated first.
	Search(ctx context.Context, filter models.ProviderFilter) ([]models.Provider, error)
	// Create inserts a new maid record.
	Create(ctx context.Context, provider *models.Provider) error
	// UpdateRating records a new review average and count.
	UpdateRating(ctx context.Context, id string, rating float64, reviews int) error
}
