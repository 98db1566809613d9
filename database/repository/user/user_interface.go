package userRepo

import (
	"context"
	"errors"

	"maideasy/models"

	"go.mongodb.org/mongo-driver/bson"
)

var ErrNotFound = errors.New("user not found")

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByPhone retrieves a user by its normalised phone number.
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// Update replaces an existing user record.
	Update(ctx context.Context, user *models.User) error
	// UpdateSetDocument patches a user with the given fields.
	UpdateSetDocument(ctx context.Context, id string, fields bson.M) error
	// Delete removes a user record by its ID.
	Delete(ctx context.Context, id string) error
}
