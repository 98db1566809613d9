package providerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maideasy/database"
	"maideasy/models"
	"maideasy/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates a new instance of ProviderRepository using MongoDB.
func NewMongoProviderRepo() ProviderRepository {
	repo := &MongoProviderRepo{coll: database.DB().Collection("maids")}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Warn("failed to create maid indexes", zap.Error(err))
	}
	return repo
}

// NewProviderRepoWithCollection wires the repository to an existing collection.
func NewProviderRepoWithCollection(coll *mongo.Collection) *MongoProviderRepo {
	return &MongoProviderRepo{coll: coll}
}

func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var provider models.Provider
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&provider); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch maid with id %s: %w", id, err)
	}
	return &provider, nil
}

func (r *MongoProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if provider.CreatedAt.IsZero() {
		provider.CreatedAt = time.Now()
	}
	if _, err := r.coll.InsertOne(ctx, provider); err != nil {
		return fmt.Errorf("failed to create maid: %w", err)
	}
	return nil
}

func (r *MongoProviderRepo) UpdateRating(ctx context.Context, id string, rating float64, reviews int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"rating": rating, "reviews_count": reviews}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update maid with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
