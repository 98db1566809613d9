package providerRepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"maideasy/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// searchFilter translates a ProviderFilter into a Mongo query.
func searchFilter(f models.ProviderFilter) bson.M {
	filter := bson.M{"is_active": true}
	if f.City != "" {
		filter["city"] = bson.M{"$regex": "^" + regexp.QuoteMeta(f.City) + "$", "$options": "i"}
	}
	if len(f.Skills) > 0 {
		filter["skills"] = bson.M{"$all": f.Skills}
	}
	if f.VerifiedOnly {
		filter["verified"] = true
	}
	return filter
}

func (r *MongoProviderRepo) Search(ctx context.Context, f models.ProviderFilter) ([]models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "rating", Value: -1},
		{Key: "reviews_count", Value: -1},
	})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cursor, err := r.coll.Find(ctx, searchFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search maids: %w", err)
	}
	defer cursor.Close(ctx)

	providers := []models.Provider{}
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode maids: %w", err)
	}
	return providers, nil
}
