package models

import "time"

// Provider is a service professional ("maid") customers can book.
type Provider struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	ImageURL     string    `bson:"image_url" json:"image_url"`
	Rating       float64   `bson:"rating" json:"rating"` // 0.0 - 5.0
	ReviewsCount int       `bson:"reviews_count" json:"reviews_count"`
	Skills       []string  `bson:"skills" json:"skills"`
	Verified     bool      `bson:"verified" json:"verified"`
	HourlyRate   int64     `bson:"hourly_rate" json:"hourly_rate"` // whole rupees
	City         string    `bson:"city" json:"city"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Email        string    `bson:"email,omitempty" json:"email,omitempty"`
	IsActive     bool      `bson:"is_active" json:"is_active"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// ProviderFilter narrows a provider listing. Zero values mean no filter.
type ProviderFilter struct {
	City         string
	Skills       []string
	VerifiedOnly bool
	Limit        int64
}
