// models/service.go
package models

import "time"

// ServiceCategory groups bookable offerings on the home screen.
type ServiceCategory string

const (
	CategoryHousekeeping ServiceCategory = "housekeeping"
	CategoryLaundry      ServiceCategory = "laundry"
	CategoryCooking      ServiceCategory = "cooking"
	CategoryChildcare    ServiceCategory = "childcare"
	CategoryElderlyCare  ServiceCategory = "elderly-care"
	CategoryPetCare      ServiceCategory = "pet-care"
	CategoryUtensils     ServiceCategory = "utensils"
	CategoryGroceryHelp  ServiceCategory = "grocery-help"
	CategoryOther        ServiceCategory = "other"
)

var serviceCategories = []ServiceCategory{
	CategoryHousekeeping,
	CategoryLaundry,
	CategoryCooking,
	CategoryChildcare,
	CategoryElderlyCare,
	CategoryPetCare,
	CategoryUtensils,
	CategoryGroceryHelp,
	CategoryOther,
}

// ServiceCategories returns the categories in display order.
func ServiceCategories() []ServiceCategory {
	out := make([]ServiceCategory, len(serviceCategories))
	copy(out, serviceCategories)
	return out
}

// Valid reports whether c is one of the known categories.
func (c ServiceCategory) Valid() bool {
	for _, known := range serviceCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Service is a bookable household-help offering.
type Service struct {
	ID          string          `bson:"id" json:"id"`
	Name        string          `bson:"name" json:"name"`
	Description string          `bson:"description" json:"description"`
	Category    ServiceCategory `bson:"category" json:"category"`
	Duration    int             `bson:"duration" json:"duration"` // minutes
	Price       int64           `bson:"price" json:"price"`       // whole rupees
	ImageURL    string          `bson:"image_url" json:"image_url"`
	IsActive    bool            `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time       `bson:"created_at" json:"created_at"`
}
