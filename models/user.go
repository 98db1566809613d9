// models/user.go
package models

import "time"

// User represents a customer profile.
type User struct {
	ID         string    `bson:"id" json:"id"`
	Name       string    `bson:"name" json:"name,omitempty"`
	Email      string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone      string    `bson:"phone,omitempty" json:"phone,omitempty"`
	AvatarURL  string    `bson:"avatar_url" json:"avatarUrl,omitempty"`
	Address    string    `bson:"address" json:"address,omitempty"`
	City       string    `bson:"city" json:"city,omitempty"`
	Pincode    string    `bson:"pincode" json:"pincode,omitempty"`
	Role       string    `bson:"role" json:"role"`
	IsVerified bool      `bson:"is_verified" json:"isVerified"`
	FCMToken   string    `bson:"fcm_token,omitempty" json:"-"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsProfileComplete reports whether the profile has the fields the booking
// flow relies on.
func (u User) IsProfileComplete() bool {
	return u.Name != "" && u.Phone != "" && u.Address != "" && u.City != ""
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left alone.
type ProfileUpdate struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	Pincode   *string `json:"pincode,omitempty"`
	FCMToken  *string `json:"fcmToken,omitempty"`
}
