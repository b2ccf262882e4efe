package models

import "time"

// Visibility levels for posts and bucket list entries.
const (
	VisibilityPrivate = "private"
	VisibilityFriends = "friends"
	VisibilityPublic  = "public"
)

// ValidVisibility reports whether v is one of the three visibility levels.
func ValidVisibility(v string) bool {
	return v == VisibilityPrivate || v == VisibilityFriends || v == VisibilityPublic
}

type Post struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	UserID      string    `json:"user_id" bson:"user_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Rating      int       `json:"rating" bson:"rating"`
	Visibility  string    `json:"visibility" bson:"visibility"`
	Date        time.Time `json:"date" bson:"date"`
	Location    *GeoPoint `json:"location,omitempty" bson:"location,omitempty"`
	Images      []string  `json:"images" bson:"images"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}
