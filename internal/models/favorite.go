package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Favorite is a saved (user, property) bookmark. The pair is unique, enforced
// by a compound index at the storage layer.
type Favorite struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"user_id" json:"userId"`
	PropertyID primitive.ObjectID `bson:"property_id" json:"propertyId"`
	SavedAt    time.Time          `bson:"saved_at" json:"savedAt"`
}

// FavoriteWithProperty is a Favorite joined with its property document.
type FavoriteWithProperty struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"userId"`
	SavedAt  time.Time          `bson:"saved_at" json:"savedAt"`
	Property Property           `bson:"property" json:"property"`
}
