package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Defaults applied when a parent category is created implicitly
// because a submitted parent reference did not resolve.
const (
	DefaultCategoryIcon  = "default_icon"
	DefaultCategoryColor = "default-color"
)

// Category is a node in the self-referential category tree stored in
// the `categories` collection.  ParentCategory is nil for roots.
type Category struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name           string              `bson:"name" json:"name"`
	Icon           string              `bson:"icon" json:"icon"`
	Color          string              `bson:"color" json:"color"`
	ParentCategory *primitive.ObjectID `bson:"parentCategory,omitempty" json:"parentCategory,omitempty"`
}

// PopulatedCategory carries the parent's name alongside the node, the
// shape catalog reads return.
type PopulatedCategory struct {
	Category   `bson:",inline"`
	ParentName string `bson:"parentName,omitempty" json:"parentName,omitempty"`
}
