package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stock and rating bounds enforced on create/update.
const (
	MaxCountInStock = 1000
	MaxRating       = 5
)

// Product is a catalog entry in the `products` collection.  Image and
// Images hold absolute URLs built from the upload host at creation
// time.  Category is a reference into the `categories` collection.
//
// Fields:
//  ID           – Mongo object id.
//  Name         – product name.
//  Description  – long description.
//  Image        – primary image URL.
//  Images       – gallery image URLs.
//  Brand        – brand name, may be empty.
//  Price        – unit price, never negative.
//  Colour       – colour label.
//  Size         – numeric or textual size (tagged union).
//  Category     – referenced category id.
//  CountInStock – units available, 0..1000.
//  Rating       – 0..5.
//  DateCreated  – creation timestamp.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	Image        string             `bson:"image" json:"image"`
	Images       []string           `bson:"images,omitempty" json:"images"`
	Brand        string             `bson:"brand" json:"brand"`
	Price        float64            `bson:"price" json:"price"`
	Colour       string             `bson:"colour" json:"colour"`
	Size         Size               `bson:"size" json:"size"`
	Category     primitive.ObjectID `bson:"category" json:"category"`
	CountInStock int                `bson:"countInStock" json:"countInStock"`
	Rating       float64            `bson:"rating" json:"rating"`
	DateCreated  time.Time          `bson:"dateCreated" json:"dateCreated"`
}

// PopulatedProduct is a Product with its category document joined in,
// as returned by catalog reads.
type PopulatedProduct struct {
	Product  `bson:",inline"`
	Category *Category `bson:"categoryDoc,omitempty" json:"category"`
}
