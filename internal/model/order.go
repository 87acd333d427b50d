package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatusPending is the default order status when none is supplied.
const StatusPending = "Pending"

// OrderItem is a line entry in the `orderitems` collection.  Price is
// a frozen copy of the product's price at placement time, never a live
// reference.
type OrderItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Product     primitive.ObjectID `bson:"product" json:"product"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Price       float64            `bson:"price" json:"price"`
	DateCreated time.Time          `bson:"dateCreated" json:"dateCreated"`
}

// LineTotal is the captured price times the quantity.
func (i OrderItem) LineTotal() float64 { return i.Price * float64(i.Quantity) }

// Order is an order header in the `orders` collection.  OrderItems
// references persisted line items; TotalPrice is derived once at
// creation and never recomputed.
//
// Fields:
//  ID               – Mongo object id.
//  OrderItems       – ids of the persisted line items.
//  ShippingAddress1 – first address line.
//  ShippingAddress2 – second address line.
//  State, Zip       – address fields.
//  Country, Phone   – address/contact fields.
//  Status           – free text, defaults to "Pending".
//  TotalPrice       – Σ(captured price × quantity) over the lines.
//  User             – placing user id.
//  DateOrdered      – placement timestamp.
type Order struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	OrderItems       []primitive.ObjectID `bson:"orderItems" json:"orderItems"`
	ShippingAddress1 string               `bson:"shippingAddress1" json:"shippingAddress1"`
	ShippingAddress2 string               `bson:"shippingAddress2" json:"shippingAddress2"`
	State            string               `bson:"state" json:"state"`
	Zip              string               `bson:"zip" json:"zip"`
	Country          string               `bson:"country" json:"country"`
	Phone            string               `bson:"phone" json:"phone"`
	Status           string               `bson:"status" json:"status"`
	TotalPrice       float64              `bson:"totalPrice" json:"totalPrice"`
	User             primitive.ObjectID   `bson:"user" json:"user"`
	DateOrdered      time.Time            `bson:"dateOrdered" json:"dateOrdered"`
}

// PopulatedOrderItem joins the product document onto a line item.
type PopulatedOrderItem struct {
	OrderItem `bson:",inline"`
	Product   *PopulatedProduct `bson:"productDoc,omitempty" json:"product"`
}

// PopulatedOrder is the fully joined shape returned by order reads:
// the placing user's name and each line item with its product and
// category documents.
type PopulatedOrder struct {
	Order      `bson:",inline"`
	UserName   string               `bson:"userName,omitempty" json:"userName,omitempty"`
	OrderItems []PopulatedOrderItem `bson:"itemDocs,omitempty" json:"orderItems"`
}
