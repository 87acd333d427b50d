package handler

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ekoseller/eko-seller-api/internal/model"
	"github.com/ekoseller/eko-seller-api/internal/repository"
)

// Handlers depend on these store interfaces rather than the concrete
// Mongo repositories so the order and verification workflows can be
// exercised against in-memory fakes.  The repository types satisfy
// them directly.

// UserStore is the persistence surface of the identity flows.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindPublicByID(ctx context.Context, id primitive.ObjectID) (*model.PublicUser, error)
	List(ctx context.Context, f repository.UserFilter, page, limit int) ([]model.PublicUser, int64, error)
	ListSellers(ctx context.Context, f repository.SellerFilter, limit int) ([]model.PublicUser, error)
	SetOTP(ctx context.Context, id primitive.ObjectID, code string, expiry time.Time) error
	MarkVerified(ctx context.Context, id primitive.ObjectID) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, p repository.ProfileUpdate) (*model.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// OTPStore records the latest issued code per email address.
type OTPStore interface {
	Upsert(ctx context.Context, email, code string, expiry time.Time) error
}

// CategoryStore is the persistence surface of the category tree.
type CategoryStore interface {
	Create(ctx context.Context, cat *model.Category) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error)
	List(ctx context.Context) ([]model.PopulatedCategory, error)
	PopulateParent(ctx context.Context, cat *model.Category) (*model.PopulatedCategory, error)
	Update(ctx context.Context, id primitive.ObjectID, name, icon, color string) (*model.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProductStore is the persistence surface of the catalog.
type ProductStore interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	FindPopulatedByID(ctx context.Context, id primitive.ObjectID) (*model.PopulatedProduct, error)
	List(ctx context.Context, f repository.ProductFilter, sort bson.D, page, limit int) ([]model.PopulatedProduct, int64, error)
	ByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]model.PopulatedProduct, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*model.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// OrderStore is the persistence surface of the order workflow.
type OrderStore interface {
	InsertItem(ctx context.Context, item *model.OrderItem) error
	DeleteItems(ctx context.Context, ids []primitive.ObjectID) error
	InsertOrder(ctx context.Context, o *model.Order) error
	List(ctx context.Context) ([]model.PopulatedOrder, error)
	ByUser(ctx context.Context, userID primitive.ObjectID) ([]model.PopulatedOrder, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.PopulatedOrder, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*model.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	TotalSales(ctx context.Context) (float64, error)
	Count(ctx context.Context) (int64, error)
}
