package repository

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ekoseller/eko-seller-api/internal/model"
)

// ProductRepo provides access to the `products` collection. Catalog
// reads join the category document application-side, the same join
// the old populate() calls performed.
type ProductRepo struct {
	c          *mongo.Collection
	categories *CategoryRepo
}

func NewProductRepo(db *mongo.Database, categories *CategoryRepo) *ProductRepo {
	return &ProductRepo{c: db.Collection("products"), categories: categories}
}

// ProductFilter narrows catalog listings. Category ids arrive as a
// comma-separated query value and are parsed by the handler.
type ProductFilter struct {
	Categories []primitive.ObjectID
	Brand      string
	Colour     string
	MinPrice   *float64
	MaxPrice   *float64
}

func (f ProductFilter) query() bson.M {
	q := bson.M{}
	if len(f.Categories) > 0 {
		q["category"] = bson.M{"$in": f.Categories}
	}
	if f.Brand != "" {
		q["brand"] = f.Brand
	}
	if f.Colour != "" {
		q["colour"] = f.Colour
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		q["price"] = price
	}
	return q
}

// ParseSort turns "field:asc|desc" into a Mongo sort document,
// defaulting to newest first.
func ParseSort(s string) bson.D {
	if s == "" {
		return bson.D{{Key: "dateCreated", Value: -1}}
	}
	field, dir, _ := strings.Cut(s, ":")
	if field == "" {
		field = "dateCreated"
	}
	order := 1
	if dir == "desc" {
		order = -1
	}
	return bson.D{{Key: field, Value: order}}
}

// Create inserts a product and fills in its generated id.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.c.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID fetches a product without joining its category.
func (r *ProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	var p model.Product
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindPopulatedByID fetches a product with its category document.
func (r *ProductRepo) FindPopulatedByID(ctx context.Context, id primitive.ObjectID) (*model.PopulatedProduct, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	joined, err := r.populate(ctx, []model.Product{*p})
	if err != nil {
		return nil, err
	}
	return &joined[0], nil
}

// List returns a filtered, sorted page of products with their
// categories joined, plus the total match count.
func (r *ProductRepo) List(ctx context.Context, f ProductFilter, sort bson.D, page, limit int) ([]model.PopulatedProduct, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	q := f.query()
	opts := options.Find().
		SetSort(sort).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cur, err := r.c.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	products := []model.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	total, err := r.c.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	joined, err := r.populate(ctx, products)
	if err != nil {
		return nil, 0, err
	}
	return joined, total, nil
}

// ByCategory returns every product referencing the given category.
func (r *ProductRepo) ByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]model.PopulatedProduct, error) {
	cur, err := r.c.Find(ctx, bson.M{"category": categoryID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	products := []model.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return r.populate(ctx, products)
}

// Count returns the total number of products.
func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	return r.c.CountDocuments(ctx, bson.M{})
}

// Update applies the given field set and returns the new document.
func (r *ProductRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*model.Product, error) {
	var p model.Product
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a product outright.
func (r *ProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// populate joins category documents onto products with one $in query.
func (r *ProductRepo) populate(ctx context.Context, products []model.Product) ([]model.PopulatedProduct, error) {
	ids := make([]primitive.ObjectID, 0, len(products))
	seen := map[primitive.ObjectID]bool{}
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			ids = append(ids, p.Category)
		}
	}
	byID := map[primitive.ObjectID]*model.Category{}
	if len(ids) > 0 {
		cur, err := r.categories.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, err
		}
		defer cur.Close(ctx)
		cats := []model.Category{}
		if err := cur.All(ctx, &cats); err != nil {
			return nil, err
		}
		for i := range cats {
			byID[cats[i].ID] = &cats[i]
		}
	}
	out := make([]model.PopulatedProduct, len(products))
	for i, p := range products {
		out[i] = model.PopulatedProduct{Product: p, Category: byID[p.Category]}
	}
	return out, nil
}
