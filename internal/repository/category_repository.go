package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ekoseller/eko-seller-api/internal/model"
)

// CategoryRepo provides access to the `categories` collection.
type CategoryRepo struct{ c *mongo.Collection }

func NewCategoryRepo(db *mongo.Database) *CategoryRepo {
	return &CategoryRepo{c: db.Collection("categories")}
}

// Create inserts a category and fills in its generated id.
func (r *CategoryRepo) Create(ctx context.Context, cat *model.Category) error {
	res, err := r.c.InsertOne(ctx, cat)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	cat.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID fetches a category by id.
func (r *CategoryRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	var cat model.Category
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cat)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// List returns every category with its parent's name joined in.
func (r *CategoryRepo) List(ctx context.Context) ([]model.PopulatedCategory, error) {
	cur, err := r.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	cats := []model.Category{}
	if err := cur.All(ctx, &cats); err != nil {
		return nil, err
	}
	names := map[primitive.ObjectID]string{}
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	out := make([]model.PopulatedCategory, len(cats))
	for i, c := range cats {
		out[i] = model.PopulatedCategory{Category: c}
		if c.ParentCategory != nil {
			out[i].ParentName = names[*c.ParentCategory]
		}
	}
	return out, nil
}

// PopulateParent resolves a single category's parent name.
func (r *CategoryRepo) PopulateParent(ctx context.Context, cat *model.Category) (*model.PopulatedCategory, error) {
	out := &model.PopulatedCategory{Category: *cat}
	if cat.ParentCategory == nil {
		return out, nil
	}
	parent, err := r.FindByID(ctx, *cat.ParentCategory)
	if err == ErrNotFound {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	out.ParentName = parent.Name
	return out, nil
}

// Update replaces the mutable fields of a category and returns the
// new document.
func (r *CategoryRepo) Update(ctx context.Context, id primitive.ObjectID, name, icon, color string) (*model.Category, error) {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if icon != "" {
		set["icon"] = icon
	}
	if color != "" {
		set["color"] = color
	}
	// The server rejects an empty $set; with no fields to change the
	// current document is the result.
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}
	res := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After))
	var cat model.Category
	err := res.Decode(&cat)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// Delete removes a category outright.
func (r *CategoryRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
