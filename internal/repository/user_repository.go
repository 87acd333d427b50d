package repository

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ekoseller/eko-seller-api/internal/model"
)

// redactedProjection strips credential and OTP fields from user reads
// that leave the service.
var redactedProjection = bson.M{
	"password":         0,
	"verificationCode": 0,
	"otpExpiry":        0,
}

// UserRepo provides access to the `users` collection.
type UserRepo struct{ c *mongo.Collection }

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{c: db.Collection("users")}
}

// EnsureIndexes creates the unique indexes the registration flow
// relies on. Safe to call on every start.
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

// Create inserts a new user. It reports ErrDuplicate when the email
// or phone is already registered, both via a pre-check (so the caller
// gets a clean 409 for the common case) and via the unique index for
// races the pre-check cannot see.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	count, err := r.c.CountDocuments(ctx, bson.M{
		"$or": []bson.M{{"email": u.Email}, {"phone": u.Phone}},
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	res, err := r.c.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByEmail fetches a full user document by normalized email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.c.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID fetches a full user document by id.
func (r *UserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var u model.User
	err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindPublicByID fetches the redacted projection of a user.
func (r *UserRepo) FindPublicByID(ctx context.Context, id primitive.ObjectID) (*model.PublicUser, error) {
	var u model.PublicUser
	err := r.c.FindOne(ctx, bson.M{"_id": id},
		options.FindOne().SetProjection(redactedProjection)).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	Role       string
	State      string
	Country    string
	IsVerified *bool
}

func (f UserFilter) query() bson.M {
	q := bson.M{}
	if f.Role != "" {
		q["role"] = f.Role
	}
	if f.State != "" {
		q["state"] = f.State
	}
	if f.Country != "" {
		q["country"] = f.Country
	}
	if f.IsVerified != nil {
		q["isVerified"] = *f.IsVerified
	}
	return q
}

// List returns a redacted page of users plus the total match count.
func (r *UserRepo) List(ctx context.Context, f UserFilter, page, limit int) ([]model.PublicUser, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	q := f.query()
	opts := options.Find().
		SetProjection(redactedProjection).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cur, err := r.c.Find(ctx, q, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	users := []model.PublicUser{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	total, err := r.c.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SellerFilter narrows the public sellers listing.
type SellerFilter struct {
	State               string
	LocalGovernmentArea string
	MarketLocation      string
}

// ListSellers returns redacted seller profiles for the public
// directory, capped at limit.
func (r *UserRepo) ListSellers(ctx context.Context, f SellerFilter, limit int) ([]model.PublicUser, error) {
	q := bson.M{"role": model.RoleSeller}
	if f.State != "" {
		q["state"] = f.State
	}
	if f.LocalGovernmentArea != "" {
		q["localGovernmentArea"] = f.LocalGovernmentArea
	}
	if f.MarketLocation != "" {
		q["marketLocation"] = f.MarketLocation
	}
	opts := options.Find().
		SetProjection(redactedProjection).
		SetLimit(int64(limit))
	cur, err := r.c.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	sellers := []model.PublicUser{}
	if err := cur.All(ctx, &sellers); err != nil {
		return nil, err
	}
	return sellers, nil
}

// SetOTP overwrites the stored one-time code and its expiry. Only the
// latest code is ever valid.
func (r *UserRepo) SetOTP(ctx context.Context, id primitive.ObjectID, code string, expiry time.Time) error {
	res, err := r.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"verificationCode": code,
		"otpExpiry":        expiry,
		"updatedAt":        time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkVerified flips the user to Verified and clears the code and
// expiry so the code cannot be replayed.
func (r *UserRepo) MarkVerified(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.UpdateByID(ctx, id, bson.M{
		"$set":   bson.M{"isVerified": true, "updatedAt": time.Now().UTC()},
		"$unset": bson.M{"verificationCode": "", "otpExpiry": ""},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ProfileUpdate carries the merge-style profile fields; empty values
// leave the stored value untouched.
type ProfileUpdate struct {
	Name                string
	Email               string
	Phone               string
	MarketLocation      string
	Description         string
	LocalGovernmentArea string
	State               string
	Country             string
}

// UpdateProfile merges the non-empty fields into the user document and
// returns the updated document.
func (r *UserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, p ProfileUpdate) (*model.User, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if p.Name != "" {
		set["name"] = p.Name
	}
	if p.Email != "" {
		set["email"] = strings.ToLower(strings.TrimSpace(p.Email))
	}
	if p.Phone != "" {
		set["phone"] = p.Phone
	}
	if p.MarketLocation != "" {
		set["marketLocation"] = p.MarketLocation
	}
	if p.Description != "" {
		set["description"] = p.Description
	}
	if p.LocalGovernmentArea != "" {
		set["localGovernmentArea"] = p.LocalGovernmentArea
	}
	if p.State != "" {
		set["state"] = p.State
	}
	if p.Country != "" {
		set["country"] = p.Country
	}
	var u model.User
	err := r.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return &u, nil
}

// Delete removes a user outright.
func (r *UserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
