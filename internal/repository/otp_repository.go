package repository

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ekoseller/eko-seller-api/internal/model"
)

// OTPRepo keeps the latest issued code per email address in the
// `user_otp_verifications` collection. It is an audit trail beside
// the copy stored on the user document, which is what the verify
// flow reads.
type OTPRepo struct{ c *mongo.Collection }

func NewOTPRepo(db *mongo.Database) *OTPRepo {
	return &OTPRepo{c: db.Collection("user_otp_verifications")}
}

// EnsureIndexes creates the unique email index.
func (r *OTPRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Upsert records the code most recently issued to an address,
// replacing any earlier record.
func (r *OTPRepo) Upsert(ctx context.Context, email, code string, expiry time.Time) error {
	rec := model.OTPRecord{
		Email:      strings.ToLower(strings.TrimSpace(email)),
		OTP:        code,
		ExpiryTime: expiry,
	}
	_, err := r.c.UpdateOne(ctx,
		bson.M{"email": rec.Email},
		bson.M{"$set": bson.M{"otp": rec.OTP, "expiryTime": rec.ExpiryTime}},
		options.Update().SetUpsert(true))
	return err
}
