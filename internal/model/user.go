package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold.  Seller accounts carry extra
// marketplace fields that are required at registration time.
const (
	RoleUser   = "user"
	RoleAdmin  = "admin"
	RoleSeller = "seller"
)

// User represents an account document in the `users` collection.
// Passwords are stored as bcrypt hashes; the one-time verification
// code and its expiry live directly on the user and are cleared once
// verification succeeds.
//
// Fields:
//  ID                  – Mongo object id.
//  Name                – display name.
//  Email               – unique login email.
//  Password            – bcrypt hash of the password.
//  Phone               – unique contact phone number.
//  Role                – one of user/admin/seller.
//  MarketLocation      – seller only: market the seller trades from.
//  Description         – seller only: free-text shop description.
//  LocalGovernmentArea – seller only: LGA the seller operates in.
//  State, Country      – address fields.
//  IsVerified          – true once the email OTP check has passed.
//  VerificationCode    – latest one-time code, empty when verified.
//  OTPExpiry           – instant the code stops being accepted.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	Password            string             `bson:"password" json:"-"`
	Phone               string             `bson:"phone" json:"phone"`
	Role                string             `bson:"role" json:"role"`
	MarketLocation      string             `bson:"marketLocation,omitempty" json:"marketLocation,omitempty"`
	Description         string             `bson:"description,omitempty" json:"description,omitempty"`
	LocalGovernmentArea string             `bson:"localGovernmentArea,omitempty" json:"localGovernmentArea,omitempty"`
	State               string             `bson:"state" json:"state"`
	Country             string             `bson:"country" json:"country"`
	IsVerified          bool               `bson:"isVerified" json:"isVerified"`
	VerificationCode    string             `bson:"verificationCode,omitempty" json:"-"`
	OTPExpiry           *time.Time         `bson:"otpExpiry,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the redacted projection returned by admin listings and
// the public sellers endpoint.  It never carries the password hash or
// OTP state.
type PublicUser struct {
	ID                  primitive.ObjectID `bson:"_id" json:"id"`
	Name                string             `bson:"name" json:"name"`
	Email               string             `bson:"email" json:"email"`
	Phone               string             `bson:"phone" json:"phone"`
	Role                string             `bson:"role" json:"role"`
	MarketLocation      string             `bson:"marketLocation,omitempty" json:"marketLocation,omitempty"`
	Description         string             `bson:"description,omitempty" json:"description,omitempty"`
	LocalGovernmentArea string             `bson:"localGovernmentArea,omitempty" json:"localGovernmentArea,omitempty"`
	State               string             `bson:"state" json:"state"`
	Country             string             `bson:"country" json:"country"`
	IsVerified          bool               `bson:"isVerified" json:"isVerified"`
}

// OTPRecord is an audit document in `user_otp_verifications`, keyed by
// email.  The verification path reads the copy on the user document;
// this collection keeps the latest issued code per address so OTP
// state can later be decoupled from the user record.
type OTPRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email"`
	OTP        string             `bson:"otp" json:"-"`
	ExpiryTime time.Time          `bson:"expiryTime" json:"expiryTime"`
}
