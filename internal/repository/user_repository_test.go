package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUserFilterQuery(t *testing.T) {
	assert.Equal(t, bson.M{}, UserFilter{}.query())

	verified := true
	q := UserFilter{
		Role:       "seller",
		State:      "Lagos",
		Country:    "Nigeria",
		IsVerified: &verified,
	}.query()
	assert.Equal(t, bson.M{
		"role":       "seller",
		"state":      "Lagos",
		"country":    "Nigeria",
		"isVerified": true,
	}, q)

	unverified := false
	q = UserFilter{IsVerified: &unverified}.query()
	assert.Equal(t, bson.M{"isVerified": false}, q)
}
