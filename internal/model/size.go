package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Size is a product size that is either numeric (shoe sizes, litres)
// or textual (S/M/L).  Exactly one branch is set.  It replaces the
// loosely typed mixed field the collection historically stored, while
// still reading and writing both shapes on the wire.
type Size struct {
	Numeric *float64
	Label   string
}

// NumericSize builds the numeric branch.
func NumericSize(v float64) Size { return Size{Numeric: &v} }

// LabelSize builds the textual branch.
func LabelSize(s string) Size { return Size{Label: s} }

// IsZero reports whether neither branch is set.
func (s Size) IsZero() bool { return s.Numeric == nil && s.Label == "" }

// String renders the active branch for logs and error messages.
func (s Size) String() string {
	if s.Numeric != nil {
		return strconv.FormatFloat(*s.Numeric, 'f', -1, 64)
	}
	return s.Label
}

// MarshalJSON writes the numeric branch as a JSON number and the
// textual branch as a JSON string, matching what API clients already
// send and receive.
func (s Size) MarshalJSON() ([]byte, error) {
	if s.Numeric != nil {
		return json.Marshal(*s.Numeric)
	}
	return json.Marshal(s.Label)
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (s *Size) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		s.Numeric = &n
		s.Label = ""
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		s.Numeric = nil
		s.Label = str
		return nil
	}
	return errors.New("size must be a number or a string")
}

// MarshalBSONValue stores the active branch in its native BSON type so
// documents written by older clients and by this service stay
// interchangeable.
func (s Size) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if s.Numeric != nil {
		return bson.MarshalValue(*s.Numeric)
	}
	return bson.MarshalValue(s.Label)
}

// UnmarshalBSONValue reads doubles, 32/64-bit ints and strings.
func (s *Size) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeDouble:
		v := rv.Double()
		s.Numeric = &v
		s.Label = ""
	case bson.TypeInt32:
		v := float64(rv.Int32())
		s.Numeric = &v
		s.Label = ""
	case bson.TypeInt64:
		v := float64(rv.Int64())
		s.Numeric = &v
		s.Label = ""
	case bson.TypeString:
		s.Numeric = nil
		s.Label = rv.StringValue()
	case bson.TypeNull:
		*s = Size{}
	default:
		return fmt.Errorf("size: unsupported bson type %s", t)
	}
	return nil
}
