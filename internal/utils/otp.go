package utils

import (
	"crypto/rand" // secure random number generation
	"time"
)

// OTPLength is the number of digits in a one-time code.
const OTPLength = 6

// OTPLifetime is how long a freshly issued code stays valid.
const OTPLifetime = 15 * time.Minute

// NewOTP returns a numeric one-time code of OTPLength digits generated
// from cryptographically secure random data, together with its expiry.
func NewOTP() (string, time.Time, error) {
	buf := make([]byte, OTPLength)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, err
	}
	digits := make([]byte, OTPLength)
	for i, b := range buf {
		digits[i] = '0' + b%10
	}
	return string(digits), time.Now().UTC().Add(OTPLifetime), nil
}
