package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOTPShape(t *testing.T) {
	code, expiry, err := NewOTP()
	require.NoError(t, err)
	require.Len(t, code, OTPLength)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "otp must be digits, got %q", code)
	}
	assert.WithinDuration(t, time.Now().Add(OTPLifetime), expiry, 5*time.Second)
}

func TestNewOTPVaries(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, _, err := NewOTP()
		require.NoError(t, err)
		seen[code] = true
	}
	// 20 draws from a million-value space collapsing to one value
	// would mean the generator is broken.
	assert.Greater(t, len(seen), 1)
}
