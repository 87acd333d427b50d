package config

import (
	"os"
	"strconv"
	"time"
)

// OTPRateLimitConfig defines the per-IP limit applied to the resend-OTP
// endpoint: at most Max requests inside a sliding Window.  When Enabled
// is false or no Redis client is available the limiter is a no-op.
type OTPRateLimitConfig struct {
	Enabled bool
	Max     int
	Window  time.Duration
	Prefix  string
}

// LoadOTPRateLimitConfig reads environment variables to build an
// OTPRateLimitConfig.  The defaults implement the documented policy of
// 3 requests per 15-minute window.
func LoadOTPRateLimitConfig() OTPRateLimitConfig {
	def := OTPRateLimitConfig{
		Enabled: envBool("OTP_RATE_LIMIT_ENABLED", true),
		Max:     envIntDef("OTP_RATE_LIMIT_MAX", 3),
		Window:  envDur("OTP_RATE_LIMIT_WINDOW", 15*time.Minute),
		Prefix:  getenv("OTP_RATE_LIMIT_PREFIX", "otp_rl"),
	}
	if def.Max < 1 {
		def.Max = 1
	}
	if def.Window <= 0 {
		def.Window = 15 * time.Minute
	}
	return def
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envIntDef(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
