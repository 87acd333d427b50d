package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types

	"github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for ports and
// costs.
type Config struct {
	Env        string // application environment (e.g. "dev", "prod")
	Port       string // HTTP port to listen on
	APIPrefix  string // path prefix all routes are mounted under (e.g. /api/v1)
	MongoURI   string // Mongo connection string
	DBName     string // Mongo database name
	JWTSecret  string // secret used to sign session tokens
	BcryptCost int    // bcrypt cost for password hashing
	SMTPHost   string // outbound mail server host
	SMTPPort   int    // outbound mail server port
	EmailUser  string // SMTP username, also the From address
	EmailPass  string // SMTP password
	UploadDir  string // filesystem directory product images are stored in
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is merged in first, so
// local development does not need exported variables.  Required variables
// are enforced by must() and missing values cause the program to exit with
// a fatal log message.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:        getenv("APP_ENV", "dev"),
		Port:       must("APP_PORT"),
		APIPrefix:  getenv("API_URL", "/api/v1"),
		MongoURI:   must("MONGO_URI"),
		DBName:     getenv("DB_NAME", "Ekoseller"),
		JWTSecret:  must("JWT_SECRET"),
		BcryptCost: envInt("BCRYPT_COST", 10),
		SMTPHost:   must("SMTP_HOST"),
		SMTPPort:   envInt("SMTP_PORT", 465),
		EmailUser:  must("EMAIL_USER"),
		EmailPass:  must("EMAIL_PASS"),
		UploadDir:  getenv("UPLOAD_DIR", "public/uploads"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
