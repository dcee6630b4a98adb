package config

import (
	"fmt"
	"os"
)

// Config holds the environment-supplied settings. Values are read once at
// startup and are not validated beyond defaulting.
type Config struct {
	Port            string
	MongoURI        string
	DBName          string
	StripeSecretKey string
}

func Load() Config {
	return Config{
		Port:            envOr("PORT", "3000"),
		MongoURI:        mongoURI(),
		DBName:          envOr("DB_NAME", "parcelDB"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
	}
}

// mongoURI prefers an explicit MONGODB_URI and otherwise assembles the
// cluster URI from DB_USER/DB_PASS credentials.
func mongoURI() string {
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		return uri
	}
	return fmt.Sprintf(
		"mongodb+srv://%s:%s@cluster0.ydu4ilk.mongodb.net/?retryWrites=true&w=majority&appName=Cluster0",
		os.Getenv("DB_USER"), os.Getenv("DB_PASS"),
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
