package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Env holds all runtime configuration, loaded once at startup.
type Env struct {
	AppAddr       string
	GinMode       string
	DBUser        string
	DBPass        string
	DBHost        string
	DBName        string
	JWTSecret     string
	JWTTTL        time.Duration
	CloudinaryURL string
	CORSOrigins   []string
}

// Loaded is the env snapshot set by LoadEnv. Auth handlers read token settings from here.
var Loaded Env

// LoadEnv reads configuration from the environment with defaults suitable for local dev.
func LoadEnv() Env {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ADDR", ":4000")
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASS", "")
	v.SetDefault("DB_HOST", "127.0.0.1:3306")
	v.SetDefault("DB_NAME", "storefront")
	v.SetDefault("JWT_SECRET", "super-secret-key-change-me")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("CLOUDINARY_URL", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	ttl, err := time.ParseDuration(strings.TrimSpace(v.GetString("JWT_TTL")))
	if err != nil || ttl <= 0 {
		ttl = 24 * time.Hour
	}

	origins := []string{}
	for _, o := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}

	Loaded = Env{
		AppAddr:       strings.TrimSpace(v.GetString("APP_ADDR")),
		GinMode:       strings.TrimSpace(v.GetString("GIN_MODE")),
		DBUser:        v.GetString("DB_USER"),
		DBPass:        v.GetString("DB_PASS"),
		DBHost:        v.GetString("DB_HOST"),
		DBName:        v.GetString("DB_NAME"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTTTL:        ttl,
		CloudinaryURL: strings.TrimSpace(v.GetString("CLOUDINARY_URL")),
		CORSOrigins:   origins,
	}
	return Loaded
}
