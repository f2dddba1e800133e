package config

import (
	"os"      // For file checks
	"strings" // For list parsing
	"time"    // For durations

	"github.com/joho/godotenv" // For loading .env files
	"github.com/spf13/viper"   // For defaults and typed lookups
)

// Environments
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

// Auth strategy selectors
const (
	AuthBasic = "basic" // HTTP Basic only
	AuthToken = "token" // Bearer token only
	AuthAny   = "any"   // Whichever scheme the request uses
)

// Config holds the application configuration
type Config struct {
	Env              string        // development, testing or production
	AppHost          string        // Bind address
	AppPort          string        // Application port
	LogLevel         string        // logrus level name
	DBDriver         string        // mysql, postgres or memory
	DBUser           string        // Database user
	DBPassword       string        // Database password
	DBHost           string        // Database host
	DBPort           string        // Database port
	DBName           string        // Database name
	DBSSLMode        string        // PostgreSQL sslmode
	AutoMigrate      bool          // Run schema migration on start
	RedisAddr        string        // Redis server address, empty disables caching
	RedisPass        string        // Redis password
	RedisDB          int           // Redis database number
	CacheTTL         time.Duration // TTL of cached entities
	AuthStrategy     string        // basic, token or any
	APIToken         string        // Token accepted by the static token resolver
	APITokenUserID   uint          // User the static token resolves to
	JWTSecret        string        // When set, bearer tokens are verified as JWTs
	JWTTTL           time.Duration // Lifetime of tokens issued by POST /tokens
	EnforceOwnership bool          // Only owners and admins may mutate resources
	BcryptCost       int           // Password hashing cost
	TrustedProxies   []string      // Proxies trusted for client IPs
}

// IsProd reports whether the production profile is active
func (c *Config) IsProd() bool { return c.Env == EnvProduction }

// Addr is the listen address
func (c *Config) Addr() string { return c.AppHost + ":" + c.AppPort }

// LoadConfig loads .env, then .env.<APP_ENV> overrides, then resolves every key
// from the environment with per-profile defaults
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	env := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV")))
	if env == "" {
		env = EnvDevelopment
	}
	if _, err := os.Stat(".env." + env); err == nil {
		_ = godotenv.Overload(".env." + env) // Profile file wins over .env
	}
	return fromEnv(env)
}

func fromEnv(env string) *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_HOST", "127.0.0.1")
	v.SetDefault("APP_PORT", "5000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "blog")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "60s")
	v.SetDefault("AUTH_STRATEGY", AuthBasic)
	v.SetDefault("API_TOKEN", "test-token")
	v.SetDefault("API_TOKEN_USER_ID", 1)
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("ENFORCE_OWNERSHIP", false)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("TRUSTED_PROXIES", "127.0.0.1,::1")

	switch env {
	case EnvTesting:
		v.SetDefault("APP_PORT", "5001")
		v.SetDefault("DB_DRIVER", "memory")
		v.SetDefault("BCRYPT_COST", 4)
	case EnvProduction:
		v.SetDefault("APP_HOST", "0.0.0.0")
		v.SetDefault("APP_PORT", "8000")
		v.SetDefault("API_TOKEN", "") // The static token is a development aid
	}
	if strings.EqualFold(v.GetString("DB_DRIVER"), "postgres") {
		v.SetDefault("DB_PORT", "5432")
	}

	return &Config{
		Env:              env,
		AppHost:          v.GetString("APP_HOST"),
		AppPort:          v.GetString("APP_PORT"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		DBDriver:         strings.ToLower(v.GetString("DB_DRIVER")),
		DBUser:           v.GetString("DB_USER"),
		DBPassword:       v.GetString("DB_PASSWORD"),
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetString("DB_PORT"),
		DBName:           v.GetString("DB_NAME"),
		DBSSLMode:        v.GetString("DB_SSLMODE"),
		AutoMigrate:      v.GetBool("AUTO_MIGRATE"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPass:        v.GetString("REDIS_PASS"),
		RedisDB:          v.GetInt("REDIS_DB"),
		CacheTTL:         v.GetDuration("CACHE_TTL"),
		AuthStrategy:     strings.ToLower(v.GetString("AUTH_STRATEGY")),
		APIToken:         v.GetString("API_TOKEN"),
		APITokenUserID:   v.GetUint("API_TOKEN_USER_ID"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTTTL:           v.GetDuration("JWT_TTL"),
		EnforceOwnership: v.GetBool("ENFORCE_OWNERSHIP"),
		BcryptCost:       v.GetInt("BCRYPT_COST"),
		TrustedProxies:   splitList(v.GetString("TRUSTED_PROXIES")),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
