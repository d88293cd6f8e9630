package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Regions  []RegionConfig
	Seed     SeedConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// RegionConfig binds a region code to the connection string of its database
type RegionConfig struct {
	Code string
	URL  string
}

type SeedConfig struct {
	TotalRecords    int
	BatchSize       int
	ParallelBatches int
}

type DatabaseConfig struct {
	MaxConns      int32
	MigrationsDir string
	AutoMigrate   bool
}

type RedisConfig struct {
	Addr          string
	Password      string
	DB            int
	RateLimit     int // requests per window
	RateLimitSecs int
}

type AuthConfig struct {
	JWTSecret string
}

// regionKeys pairs each fixed region code with the env var holding its DSN
var regionKeys = []struct {
	code string
	key  string
}{
	{"us-east-2", "DATABASE_REGION_A"},
	{"us-west-1", "DATABASE_REGION_B"},
	{"ap-southeast-1", "DATABASE_REGION_C"},
}

func Load() *Config {
	// Populate the process environment for anything reading os.Getenv directly
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env into environment: %v", err)
	}

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("SEED_TOTAL_RECORDS", 20000)
	viper.SetDefault("SEED_BATCH_SIZE", 1000)
	viper.SetDefault("SEED_PARALLEL_BATCHES", 5)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("DB_MIGRATIONS_DIR", "migrations")
	viper.SetDefault("DB_AUTO_MIGRATE", false)
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_LIMIT_REQUESTS", 5)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	regions := make([]RegionConfig, 0, len(regionKeys))
	for _, rk := range regionKeys {
		regions = append(regions, RegionConfig{
			Code: rk.code,
			URL:  viper.GetString(rk.key),
		})
	}

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Regions: regions,
		Seed: SeedConfig{
			TotalRecords:    viper.GetInt("SEED_TOTAL_RECORDS"),
			BatchSize:       viper.GetInt("SEED_BATCH_SIZE"),
			ParallelBatches: viper.GetInt("SEED_PARALLEL_BATCHES"),
		},
		Database: DatabaseConfig{
			MaxConns:      viper.GetInt32("DB_MAX_CONNS"),
			MigrationsDir: viper.GetString("DB_MIGRATIONS_DIR"),
			AutoMigrate:   viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Addr:          viper.GetString("REDIS_ADDR"),
			Password:      viper.GetString("REDIS_PASSWORD"),
			DB:            viper.GetInt("REDIS_DB"),
			RateLimit:     viper.GetInt("RATE_LIMIT_REQUESTS"),
			RateLimitSecs: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("JWT_SECRET"),
		},
	}
}

// IsDevelopment reports whether the server runs outside production
func (c *Config) IsDevelopment() bool {
	return c.Server.Env != "production"
}

// RegionCodes returns the configured region codes in their fixed order
func (c *Config) RegionCodes() []string {
	codes := make([]string, len(c.Regions))
	for i, r := range c.Regions {
		codes[i] = r.Code
	}
	return codes
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
