package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 20000, cfg.Seed.TotalRecords)
	assert.Equal(t, 1000, cfg.Seed.BatchSize)
	assert.Equal(t, 5, cfg.Seed.ParallelBatches)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
	assert.Equal(t, 5, cfg.Redis.RateLimit)
	assert.Equal(t, 60, cfg.Redis.RateLimitSecs)
	assert.Equal(t, []string{"us-east-2", "us-west-1", "ap-southeast-1"}, cfg.RegionCodes())
}

func TestLoadFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_REGION_B", "postgres://user:pw@west:5432/demo")
	t.Setenv("SEED_TOTAL_RECORDS", "2500")
	t.Setenv("SEED_PARALLEL_BATCHES", "2")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,,")

	cfg := Load()

	assert.Empty(t, cfg.Regions[0].URL)
	assert.Equal(t, "postgres://user:pw@west:5432/demo", cfg.Regions[1].URL)
	assert.Equal(t, 2500, cfg.Seed.TotalRecords)
	assert.Equal(t, 2, cfg.Seed.ParallelBatches)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a", "b"}, splitList(" a ,b, "))
}
