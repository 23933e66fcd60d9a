package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"performance-core/internal/config"
)

func TestPoolConfigFrom(t *testing.T) {
	t.Run("defaults for unset values", func(t *testing.T) {
		pool := poolConfigFrom(config.DatabaseConfig{})
		assert.Equal(t, 25, pool.MaxOpenConns)
		assert.Equal(t, 5, pool.MaxIdleConns)
		assert.Equal(t, 5*time.Minute, pool.ConnMaxLifetime)
	})

	t.Run("configured values", func(t *testing.T) {
		pool := poolConfigFrom(config.DatabaseConfig{MaxOpenConns: 10, MaxIdleConns: 4, ConnMaxLifetime: 60})
		assert.Equal(t, 10, pool.MaxOpenConns)
		assert.Equal(t, 4, pool.MaxIdleConns)
		assert.Equal(t, time.Minute, pool.ConnMaxLifetime)
	})

	t.Run("idle never exceeds open", func(t *testing.T) {
		pool := poolConfigFrom(config.DatabaseConfig{MaxOpenConns: 2, MaxIdleConns: 8})
		assert.Equal(t, 2, pool.MaxIdleConns)
	})
}

func TestDSN(t *testing.T) {
	got := dsn(config.DatabaseConfig{
		Host: "db", Port: 5432, User: "performance", Password: "pw", DBName: "performance_core", SSLMode: "disable",
	})
	assert.Equal(t, "host=db port=5432 user=performance password=pw dbname=performance_core sslmode=disable", got)
}
