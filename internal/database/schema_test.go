package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"region-latency-demo/internal/domain"
)

const migrationsDir = "../../migrations"

var expectedMigrations = map[string]string{
	"users":       "00001_create_users_table.sql",
	"products":    "00002_create_products_table.sql",
	"orders":      "00003_create_orders_table.sql",
	"order_items": "00004_create_order_items_table.sql",
}

func readMigration(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(migrationsDir, name))
	require.NoError(t, err, "failed to read migration %s", name)
	return string(content)
}

func TestMigrationFilesExist(t *testing.T) {
	_, err := os.Stat(migrationsDir)
	require.NoError(t, err, "migrations directory does not exist")

	for _, migration := range expectedMigrations {
		_, err := os.Stat(filepath.Join(migrationsDir, migration))
		assert.NoError(t, err, "migration file %s does not exist", migration)
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := os.ReadDir(migrationsDir)
	require.NoError(t, err)

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}
		sqlFileCount++

		content := readMigration(t, file.Name())
		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			assert.Contains(t, content, directive, "migration %s missing directive", file.Name())
		}

		// Down must come after Up so goose applies the right half
		assert.Less(t, strings.Index(content, "-- +goose Up"), strings.Index(content, "-- +goose Down"), file.Name())
	}

	assert.Equal(t, len(expectedMigrations), sqlFileCount)
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	for table, migration := range expectedMigrations {
		content := readMigration(t, migration)
		assert.Contains(t, content, "CREATE TABLE IF NOT EXISTS "+table+" (", migration)
		assert.Contains(t, content, "DROP TABLE IF EXISTS "+table+";", migration)
	}
}

func TestEveryTableHasUUIDKeyAndTimestamps(t *testing.T) {
	for table, migration := range expectedMigrations {
		content := readMigration(t, migration)
		assert.Contains(t, content, "id UUID PRIMARY KEY DEFAULT gen_random_uuid()", table)
		assert.Contains(t, content, "created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP", table)
		assert.Contains(t, content, "updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP", table)
	}
}

func TestMonetaryColumnsUseTwoDecimalPlaces(t *testing.T) {
	cases := map[string]string{
		"00002_create_products_table.sql":    "price NUMERIC(10, 2) NOT NULL",
		"00003_create_orders_table.sql":      "total NUMERIC(10, 2) NOT NULL",
		"00004_create_order_items_table.sql": "price NUMERIC(10, 2) NOT NULL",
	}
	for migration, column := range cases {
		assert.Contains(t, readMigration(t, migration), column)
	}
}

func TestForeignKeys(t *testing.T) {
	orders := readMigration(t, "00003_create_orders_table.sql")
	assert.Contains(t, orders, "FOREIGN KEY (user_id) REFERENCES users(id)")

	items := readMigration(t, "00004_create_order_items_table.sql")
	assert.Contains(t, items, "FOREIGN KEY (order_id) REFERENCES orders(id)")
	assert.Contains(t, items, "FOREIGN KEY (product_id) REFERENCES products(id)")
}

func TestOrdersStatusConstraintMatchesDomain(t *testing.T) {
	content := readMigration(t, "00003_create_orders_table.sql")
	require.Contains(t, content, "CHECK (status IN (")

	for _, status := range domain.OrderStatuses {
		assert.Contains(t, content, "'"+string(status)+"'", "status constraint missing %s", status)
	}
}

func TestUsersEmailIsUnique(t *testing.T) {
	assert.Contains(t, readMigration(t, "00001_create_users_table.sql"), "email TEXT NOT NULL UNIQUE")
}
