package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"region-latency-demo/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAnalyticsTest(t *testing.T) (AnalyticsRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewAnalyticsRepository(db), mock
}

func TestGetOrderStats(t *testing.T) {
	repo, mock := setupAnalyticsTest(t)

	mock.ExpectQuery(`FROM orders o`).WillReturnRows(
		sqlmock.NewRows([]string{"count", "sum", "avg", "products", "customers"}).
			AddRow(int64(3), "300.00", "100.004", int64(5), int64(2)),
	)

	stats, err := repo.GetOrderStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.True(t, decimal.RequireFromString("300").Equal(stats.TotalRevenue))
	assert.Equal(t, "100", stats.AvgOrderValue.String())
	assert.Equal(t, int64(5), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.TotalCustomers)
}

func TestGetOrderStatsError(t *testing.T) {
	repo, mock := setupAnalyticsTest(t)
	dbErr := errors.New("relation \"orders\" does not exist")

	mock.ExpectQuery(`FROM orders o`).WillReturnError(dbErr)

	_, err := repo.GetOrderStats(context.Background())
	assert.ErrorIs(t, err, dbErr)
}

func TestGetTopProducts(t *testing.T) {
	repo, mock := setupAnalyticsTest(t)
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery(`ORDER BY revenue DESC, total_sold DESC`).WithArgs(10).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name", "total_sold", "revenue"}).
			AddRow(first.String(), "Desk", int64(4), "800.00").
			AddRow(second.String(), "Chair", int64(12), "240.00"),
	)

	products, err := repo.GetTopProducts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, first, products[0].ProductID)
	assert.Equal(t, "Desk", products[0].ProductName)
	assert.True(t, decimal.RequireFromString("800").Equal(products[0].Revenue))
	assert.Equal(t, int64(12), products[1].TotalSold)
}

func TestGetTopProductsEmptyIsNotNil(t *testing.T) {
	repo, mock := setupAnalyticsTest(t)

	mock.ExpectQuery(`ORDER BY revenue DESC, total_sold DESC`).WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "total_sold", "revenue"}))

	products, err := repo.GetTopProducts(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestGetRecentOrders(t *testing.T) {
	repo, mock := setupAnalyticsTest(t)
	orderID := uuid.New()
	placed := time.Date(2025, 4, 3, 12, 30, 0, 0, time.UTC)

	mock.ExpectQuery(`JOIN users u`).WithArgs(20).WillReturnRows(
		sqlmock.NewRows([]string{"id", "created_at", "total", "status", "name", "email", "item_count"}).
			AddRow(orderID.String(), placed, "49.99", "completed", "Ada", "user.1.ada@example.com", int64(3)),
	)

	orders, err := repo.GetRecentOrders(context.Background(), 20)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].OrderID)
	assert.Equal(t, placed, orders[0].OrderDate)
	assert.Equal(t, domain.OrderStatusCompleted, orders[0].Status)
	assert.Equal(t, "Ada", orders[0].CustomerName)
	assert.Equal(t, int64(3), orders[0].ItemCount)
}

func TestGetRecentOrdersRowError(t *testing.T) {
	repo, mock := setupAnalyticsTest(t)
	rowErr := errors.New("network blip")

	mock.ExpectQuery(`JOIN users u`).WithArgs(20).WillReturnRows(
		sqlmock.NewRows([]string{"id", "created_at", "total", "status", "name", "email", "item_count"}).
			AddRow(uuid.NewString(), time.Now(), "1.00", "pending", "A", "a@example.com", int64(1)).
			RowError(0, rowErr),
	)

	_, err := repo.GetRecentOrders(context.Background(), 20)
	assert.ErrorIs(t, err, rowErr)
}

func TestGetHourlyTrends(t *testing.T) {
	repo, mock := setupAnalyticsTest(t)
	since := time.Date(2025, 4, 2, 12, 0, 0, 0, time.UTC)
	hour := since.Add(time.Hour)

	mock.ExpectQuery(`date_trunc\('hour', created_at\)`).WithArgs(since).WillReturnRows(
		sqlmock.NewRows([]string{"hour", "count", "sum"}).AddRow(hour, int64(7), "512.30"),
	)

	trends, err := repo.GetHourlyTrends(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, hour, trends[0].Hour)
	assert.Equal(t, int64(7), trends[0].OrderCount)
	assert.True(t, decimal.RequireFromString("512.3").Equal(trends[0].Revenue))
}

func TestCountUsers(t *testing.T) {
	repo, mock := setupAnalyticsTest(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(20000)))

	count, err := repo.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(20000), count)
}
