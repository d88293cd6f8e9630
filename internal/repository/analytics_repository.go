package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"region-latency-demo/internal/domain"
)

// AnalyticsRepository runs the read-only aggregate queries of one region
type AnalyticsRepository interface {
	GetOrderStats(ctx context.Context) (*domain.OrderStats, error)
	GetTopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)
	GetRecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error)
	GetHourlyTrends(ctx context.Context, since time.Time) ([]domain.HourlyTrend, error)
	CountUsers(ctx context.Context) (int64, error)
}

type analyticsRepository struct {
	db *sql.DB
}

// NewAnalyticsRepository creates a new instance of AnalyticsRepository
func NewAnalyticsRepository(db *sql.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetOrderStats(ctx context.Context) (*domain.OrderStats, error) {
	query := `
		SELECT
			COUNT(DISTINCT o.id),
			COALESCE(SUM(o.total), 0),
			COALESCE(AVG(o.total), 0),
			(SELECT COUNT(DISTINCT oi.product_id) FROM order_items oi),
			COUNT(DISTINCT o.user_id)
		FROM orders o
	`

	stats := &domain.OrderStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.TotalOrders,
		&stats.TotalRevenue,
		&stats.AvgOrderValue,
		&stats.TotalProducts,
		&stats.TotalCustomers,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get order stats: %w", err)
	}

	stats.AvgOrderValue = stats.AvgOrderValue.Round(2)
	return stats, nil
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	query := `
		SELECT p.id, p.name, SUM(oi.quantity) AS total_sold, SUM(oi.quantity * oi.price) AS revenue
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		GROUP BY p.id, p.name
		ORDER BY revenue DESC, total_sold DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top products: %w", err)
	}
	defer rows.Close()

	products := []domain.TopProduct{}
	for rows.Next() {
		var p domain.TopProduct
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.TotalSold, &p.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top products: %w", err)
	}

	return products, nil
}

func (r *analyticsRepository) GetRecentOrders(ctx context.Context, limit int) ([]domain.RecentOrder, error) {
	query := `
		SELECT o.id, o.created_at, o.total, o.status, u.name, u.email, COUNT(oi.id) AS item_count
		FROM orders o
		JOIN users u ON u.id = o.user_id
		LEFT JOIN order_items oi ON oi.order_id = o.id
		GROUP BY o.id, o.created_at, o.total, o.status, u.name, u.email
		ORDER BY o.created_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.RecentOrder{}
	for rows.Next() {
		var o domain.RecentOrder
		var status string
		if err := rows.Scan(&o.OrderID, &o.OrderDate, &o.Total, &status, &o.CustomerName, &o.CustomerEmail, &o.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan recent order: %w", err)
		}
		o.Status = domain.OrderStatus(status)
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recent orders: %w", err)
	}

	return orders, nil
}

func (r *analyticsRepository) GetHourlyTrends(ctx context.Context, since time.Time) ([]domain.HourlyTrend, error) {
	query := `
		SELECT date_trunc('hour', created_at) AS hour, COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE created_at >= $1
		GROUP BY hour
		ORDER BY hour
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get hourly trends: %w", err)
	}
	defer rows.Close()

	trends := []domain.HourlyTrend{}
	for rows.Next() {
		var t domain.HourlyTrend
		if err := rows.Scan(&t.Hour, &t.OrderCount, &t.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan hourly trend: %w", err)
		}
		trends = append(trends, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hourly trends: %w", err)
	}

	return trends, nil
}

func (r *analyticsRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
