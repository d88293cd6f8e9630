package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStats aggregates order and revenue figures for a region
type OrderStats struct {
	TotalOrders    int64           `json:"totalOrders"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	AvgOrderValue  decimal.Decimal `json:"avgOrderValue"`
	TotalProducts  int64           `json:"totalProducts"`
	TotalCustomers int64           `json:"totalCustomers"`
}

// TopProduct is a product ranked by units sold
type TopProduct struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	TotalSold   int64           `json:"totalSold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// RecentOrder is an order joined with its customer and line item count
type RecentOrder struct {
	OrderID       uuid.UUID       `json:"orderId"`
	OrderDate     time.Time       `json:"orderDate"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	ItemCount     int64           `json:"itemCount"`
}

// HourlyTrend is the order volume and revenue of one hour bucket
type HourlyTrend struct {
	Hour       time.Time       `json:"hour"`
	OrderCount int64           `json:"orderCount"`
	Revenue    decimal.Decimal `json:"revenue"`
}
