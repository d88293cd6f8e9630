package repository

import (
	"context"
	"fmt"

	"region-latency-demo/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Copier is the subset of pgxpool.Pool used for bulk inserts
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// BulkWriter inserts one batch of generated records per call
type BulkWriter interface {
	InsertUsers(ctx context.Context, users []domain.User) error
	InsertProducts(ctx context.Context, products []domain.Product) error
	InsertOrders(ctx context.Context, orders []domain.Order) error
	InsertOrderItems(ctx context.Context, items []domain.OrderItem) error
}

var (
	userColumns      = []string{"id", "email", "name", "avatar_url", "created_at", "updated_at"}
	productColumns   = []string{"id", "name", "description", "price", "stock", "created_at", "updated_at"}
	orderColumns     = []string{"id", "user_id", "status", "total", "created_at", "updated_at"}
	orderItemColumns = []string{"id", "order_id", "product_id", "quantity", "price", "created_at", "updated_at"}
)

type bulkWriter struct {
	copier Copier
}

// NewBulkWriter creates a BulkWriter that streams batches with COPY
func NewBulkWriter(copier Copier) BulkWriter {
	return &bulkWriter{copier: copier}
}

func (w *bulkWriter) InsertUsers(ctx context.Context, users []domain.User) error {
	return w.copy(ctx, "users", userColumns, len(users), func(i int) ([]any, error) {
		u := users[i]
		return []any{pgUUID(u.ID), u.Email, u.Name, u.AvatarURL, u.CreatedAt, u.UpdatedAt}, nil
	})
}

func (w *bulkWriter) InsertProducts(ctx context.Context, products []domain.Product) error {
	return w.copy(ctx, "products", productColumns, len(products), func(i int) ([]any, error) {
		p := products[i]
		return []any{pgUUID(p.ID), p.Name, p.Description, pgNumeric(p.Price), int32(p.Stock), p.CreatedAt, p.UpdatedAt}, nil
	})
}

func (w *bulkWriter) InsertOrders(ctx context.Context, orders []domain.Order) error {
	return w.copy(ctx, "orders", orderColumns, len(orders), func(i int) ([]any, error) {
		o := orders[i]
		if !o.Status.Valid() {
			return nil, fmt.Errorf("order %s has unknown status %q", o.ID, o.Status)
		}
		return []any{pgUUID(o.ID), pgUUID(o.UserID), string(o.Status), pgNumeric(o.Total), o.CreatedAt, o.UpdatedAt}, nil
	})
}

func (w *bulkWriter) InsertOrderItems(ctx context.Context, items []domain.OrderItem) error {
	return w.copy(ctx, "order_items", orderItemColumns, len(items), func(i int) ([]any, error) {
		it := items[i]
		return []any{pgUUID(it.ID), pgUUID(it.OrderID), pgUUID(it.ProductID), int32(it.Quantity), pgNumeric(it.Price), it.CreatedAt, it.UpdatedAt}, nil
	})
}

func (w *bulkWriter) copy(ctx context.Context, table string, columns []string, n int, row func(int) ([]any, error)) error {
	if n == 0 {
		return nil
	}

	copied, err := w.copier.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromSlice(n, row))
	if err != nil {
		return fmt.Errorf("failed to copy into %s: %w", table, err)
	}
	if copied != int64(n) {
		return fmt.Errorf("failed to copy into %s: wrote %d of %d rows", table, copied, n)
	}
	return nil
}

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
