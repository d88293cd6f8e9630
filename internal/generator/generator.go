// Package generator produces synthetic e-commerce records for seeding.
//
// Every generator returns exactly count records and draws from its own random
// source, so batches can be generated concurrently. Foreign keys are picked
// uniformly from the supplied identifier pools; some parents end up referenced
// many times and some never.
package generator

import (
	"errors"
	"fmt"
	"time"

	"region-latency-demo/internal/domain"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidArgs = errors.New("count and start index must be non-negative")
	ErrEmptyPool   = errors.New("identifier pool is empty")
)

// PriceRange is the closed interval a monetary field is drawn from
type PriceRange struct {
	Min float64
	Max float64
}

// Contains reports whether d lies within the range
func (r PriceRange) Contains(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(decimal.NewFromFloat(r.Min)) &&
		d.LessThanOrEqual(decimal.NewFromFloat(r.Max))
}

var (
	ProductPriceRange   = PriceRange{Min: 10, Max: 1000}
	OrderTotalRange     = PriceRange{Min: 10, Max: 1000}
	OrderItemPriceRange = PriceRange{Min: 5, Max: 500}
)

const (
	MaxStock    = 1000
	MinQuantity = 1
	MaxQuantity = 5
)

// Func generates count records; startIndex is the position of the first record
// within the whole run and keeps derived unique fields distinct across batches.
type Func[T any] func(count, startIndex int) ([]T, error)

// OrderParams holds the pools an order generator references
type OrderParams struct {
	UserIDs []uuid.UUID
}

// OrderItemParams holds the pools an order item generator references
type OrderItemParams struct {
	OrderIDs   []uuid.UUID
	ProductIDs []uuid.UUID
}

// Users generates customer accounts with run-unique emails
func Users(count, startIndex int) ([]domain.User, error) {
	if err := checkArgs(count, startIndex); err != nil {
		return nil, err
	}

	faker := gofakeit.New(0)
	now := time.Now().UTC()

	users := make([]domain.User, count)
	for i := range users {
		id := uuid.New()
		users[i] = domain.User{
			ID:        id,
			Email:     fmt.Sprintf("user.%d.%s", startIndex+i, faker.Email()),
			Name:      faker.Name(),
			AvatarURL: avatarURL(id),
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	return users, nil
}

// Products generates catalog entries
func Products(count, startIndex int) ([]domain.Product, error) {
	if err := checkArgs(count, startIndex); err != nil {
		return nil, err
	}

	faker := gofakeit.New(0)
	now := time.Now().UTC()

	products := make([]domain.Product, count)
	for i := range products {
		products[i] = domain.Product{
			ID:          uuid.New(),
			Name:        faker.ProductName(),
			Description: faker.ProductDescription(),
			Price:       price(faker, ProductPriceRange),
			Stock:       faker.Number(0, MaxStock),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	return products, nil
}

// Orders returns a generator whose orders belong to users from params
func Orders(params OrderParams) Func[domain.Order] {
	return func(count, startIndex int) ([]domain.Order, error) {
		if err := checkArgs(count, startIndex); err != nil {
			return nil, err
		}
		if count > 0 && len(params.UserIDs) == 0 {
			return nil, fmt.Errorf("orders need users: %w", ErrEmptyPool)
		}

		faker := gofakeit.New(0)
		now := time.Now().UTC()

		orders := make([]domain.Order, count)
		for i := range orders {
			orders[i] = domain.Order{
				ID:        uuid.New(),
				UserID:    pick(faker, params.UserIDs),
				Status:    domain.OrderStatuses[faker.Number(0, len(domain.OrderStatuses)-1)],
				Total:     price(faker, OrderTotalRange),
				CreatedAt: now,
				UpdatedAt: now,
			}
		}
		return orders, nil
	}
}

// OrderItems returns a generator whose lines reference orders and products from params
func OrderItems(params OrderItemParams) Func[domain.OrderItem] {
	return func(count, startIndex int) ([]domain.OrderItem, error) {
		if err := checkArgs(count, startIndex); err != nil {
			return nil, err
		}
		if count > 0 && len(params.OrderIDs) == 0 {
			return nil, fmt.Errorf("order items need orders: %w", ErrEmptyPool)
		}
		if count > 0 && len(params.ProductIDs) == 0 {
			return nil, fmt.Errorf("order items need products: %w", ErrEmptyPool)
		}

		faker := gofakeit.New(0)
		now := time.Now().UTC()

		items := make([]domain.OrderItem, count)
		for i := range items {
			items[i] = domain.OrderItem{
				ID:        uuid.New(),
				OrderID:   pick(faker, params.OrderIDs),
				ProductID: pick(faker, params.ProductIDs),
				Quantity:  faker.Number(MinQuantity, MaxQuantity),
				Price:     price(faker, OrderItemPriceRange),
				CreatedAt: now,
				UpdatedAt: now,
			}
		}
		return items, nil
	}
}

func checkArgs(count, startIndex int) error {
	if count < 0 || startIndex < 0 {
		return fmt.Errorf("count=%d start=%d: %w", count, startIndex, ErrInvalidArgs)
	}
	return nil
}

func pick(faker *gofakeit.Faker, pool []uuid.UUID) uuid.UUID {
	return pool[faker.Number(0, len(pool)-1)]
}

// price draws a two-decimal amount within r
func price(faker *gofakeit.Faker, r PriceRange) decimal.Decimal {
	return decimal.NewFromFloat(faker.Price(r.Min, r.Max)).Round(2)
}

func avatarURL(id uuid.UUID) string {
	return "https://i.pravatar.cc/150?u=" + id.String()
}
