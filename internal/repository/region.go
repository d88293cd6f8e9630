package repository

import (
	"context"

	"region-latency-demo/internal/database"
	"region-latency-demo/internal/region"
)

// Region bundles everything the seeder and the analytics service need from
// one regional database.
type Region interface {
	BulkWriter
	AnalyticsRepository
	Health(ctx context.Context) map[string]string
}

type storeRegion struct {
	BulkWriter
	AnalyticsRepository
	store *database.Store
}

// NewRegion wires the repositories of a region onto its store
func NewRegion(store *database.Store) Region {
	return &storeRegion{
		BulkWriter:          NewBulkWriter(store.Pool),
		AnalyticsRepository: NewAnalyticsRepository(store.DB),
		store:               store,
	}
}

func (r *storeRegion) Health(ctx context.Context) map[string]string {
	return r.store.Health(ctx)
}

// NewRegistry registers a Region for every open store, keeping store order
func NewRegistry(stores []*database.Store) (*region.Registry[Region], error) {
	registry := region.NewRegistry[Region]()
	for _, store := range stores {
		if err := registry.Register(store.Region, NewRegion(store)); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
