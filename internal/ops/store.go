package ops

import (
	"context"

	"github.com/jacksmith/mkt/internal/model"
)

// Catalog defines the backend operations the dashboard commands need.
// The concrete implementation is api.Client; tests substitute a fake.
type Catalog interface {
	List(ctx context.Context, resource string) ([]model.Record, error)
	Get(ctx context.Context, resource, id string) (model.Record, error)
	CheckoutSettings(ctx context.Context) (model.Record, error)
	SupplierProfile(ctx context.Context) (model.Record, error)
}

// Resolver turns media paths into URLs. *media.Resolver implements it.
type Resolver interface {
	Resolve(path string) string
}
