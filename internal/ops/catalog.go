// Package ops implements the dashboard operations on top of the backend client.
package ops

import (
	"context"
	"fmt"

	"github.com/jacksmith/mkt/internal/model"
)

// LoadError reports that a resource could not be fetched. Every cause
// (unreachable host, bad URL, server error) is presented the same way.
type LoadError struct {
	Resource string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("unable to load %s: %v", e.Resource, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ListRecords fetches a resource and resolves image paths on every record.
func ListRecords(ctx context.Context, c Catalog, r Resolver, resource string) ([]model.Record, error) {
	records, err := c.List(ctx, resource)
	if err != nil {
		return nil, &LoadError{Resource: resource, Err: err}
	}
	for i := range records {
		resolved, err := records[i].MapImages(r.Resolve)
		if err != nil {
			return nil, &LoadError{Resource: resource, Err: err}
		}
		records[i] = resolved
	}
	return records, nil
}

// ShowRecord fetches a single record with image paths resolved.
func ShowRecord(ctx context.Context, c Catalog, r Resolver, resource, id string) (model.Record, error) {
	rec, err := c.Get(ctx, resource, id)
	if err != nil {
		return model.Record{}, &LoadError{Resource: resource, Err: err}
	}
	return resolveOne(rec, r, resource)
}

// CheckoutSettings fetches the checkout settings.
func CheckoutSettings(ctx context.Context, c Catalog, r Resolver) (model.Record, error) {
	rec, err := c.CheckoutSettings(ctx)
	if err != nil {
		return model.Record{}, &LoadError{Resource: "checkout settings", Err: err}
	}
	return resolveOne(rec, r, "checkout settings")
}

// SupplierProfile fetches the supplier profile with its logo and banner resolved.
func SupplierProfile(ctx context.Context, c Catalog, r Resolver) (model.Record, error) {
	rec, err := c.SupplierProfile(ctx)
	if err != nil {
		return model.Record{}, &LoadError{Resource: "profile", Err: err}
	}
	return resolveOne(rec, r, "profile")
}

func resolveOne(rec model.Record, r Resolver, resource string) (model.Record, error) {
	out, err := rec.MapImages(r.Resolve)
	if err != nil {
		return model.Record{}, &LoadError{Resource: resource, Err: err}
	}
	return out, nil
}
