package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/jacksmith/mkt/internal/model"
)

// Resource names accepted by List and Get.
const (
	Products    = "products"
	Services    = "services"
	Orders      = "orders"
	Customers   = "customers"
	Collections = "collections"
	Inventory   = "inventory"
	Taxes       = "taxes"
)

// resourcePaths maps list resources to their collection endpoints.
var resourcePaths = map[string]string{
	Products:    "/products",
	Services:    "/services",
	Orders:      "/orders",
	Customers:   "/customers",
	Collections: "/collections",
	Inventory:   "/inventory",
	Taxes:       "/taxes",
}

// Single-object endpoints.
const (
	checkoutSettingsPath = "/checkout-settings"
	supplierProfilePath  = "/supplier/profile"
)

// ResourceNames returns the list resources in sorted order.
func ResourceNames() []string {
	names := make([]string, 0, len(resourcePaths))
	for n := range resourcePaths {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// UnknownResourceError is returned for names not in ResourceNames.
type UnknownResourceError struct {
	Name string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("unknown resource %q", e.Name)
}

func resourcePath(resource string) (string, error) {
	p, ok := resourcePaths[resource]
	if !ok {
		return "", &UnknownResourceError{Name: resource}
	}
	return p, nil
}

// List fetches every record of a resource.
func (c *Client) List(ctx context.Context, resource string) ([]model.Record, error) {
	p, err := resourcePath(resource)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodGet, p, nil)
	if err != nil {
		return nil, err
	}
	return model.ParseRecords(body, resource)
}

// Get fetches one record of a resource by id.
func (c *Client) Get(ctx context.Context, resource, id string) (model.Record, error) {
	p, err := resourcePath(resource)
	if err != nil {
		return model.Record{}, err
	}
	body, err := c.do(ctx, http.MethodGet, p+"/"+url.PathEscape(id), nil)
	if err != nil {
		return model.Record{}, err
	}
	return model.ParseRecord(body, resource)
}

// CheckoutSettings fetches the supplier's checkout configuration.
func (c *Client) CheckoutSettings(ctx context.Context) (model.Record, error) {
	body, err := c.do(ctx, http.MethodGet, checkoutSettingsPath, nil)
	if err != nil {
		return model.Record{}, err
	}
	return model.ParseRecord(body, "checkout-settings")
}

// SupplierProfile fetches the signed-in supplier's profile.
func (c *Client) SupplierProfile(ctx context.Context) (model.Record, error) {
	body, err := c.do(ctx, http.MethodGet, supplierProfilePath, nil)
	if err != nil {
		return model.Record{}, err
	}
	return model.ParseRecord(body, "profile")
}
