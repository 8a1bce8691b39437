package backend

import (
	"context"
	"net/http"
	"net/url"

	"propdesk/internal/types"
)

// CustomersClient talks to the backend's CRM endpoints.
type CustomersClient struct {
	c *Client
}

// CustomerInput is the write payload for creating or updating a contact.
type CustomerInput struct {
	FullName string              `json:"full_name" validate:"required,max=200"`
	Email    string              `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string              `json:"phone,omitempty"`
	Stage    types.CustomerStage `json:"stage" validate:"required,oneof=lead contacted viewing negotiation closed"`
	Budget   int64               `json:"budget,omitempty" validate:"omitempty,gte=0"`
	Notes    string              `json:"notes,omitempty"`
}

// List returns a page of CRM contacts.
func (cc *CustomersClient) List(ctx context.Context, q types.ListQuery) (types.ListResponse[types.Customer], error) {
	var out types.ListResponse[types.Customer]
	err := cc.c.doJSON(ctx, http.MethodGet, "/v1/customers", listValues(q), nil, &out)
	return out, err
}

// Get fetches a single contact.
func (cc *CustomersClient) Get(ctx context.Context, id string) (types.Customer, error) {
	var out types.Customer
	err := cc.c.doJSON(ctx, http.MethodGet, "/v1/customers/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// Create adds a contact.
func (cc *CustomersClient) Create(ctx context.Context, in CustomerInput) (types.Customer, error) {
	var out types.Customer
	err := cc.c.doJSON(ctx, http.MethodPost, "/v1/customers", nil, in, &out)
	return out, err
}

// Update replaces a contact's mutable fields.
func (cc *CustomersClient) Update(ctx context.Context, id string, in CustomerInput) (types.Customer, error) {
	var out types.Customer
	err := cc.c.doJSON(ctx, http.MethodPut, "/v1/customers/"+url.PathEscape(id), nil, in, &out)
	return out, err
}

// Delete removes a contact.
func (cc *CustomersClient) Delete(ctx context.Context, id string) error {
	return cc.c.doJSON(ctx, http.MethodDelete, "/v1/customers/"+url.PathEscape(id), nil, nil, nil)
}
