package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"propdesk/internal/types"
)

// listValues encodes the shared pagination query parameters.
func listValues(q types.ListQuery) url.Values {
	v := url.Values{}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Cursor != "" {
		v.Set("cursor", q.Cursor)
	}
	return v
}

// PropertiesClient talks to the backend's property portfolio endpoints.
type PropertiesClient struct {
	c *Client
}

// PropertyInput is the write payload for creating or updating a property.
type PropertyInput struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Kind        types.ListingKind `json:"kind" validate:"required,oneof=sale rent"`
	City        string            `json:"city" validate:"required"`
	District    string            `json:"district" validate:"required"`
	Rooms       string            `json:"rooms,omitempty"`
	AreaM2      float64           `json:"area_m2,omitempty" validate:"omitempty,gt=0"`
	Price       int64             `json:"price" validate:"required,gt=0"`
	Currency    string            `json:"currency" validate:"required,len=3"`
	Description string            `json:"description,omitempty"`
}

// List returns a page of the portfolio.
func (p *PropertiesClient) List(ctx context.Context, q types.ListQuery) (types.ListResponse[types.Property], error) {
	var out types.ListResponse[types.Property]
	err := p.c.doJSON(ctx, http.MethodGet, "/v1/properties", listValues(q), nil, &out)
	return out, err
}

// Get fetches a single property.
func (p *PropertiesClient) Get(ctx context.Context, id string) (types.Property, error) {
	var out types.Property
	err := p.c.doJSON(ctx, http.MethodGet, "/v1/properties/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// Create adds a property to the portfolio.
func (p *PropertiesClient) Create(ctx context.Context, in PropertyInput) (types.Property, error) {
	var out types.Property
	err := p.c.doJSON(ctx, http.MethodPost, "/v1/properties", nil, in, &out)
	return out, err
}

// Update replaces a property's mutable fields.
func (p *PropertiesClient) Update(ctx context.Context, id string, in PropertyInput) (types.Property, error) {
	var out types.Property
	err := p.c.doJSON(ctx, http.MethodPut, "/v1/properties/"+url.PathEscape(id), nil, in, &out)
	return out, err
}

// Delete removes a property.
func (p *PropertiesClient) Delete(ctx context.Context, id string) error {
	return p.c.doJSON(ctx, http.MethodDelete, "/v1/properties/"+url.PathEscape(id), nil, nil, nil)
}
