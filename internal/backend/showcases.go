package backend

import (
	"context"
	"net/http"
	"net/url"

	"propdesk/internal/types"
)

// ShowcasesClient talks to the backend's showcase endpoints. A showcase is
// the public, shareable curated subset of a portfolio.
type ShowcasesClient struct {
	c *Client
}

// ShowcaseInput is the write payload for creating or updating a showcase.
type ShowcaseInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	PropertyIDs []string `json:"property_ids" validate:"required,min=1,dive,required"`
}

// List returns a page of the tenant's showcases.
func (sc *ShowcasesClient) List(ctx context.Context, q types.ListQuery) (types.ListResponse[types.Showcase], error) {
	var out types.ListResponse[types.Showcase]
	err := sc.c.doJSON(ctx, http.MethodGet, "/v1/showcases", listValues(q), nil, &out)
	return out, err
}

// Get fetches a single showcase.
func (sc *ShowcasesClient) Get(ctx context.Context, id string) (types.Showcase, error) {
	var out types.Showcase
	err := sc.c.doJSON(ctx, http.MethodGet, "/v1/showcases/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// Create adds a showcase.
func (sc *ShowcasesClient) Create(ctx context.Context, in ShowcaseInput) (types.Showcase, error) {
	var out types.Showcase
	err := sc.c.doJSON(ctx, http.MethodPost, "/v1/showcases", nil, in, &out)
	return out, err
}

// Update replaces a showcase's mutable fields.
func (sc *ShowcasesClient) Update(ctx context.Context, id string, in ShowcaseInput) (types.Showcase, error) {
	var out types.Showcase
	err := sc.c.doJSON(ctx, http.MethodPut, "/v1/showcases/"+url.PathEscape(id), nil, in, &out)
	return out, err
}

// Publish flips a showcase to its public, shareable state.
func (sc *ShowcasesClient) Publish(ctx context.Context, id string) (types.Showcase, error) {
	var out types.Showcase
	err := sc.c.doJSON(ctx, http.MethodPost, "/v1/showcases/"+url.PathEscape(id)+"/publish", nil, nil, &out)
	return out, err
}

// Delete removes a showcase.
func (sc *ShowcasesClient) Delete(ctx context.Context, id string) error {
	return sc.c.doJSON(ctx, http.MethodDelete, "/v1/showcases/"+url.PathEscape(id), nil, nil, nil)
}
