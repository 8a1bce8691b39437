package backend

import (
	"context"
	"net/http"
	"net/url"

	"propdesk/internal/types"
)

// ValuationsClient talks to the backend's AI valuation endpoints.
// Monthly valuation quotas are enforced by the backend when a valuation is
// requested; the gateway never pre-blocks on remaining quota.
type ValuationsClient struct {
	c *Client
}

// ValuationInput describes the property to value. Either an existing
// portfolio property or ad hoc attributes can be submitted.
type ValuationInput struct {
	PropertyID string  `json:"property_id,omitempty"`
	City       string  `json:"city,omitempty" validate:"required_without=PropertyID"`
	District   string  `json:"district,omitempty" validate:"required_without=PropertyID"`
	AreaM2     float64 `json:"area_m2,omitempty" validate:"required_without=PropertyID,omitempty,gt=0"`
	Rooms      string  `json:"rooms,omitempty"`
}

// Request submits a valuation. Completion is asynchronous: the result
// arrives as a valuation-complete realtime event, or by polling Get.
func (vc *ValuationsClient) Request(ctx context.Context, in ValuationInput) (types.Valuation, error) {
	var out types.Valuation
	err := vc.c.doJSON(ctx, http.MethodPost, "/v1/valuations", nil, in, &out)
	return out, err
}

// Get fetches a valuation by id.
func (vc *ValuationsClient) Get(ctx context.Context, id string) (types.Valuation, error) {
	var out types.Valuation
	err := vc.c.doJSON(ctx, http.MethodGet, "/v1/valuations/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// List returns a page of past valuations.
func (vc *ValuationsClient) List(ctx context.Context, q types.ListQuery) (types.ListResponse[types.Valuation], error) {
	var out types.ListResponse[types.Valuation]
	err := vc.c.doJSON(ctx, http.MethodGet, "/v1/valuations", listValues(q), nil, &out)
	return out, err
}
