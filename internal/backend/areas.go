package backend

import (
	"context"
	"net/http"
	"net/url"

	"propdesk/internal/types"
)

// AreasClient talks to the backend's area analytics endpoints.
type AreasClient struct {
	c *Client
}

// Risk fetches the area report for a district, including the earthquake
// risk score and price trend analytics.
func (ac *AreasClient) Risk(ctx context.Context, areaID string) (types.AreaRiskReport, error) {
	var out types.AreaRiskReport
	err := ac.c.doJSON(ctx, http.MethodGet, "/v1/areas/"+url.PathEscape(areaID)+"/risk", nil, nil, &out)
	return out, err
}
