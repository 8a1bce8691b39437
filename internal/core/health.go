package core

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// healthCheckTimeout bounds the total time spent on all probes.
const healthCheckTimeout = 2 * time.Second

// HealthProbe is a health check for one gateway dependency, such as the
// backend API or the realtime channel.
type HealthProbe interface {
	Name() string

	// Check returns an error when the dependency is unhealthy. It must
	// respect the context deadline.
	Check(ctx context.Context) error
}

type componentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components,omitempty"`
}

// HandleHealth runs all registered probes concurrently under a shared
// deadline. It returns 200 when every probe passes and 503 otherwise, with
// per-component detail in the body. The endpoint is public.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if len(s.HealthProbes) == 0 {
		JSON(w, r, http.StatusOK, healthResponse{Status: "healthy"})
		return
	}

	var mu sync.Mutex
	components := make(map[string]componentStatus, len(s.HealthProbes))

	g, ctx := errgroup.WithContext(ctx)
	for _, probe := range s.HealthProbes {
		g.Go(func() error {
			err := probe.Check(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				components[probe.Name()] = componentStatus{Status: "unhealthy", Message: err.Error()}
				return err
			}
			components[probe.Name()] = componentStatus{Status: "healthy"}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		JSON(w, r, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy", Components: components})
		return
	}
	JSON(w, r, http.StatusOK, healthResponse{Status: "healthy", Components: components})
}
