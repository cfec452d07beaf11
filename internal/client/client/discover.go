package client

import (
	"context"
	"net/http"
	"time"

	"github.com/voatnetwork/voat/internal/logging"
)

// Discover probes each candidate base URL in order with the liveness
// endpoint and returns the first one that answers 2xx. When none answers
// the first candidate is returned, so the UI still has somewhere to point.
func Discover(ctx context.Context, candidates []string, probeTimeout time.Duration, hc *http.Client, log logging.Logger) string {
	if len(candidates) == 0 {
		return ""
	}
	for _, base := range candidates {
		if ctx.Err() != nil {
			break
		}
		probe := NewHTTPClient(base, Options{Timeout: probeTimeout, HTTP: hc})
		if err := probe.Ping(ctx); err != nil {
			log.Debug(ctx, "backend candidate unreachable", "url", base, "error", err)
			continue
		}
		log.Info(ctx, "backend selected", "url", base)
		return probe.BaseURL()
	}
	log.Warn(ctx, "no backend candidate answered, using default", "url", candidates[0])
	return candidates[0]
}
