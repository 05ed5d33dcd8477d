package routes

import (
	"net/http"
	"strings"

	"github.com/dukerupert/labelbot/internal/router"
)

// RegisterOpsRoutes registers health, metrics and archived label routes.
// /metrics should be protected in production via firewall.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Handle(http.MethodGet, "/health", deps.HealthHandler)
	r.Handle(http.MethodGet, "/metrics", deps.MetricsHandler)

	if deps.LabelFiles != nil && strings.HasPrefix(deps.LabelPrefix, "/") {
		prefix := strings.TrimSuffix(deps.LabelPrefix, "/")
		r.Handle(http.MethodGet, prefix+"/", http.StripPrefix(prefix, deps.LabelFiles))
	}
}
