package routes

import (
	"net/http"
)

// SlackDeps contains dependencies for the Slack endpoints
type SlackDeps struct {
	CommandHandler     http.HandlerFunc
	InteractionHandler http.HandlerFunc

	// SigningSecret verifies that requests come from Slack.
	// Empty disables verification.
	SigningSecret string
}

// OpsDeps contains dependencies for health and metrics endpoints
type OpsDeps struct {
	HealthHandler  http.Handler
	MetricsHandler http.Handler

	// LabelFiles serves archived labels from the label store. Nil when
	// archiving is disabled.
	LabelFiles http.Handler

	// LabelPrefix is the URL prefix LabelFiles is mounted on, e.g. "/labels".
	LabelPrefix string
}
