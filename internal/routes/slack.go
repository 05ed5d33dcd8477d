package routes

import (
	"github.com/dukerupert/labelbot/internal/middleware"
	"github.com/dukerupert/labelbot/internal/router"
)

// RegisterSlackRoutes registers the slash command and interactivity
// endpoints configured in the Slack app.
//
// Every request must carry a valid X-Slack-Signature for the app's
// signing secret.
func RegisterSlackRoutes(r *router.Router, deps SlackDeps) {
	slack := r.Group(middleware.VerifySlackSignature(deps.SigningSecret))

	slack.Post("/slack/commands", deps.CommandHandler)
	slack.Post("/slack/interactions", deps.InteractionHandler)
}
