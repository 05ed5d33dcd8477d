package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/slack-go/slack"
)

// VerifySlackSignature rejects requests whose X-Slack-Signature does not
// match the body signed with signingSecret, or whose timestamp is stale.
// The body is restored for the next handler. An empty secret disables the
// check, which is only allowed outside production.
func VerifySlackSignature(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if signingSecret == "" {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				respondBadRequest(w, r, "Request body could not be read")
				return
			}

			sv, err := slack.NewSecretsVerifier(r.Header, signingSecret)
			if err != nil {
				respondUnauthorized(w, r, err)
				return
			}
			if _, err := sv.Write(body); err != nil {
				respondUnauthorized(w, r, err)
				return
			}
			if err := sv.Ensure(); err != nil {
				respondUnauthorized(w, r, err)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}
