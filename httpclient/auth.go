package httpclient

import "net/http"

// Auth adds credentials to an outbound request.
type Auth func(h http.Header)

// Bearer sends token as an Authorization bearer credential. An empty token
// sends nothing.
func Bearer(token string) Auth {
	return func(h http.Header) {
		if token != "" {
			h.Set("Authorization", "Bearer "+token)
		}
	}
}
