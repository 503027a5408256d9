// Package security builds TLS settings for outbound connections.
//
//	tc := security.TLSConfig{CAFile: "/etc/mediascribe/ca.pem"}
//	transport, err := tc.Transport()
package security
