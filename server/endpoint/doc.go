// Package endpoint holds the HTTP handlers of mediascribe and the single
// place where pipeline error codes are mapped to HTTP statuses.
package endpoint
