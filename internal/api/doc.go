// Package api contains the HTTP handlers and the mapping between service
// outcomes and transport responses. Handlers never build SQL or make
// access decisions; they decode requests, call services, and shape the
// results.
package api
