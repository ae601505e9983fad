// Package statusserver exposes a component manager over HTTP.
//
// The server is itself a component named "status" that depends on the
// default logger. Init binds the listener and Shutdown drains it, so it comes
// up after the logger and goes down before it. Routes:
//
//	GET /health             overall and per-component health
//	GET /components         every registered component
//	GET /components/:name   one component
//	GET /graph              initialization order and dependency levels
//	GET /version            build information
//
// Handlers are served by gin behind an h2c handler, so HTTP/2 clients work
// without TLS.
package statusserver
