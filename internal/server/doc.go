// Package server implements the catman catalog server.
//
// The server exposes a small JSON API over HTTP:
//
//	GET    /v1/categories        list all categories
//	POST   /v1/categories        create a category
//	PUT    /v1/categories/{key}  update a category's description
//	DELETE /v1/categories/{key}  delete a category
//	GET    /v1/watch             WebSocket change feed
//	GET    /v1/healthz           health check
//
// All endpoints except /v1/healthz require HTTP Basic Auth. Categories are
// held in an in-memory store that preserves insertion order, which is the
// order the list endpoint returns. Every successful write is broadcast to
// connected /v1/watch clients as a JSON event.
//
// The server can optionally announce itself on the local network via mDNS
// so clients can find it without configuration (see the discovery package).
package server
