// Package catalog provides the HTTP client for talking to a catman catalog
// server, along with the data model for the categories it manages.
//
// The client exposes the four remote operations the rest of the application
// is built on:
//
//	client := catalog.NewClient("192.168.1.50", 8470)
//	categories, err := client.ListCategories()
//	identity, err := client.CreateCategory("Fruit")
//	identity, err = client.UpdateCategory(identity.Key, "Fruits")
//	identity, err = client.DeleteCategory(identity.Key)
//
// Each call is a single request/response exchange. The client never caches
// category data: callers that need current state list again. This is
// deliberate - consumers of this package (the browse TUI in particular)
// re-fetch the full list after every write rather than patching local state.
//
// # Addressing
//
// Categories carry two identifiers. ID is the display identity assigned by
// the server. Key is an opaque addressing token, and it is the only thing
// update and delete accept; they never address records by ID.
//
// # Errors
//
// All failures are returned as *RemoteError with a classified Type
// (network, auth, HTTP, parse, validation) and a retryability flag. The
// client retries retryable failures with exponential backoff. See errors.go
// for the classification helpers.
package catalog
