package catalog

import "strings"

// Category is a single record managed by a catalog server.
//
// A category fetched from the server always has ID, Key and Description
// set. A draft category being created locally has a zero ID and an empty
// Key until the server assigns them.
type Category struct {
	// ID is the display identity assigned by the server.
	ID int64 `json:"id"`

	// Key is the opaque addressing token used by update and delete.
	// It is distinct from ID and never shown as the primary identity.
	Key string `json:"key"`

	// Description is the user-editable text of the category.
	Description string `json:"description"`
}

// IsNew reports whether the category has not been persisted yet.
// New drafts have neither an ID nor a Key.
func (c Category) IsNew() bool {
	return c.Key == ""
}

// Identity is the server's acknowledgement of a write operation.
// Create returns the identity of the new category; update and delete
// return the identity of the affected one.
type Identity struct {
	ID  int64  `json:"id"`
	Key string `json:"key"`
}

// ValidateDescription checks that a description is acceptable for a write.
// The server rejects empty descriptions, so the client refuses to send them.
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return NewValidationError("description must not be empty")
	}
	return nil
}

// listResponse is the wire shape of the list endpoint.
type listResponse struct {
	Categories []Category `json:"categories"`
}

// writeRequest is the wire shape of create and update bodies.
type writeRequest struct {
	Description string `json:"description"`
}

// errorResponse is the wire shape of server error bodies.
type errorResponse struct {
	Error string `json:"error"`
}
