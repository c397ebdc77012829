// Package tui implements the interactive category browser.
//
// The browser is a Bubble Tea application with a single list screen and a
// modal editor. It holds no authoritative category state of its own: the
// visible list is always the result of the most recent fetch from the
// server, and after every write (create, update or delete) the list is
// re-fetched unconditionally, whether the write succeeded or failed. Local
// state is never patched in place.
//
// The modal editor binds one text input to a draft category. Saving a
// draft without a key creates a new category; saving a draft with a key
// updates the existing one. The editor closes as soon as save is pressed,
// before the write settles; a failure surfaces afterwards as an error
// banner on the list screen.
//
// When any of the four operations has failed, the list view is replaced by
// a single error banner. If several have failed at once, the one shown is
// chosen in the fixed order: load, create, delete, update. A later
// successful reload clears the banner and restores the table.
package tui
