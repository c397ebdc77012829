package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmcrae/catman/internal/catalog"
	"github.com/jmcrae/catman/internal/logging"
	"go.uber.org/zap"
)

// categoryList is the wire shape of the list endpoint
type categoryList struct {
	Categories []catalog.Category `json:"categories"`
}

// writeBody is the wire shape of create and update request bodies
type writeBody struct {
	Description string `json:"description"`
}

// identityBody is the wire shape of write acknowledgements
type identityBody struct {
	ID  int64  `json:"id"`
	Key string `json:"key"`
}

// errorBody is the wire shape of error responses
type errorBody struct {
	Error string `json:"error"`
}

// API serves the catalog HTTP endpoints backed by a Store, broadcasting
// every successful write on the Hub.
type API struct {
	store    *Store
	hub      *Hub
	username string
	password string
}

// NewAPI creates the HTTP API around a store and watch hub.
func NewAPI(store *Store, hub *Hub, username, password string) *API {
	return &API{
		store:    store,
		hub:      hub,
		username: username,
		password: password,
	}
}

// Routes returns the HTTP handler for all API endpoints.
// Everything except the health check sits behind basic auth.
func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/healthz", a.handleHealth)
	mux.Handle("GET /v1/categories", a.requireAuth(a.handleList))
	mux.Handle("POST /v1/categories", a.requireAuth(a.handleCreate))
	mux.Handle("PUT /v1/categories/{key}", a.requireAuth(a.handleUpdate))
	mux.Handle("DELETE /v1/categories/{key}", a.requireAuth(a.handleDelete))
	mux.Handle("GET /v1/watch", a.requireAuth(a.hub.ServeHTTP))

	return mux
}

// requireAuth wraps a handler with HTTP Basic Auth using constant-time
// credential comparison.
func (a *API) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		user, pass, ok := req.BasicAuth()
		userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(a.password)) == 1
		if !ok || !userOK || !passOK {
			rw.Header().Set("WWW-Authenticate", `Basic realm="catman"`)
			a.writeError(rw, req, http.StatusUnauthorized, "authentication required")
			return
		}
		next(rw, req)
	})
}

func (a *API) handleHealth(rw http.ResponseWriter, req *http.Request) {
	a.writeJSON(rw, req, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleList(rw http.ResponseWriter, req *http.Request) {
	categories := a.store.List()
	a.writeJSON(rw, req, http.StatusOK, categoryList{Categories: categories})
}

func (a *API) handleCreate(rw http.ResponseWriter, req *http.Request) {
	body, ok := a.readBody(rw, req)
	if !ok {
		return
	}

	cat, err := a.store.Create(body.Description)
	if err != nil {
		a.writeStoreError(rw, req, err)
		return
	}

	a.hub.Broadcast(Event{Type: EventCreated, Category: cat})
	a.writeJSON(rw, req, http.StatusCreated, identityBody{ID: cat.ID, Key: cat.Key})
}

func (a *API) handleUpdate(rw http.ResponseWriter, req *http.Request) {
	key := req.PathValue("key")

	body, ok := a.readBody(rw, req)
	if !ok {
		return
	}

	cat, err := a.store.Update(key, body.Description)
	if err != nil {
		a.writeStoreError(rw, req, err)
		return
	}

	a.hub.Broadcast(Event{Type: EventUpdated, Category: cat})
	a.writeJSON(rw, req, http.StatusOK, identityBody{ID: cat.ID, Key: cat.Key})
}

func (a *API) handleDelete(rw http.ResponseWriter, req *http.Request) {
	key := req.PathValue("key")

	cat, err := a.store.Delete(key)
	if err != nil {
		a.writeStoreError(rw, req, err)
		return
	}

	a.hub.Broadcast(Event{Type: EventDeleted, Category: cat})
	a.writeJSON(rw, req, http.StatusOK, identityBody{ID: cat.ID, Key: cat.Key})
}

// readBody decodes a write request body, responding with 400 on failure.
func (a *API) readBody(rw http.ResponseWriter, req *http.Request) (writeBody, bool) {
	var body writeBody
	decoder := json.NewDecoder(req.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		a.writeError(rw, req, http.StatusBadRequest, "invalid request body: "+err.Error())
		return writeBody{}, false
	}
	return body, true
}

// writeStoreError maps store errors to HTTP status codes.
func (a *API) writeStoreError(rw http.ResponseWriter, req *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		a.writeError(rw, req, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrEmptyDescription):
		a.writeError(rw, req, http.StatusBadRequest, err.Error())
	default:
		a.writeError(rw, req, http.StatusInternalServerError, err.Error())
	}
}

func (a *API) writeJSON(rw http.ResponseWriter, req *http.Request, status int, payload interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(payload); err != nil {
		logging.Error("Failed to encode response",
			zap.String("remote_addr", req.RemoteAddr),
			zap.Error(err),
		)
	}
	logging.LogHTTPRequest(req.RemoteAddr, req.Method, req.URL.Path, status)
}

func (a *API) writeError(rw http.ResponseWriter, req *http.Request, status int, message string) {
	a.writeJSON(rw, req, status, errorBody{Error: message})
}
