package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const mockListResponse = `{"categories":[{"id":1,"key":"k1","description":"Fruit"},{"id":2,"key":"k2","description":"Vegetables"}]}`

func TestNewClient(t *testing.T) {
	client := NewClient("192.168.1.50", 8470)

	if client.BaseURL != "http://192.168.1.50:8470" {
		t.Errorf("BaseURL = %s, want http://192.168.1.50:8470", client.BaseURL)
	}

	if client.Username != DefaultUsername {
		t.Errorf("Username = %s, want %s", client.Username, DefaultUsername)
	}

	if client.Password != DefaultPassword {
		t.Errorf("Password = %s, want %s", client.Password, DefaultPassword)
	}

	if client.HTTPClient == nil {
		t.Error("HTTPClient should not be nil")
	}
}

func TestNewClientWithURL(t *testing.T) {
	client := NewClientWithURL("http://192.168.1.50:9000")

	if client.BaseURL != "http://192.168.1.50:9000" {
		t.Errorf("BaseURL = %s, want http://192.168.1.50:9000", client.BaseURL)
	}
}

func TestSetAuth(t *testing.T) {
	client := NewClient("192.168.1.50", 8470)
	client.SetAuth("testuser", "testpass")

	if client.Username != "testuser" {
		t.Errorf("Username = %s, want testuser", client.Username)
	}

	if client.Password != "testpass" {
		t.Errorf("Password = %s, want testpass", client.Password)
	}
}

func TestSetTimeout(t *testing.T) {
	client := NewClient("192.168.1.50", 8470)
	client.SetTimeout(5 * time.Second)

	if client.HTTPClient.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", client.HTTPClient.Timeout)
	}
}

func TestPing_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/healthz" {
			t.Errorf("Ping path = %s, want /v1/healthz", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	if err := client.Ping(); err != nil {
		t.Errorf("Ping() error = %v, want nil", err)
	}
}

func TestPing_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	err := client.Ping()

	if err == nil {
		t.Fatal("Ping() should return error for auth failure")
	}

	if !IsAuthError(err) {
		t.Errorf("Ping() error should be auth error, got %v", err)
	}
}

func TestListCategories_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/v1/categories" {
			t.Errorf("path = %s, want /v1/categories", r.URL.Path)
		}

		username, password, ok := r.BasicAuth()
		if !ok || username != DefaultUsername || password != DefaultPassword {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(mockListResponse))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	categories, err := client.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}

	if len(categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(categories))
	}

	if categories[0].ID != 1 || categories[0].Key != "k1" || categories[0].Description != "Fruit" {
		t.Errorf("categories[0] = %+v, want {1 k1 Fruit}", categories[0])
	}
}

func TestListCategories_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"categories":[]}`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	categories, err := client.ListCategories()
	if err != nil {
		t.Fatalf("ListCategories() error = %v", err)
	}

	if categories == nil {
		t.Error("ListCategories() should return empty slice, not nil")
	}
	if len(categories) != 0 {
		t.Errorf("got %d categories, want 0", len(categories))
	}
}

func TestListCategories_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	_, err := client.ListCategories()

	if err == nil {
		t.Fatal("ListCategories() should fail on malformed response")
	}
	if !IsParseError(err) {
		t.Errorf("error should be parse error, got %v", err)
	}
}

func TestCreateCategory_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}

		var body struct {
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if body.Description != "Fruit" {
			t.Errorf("description = %q, want Fruit", body.Description)
		}

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":3,"key":"k3"}`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	identity, err := client.CreateCategory("Fruit")
	if err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}

	if identity.ID != 3 || identity.Key != "k3" {
		t.Errorf("identity = %+v, want {3 k3}", identity)
	}
}

func TestCreateCategory_EmptyDescription(t *testing.T) {
	// Validation happens before any request is made
	client := NewClientWithURL("http://127.0.0.1:1")

	_, err := client.CreateCategory("   ")
	if err == nil {
		t.Fatal("CreateCategory() should reject blank description")
	}
	if !IsValidationError(err) {
		t.Errorf("error should be validation error, got %v", err)
	}
}

func TestUpdateCategory_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if r.URL.Path != "/v1/categories/k1" {
			t.Errorf("path = %s, want /v1/categories/k1", r.URL.Path)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":1,"key":"k1"}`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	identity, err := client.UpdateCategory("k1", "Fruits")
	if err != nil {
		t.Fatalf("UpdateCategory() error = %v", err)
	}

	if identity.Key != "k1" {
		t.Errorf("identity.Key = %s, want k1", identity.Key)
	}
}

func TestUpdateCategory_EmptyKey(t *testing.T) {
	client := NewClientWithURL("http://127.0.0.1:1")

	_, err := client.UpdateCategory("", "Fruits")
	if err == nil {
		t.Fatal("UpdateCategory() should reject empty key")
	}
	if !IsValidationError(err) {
		t.Errorf("error should be validation error, got %v", err)
	}
}

func TestDeleteCategory_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		if r.URL.Path != "/v1/categories/k2" {
			t.Errorf("path = %s, want /v1/categories/k2", r.URL.Path)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":2,"key":"k2"}`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	identity, err := client.DeleteCategory("k2")
	if err != nil {
		t.Fatalf("DeleteCategory() error = %v", err)
	}

	if identity.ID != 2 {
		t.Errorf("identity.ID = %d, want 2", identity.ID)
	}
}

func TestDeleteCategory_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"category not found"}`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	_, err := client.DeleteCategory("missing")

	if err == nil {
		t.Fatal("DeleteCategory() should fail for missing category")
	}
	if !IsNotFound(err) {
		t.Errorf("error should be not-found, got %v", err)
	}
}

func TestRetry_ServerErrorEventuallySucceeds(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"categories":[]}`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	client.SetRetry(3, time.Millisecond)

	if _, err := client.ListCategories(); err != nil {
		t.Fatalf("ListCategories() error = %v, want success after retries", err)
	}

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("server saw %d calls, want 3", got)
	}
}

func TestRetry_NotFoundIsNotRetried(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"category not found"}`))
	}))
	defer server.Close()

	client := NewClientWithURL(server.URL)
	client.SetRetry(3, time.Millisecond)

	if _, err := client.DeleteCategory("missing"); err == nil {
		t.Fatal("DeleteCategory() should fail")
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("server saw %d calls, want 1 (404 is not retryable)", got)
	}
}
