package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmcrae/catman/internal/catalog"
)

const (
	testUser = "catman"
	testPass = "secret"
)

func newTestAPI(t *testing.T) (*API, *httptest.Server) {
	t.Helper()

	api := NewAPI(NewStore(), NewHub(), testUser, testPass)
	ts := httptest.NewServer(api.Routes())
	t.Cleanup(ts.Close)

	return api, ts
}

func doRequest(t *testing.T, method, url string, body []byte, authed bool) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if authed {
		req.SetBasicAuth(testUser, testPass)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decodeList(t *testing.T, resp *http.Response) []catalog.Category {
	t.Helper()

	var body struct {
		Categories []catalog.Category `json:"categories"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	return body.Categories
}

func TestHealthz_NoAuthRequired(t *testing.T) {
	_, ts := newTestAPI(t)

	resp := doRequest(t, http.MethodGet, ts.URL+"/v1/healthz", nil, false)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAuth_Required(t *testing.T) {
	_, ts := newTestAPI(t)

	resp := doRequest(t, http.MethodGet, ts.URL+"/v1/categories", nil, false)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if got := resp.Header.Get("WWW-Authenticate"); got == "" {
		t.Error("401 response should carry WWW-Authenticate")
	}
}

func TestAuth_BadCredentials(t *testing.T) {
	_, ts := newTestAPI(t)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/categories", nil)
	req.SetBasicAuth(testUser, "wrong")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestCategories_CRUDRoundtrip(t *testing.T) {
	_, ts := newTestAPI(t)

	// Empty list to start
	resp := doRequest(t, http.MethodGet, ts.URL+"/v1/categories", nil, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d, want 200", resp.StatusCode)
	}
	if got := decodeList(t, resp); len(got) != 0 {
		t.Fatalf("initial list has %d categories, want 0", len(got))
	}

	// Create
	resp = doRequest(t, http.MethodPost, ts.URL+"/v1/categories",
		[]byte(`{"description":"Fruit"}`), true)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}

	var identity struct {
		ID  int64  `json:"id"`
		Key string `json:"key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	if identity.ID == 0 || identity.Key == "" {
		t.Fatalf("create returned incomplete identity %+v", identity)
	}

	// Update
	resp = doRequest(t, http.MethodPut, ts.URL+"/v1/categories/"+identity.Key,
		[]byte(`{"description":"Fruits"}`), true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, want 200", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodGet, ts.URL+"/v1/categories", nil, true)
	list := decodeList(t, resp)
	if len(list) != 1 || list[0].Description != "Fruits" {
		t.Fatalf("list after update = %+v, want one category Fruits", list)
	}

	// Delete
	resp = doRequest(t, http.MethodDelete, ts.URL+"/v1/categories/"+identity.Key, nil, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d, want 200", resp.StatusCode)
	}

	resp = doRequest(t, http.MethodGet, ts.URL+"/v1/categories", nil, true)
	if got := decodeList(t, resp); len(got) != 0 {
		t.Fatalf("list after delete has %d categories, want 0", len(got))
	}
}

func TestCreate_BadRequests(t *testing.T) {
	_, ts := newTestAPI(t)

	tests := []struct {
		name string
		body string
	}{
		{"blank description", `{"description":"  "}`},
		{"malformed json", `{not json`},
		{"unknown field", `{"description":"Fruit","extra":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPost, ts.URL+"/v1/categories",
				[]byte(tt.body), true)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestUpdate_MissingKey(t *testing.T) {
	_, ts := newTestAPI(t)

	resp := doRequest(t, http.MethodPut, ts.URL+"/v1/categories/missing",
		[]byte(`{"description":"Fruits"}`), true)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if body.Error == "" {
		t.Error("error response should carry a message")
	}
}

func TestDelete_MissingKey(t *testing.T) {
	_, ts := newTestAPI(t)

	resp := doRequest(t, http.MethodDelete, ts.URL+"/v1/categories/missing", nil, true)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestList_PreservesOrder(t *testing.T) {
	api, ts := newTestAPI(t)

	for _, d := range []string{"Fruit", "Vegetables", "Dairy"} {
		if _, err := api.store.Create(d); err != nil {
			t.Fatalf("seed Create(%q) error = %v", d, err)
		}
	}

	resp := doRequest(t, http.MethodGet, ts.URL+"/v1/categories", nil, true)
	list := decodeList(t, resp)

	want := []string{"Fruit", "Vegetables", "Dairy"}
	if len(list) != len(want) {
		t.Fatalf("got %d categories, want %d", len(list), len(want))
	}
	for i, d := range want {
		if list[i].Description != d {
			t.Errorf("list[%d].Description = %q, want %q", i, list[i].Description, d)
		}
	}
}
