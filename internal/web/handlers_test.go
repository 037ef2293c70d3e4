package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/lightspun/lightspun/internal/search"
	"github.com/lightspun/lightspun/internal/service"
	"github.com/lightspun/lightspun/internal/store"
)

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	m := store.NewMemory()
	engine := search.NewEngine(m, search.Config{}, nil)
	h := &Handlers{
		Addresses:      service.NewAddressService(m, engine, nil),
		States:         service.NewStateService(m, nil),
		Municipalities: service.NewMunicipalityService(m, nil),
	}
	return NewRouter(h)
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rr := doJSON(t, newTestRouter(t), "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestAddressLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, "POST", "/addresses", service.CreateAddressInput{
		StreetAddress: "123 Main St",
		City:          "Los Angeles",
		StateCode:     "ca",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}
	created := decode[store.Address](t, rr)
	if created.FullAddress != "123 Main Street, Los Angeles, CA" {
		t.Errorf("full address = %q", created.FullAddress)
	}

	rr = doJSON(t, router, "GET", fmt.Sprintf("/addresses/%d", created.ID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}

	city := "Pasadena"
	rr = doJSON(t, router, "PUT", fmt.Sprintf("/addresses/%d", created.ID), service.UpdateAddressInput{City: &city})
	if rr.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rr.Code, rr.Body.String())
	}
	updated := decode[store.Address](t, rr)
	if updated.FullAddress != "123 Main Street, Pasadena, CA" {
		t.Errorf("updated full address = %q", updated.FullAddress)
	}

	rr = doJSON(t, router, "DELETE", fmt.Sprintf("/addresses/%d", created.ID), nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}
	rr = doJSON(t, router, "DELETE", fmt.Sprintf("/addresses/%d", created.ID), nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rr.Code)
	}
}

func TestCreateAddressValidation(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, "POST", "/addresses", service.CreateAddressInput{StateCode: "CAL"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	resp := decode[struct {
		Error      string   `json:"error"`
		Violations []string `json:"violations"`
	}](t, rr)
	if len(resp.Violations) != 3 {
		t.Errorf("violations = %v, want all three", resp.Violations)
	}
}

func TestGetAddressNotFound(t *testing.T) {
	rr := doJSON(t, newTestRouter(t), "GET", "/addresses/404", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestAutocompleteEndpoint(t *testing.T) {
	router := newTestRouter(t)

	for _, in := range []service.CreateAddressInput{
		{StreetAddress: "123 Main Street", City: "Los Angeles", StateCode: "CA"},
		{StreetAddress: "124 Main Street", City: "Los Angeles", StateCode: "CA"},
	} {
		if rr := doJSON(t, router, "POST", "/addresses", in); rr.Code != http.StatusCreated {
			t.Fatalf("seed status = %d", rr.Code)
		}
	}

	rr := doJSON(t, router, "GET", "/addresses/autocomplete?q=123+Main", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[struct {
		Query       string   `json:"query"`
		Suggestions []string `json:"suggestions"`
	}](t, rr)
	if len(resp.Suggestions) != 1 || resp.Suggestions[0] != "123 Main Street, Los Angeles, CA" {
		t.Errorf("suggestions = %v", resp.Suggestions)
	}

	// Typo needs the fuzzy flag.
	rr = doJSON(t, router, "GET", "/addresses/autocomplete?q=Main+Stret&fuzzy=true", nil)
	resp = decode[struct {
		Query       string   `json:"query"`
		Suggestions []string `json:"suggestions"`
	}](t, rr)
	if len(resp.Suggestions) != 2 {
		t.Errorf("fuzzy suggestions = %v, want 2", resp.Suggestions)
	}

	// Short query returns an empty list, not null.
	rr = doJSON(t, router, "GET", "/addresses/autocomplete?q=a", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if body := rr.Body.String(); !bytes.Contains([]byte(body), []byte(`"suggestions":[]`)) {
		t.Errorf("short query body = %s, want empty array", body)
	}
}

func TestStreetNamesEndpoint(t *testing.T) {
	router := newTestRouter(t)

	for _, in := range []service.CreateAddressInput{
		{StreetAddress: "123 Main Street", City: "Los Angeles", StateCode: "CA"},
		{StreetAddress: "124 Main Street", City: "Los Angeles", StateCode: "CA"},
	} {
		doJSON(t, router, "POST", "/addresses", in)
	}

	rr := doJSON(t, router, "GET", "/addresses/street-names?q=Main+Stret", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	resp := decode[struct {
		Matches []search.StreetNameMatch `json:"matches"`
	}](t, rr)
	if len(resp.Matches) == 0 || resp.Matches[0].StreetName != "Main Street" || resp.Matches[0].AddressCount != 2 {
		t.Errorf("matches = %+v", resp.Matches)
	}

	rr = doJSON(t, router, "GET", "/addresses/street-names?q=Main&min_similarity=1.5", nil)
	if rr.Code != http.StatusInternalServerError && rr.Code != http.StatusBadRequest {
		t.Errorf("out-of-range threshold status = %d, want error", rr.Code)
	}
}

func TestStatesAndMunicipalities(t *testing.T) {
	router := newTestRouter(t)

	rr := doJSON(t, router, "POST", "/states", service.CreateStateInput{Code: "CA", Name: "California"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create state status = %d", rr.Code)
	}

	rr = doJSON(t, router, "POST", "/municipalities", service.CreateMunicipalityInput{Name: "Los Angeles", Type: "city", StateCode: "CA"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create municipality status = %d, body %s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, router, "GET", "/states", nil)
	states := decode[[]store.State](t, rr)
	if len(states) != 1 || states[0].Code != "CA" {
		t.Errorf("states = %+v", states)
	}

	rr = doJSON(t, router, "GET", "/states/CA/municipalities", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list municipalities status = %d", rr.Code)
	}
	munis := decode[[]store.Municipality](t, rr)
	if len(munis) != 1 || munis[0].Name != "Los Angeles" {
		t.Errorf("municipalities = %+v", munis)
	}

	rr = doJSON(t, router, "GET", "/states/ZZ/municipalities", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown state status = %d, want 404", rr.Code)
	}
}

func TestStatisticsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	doJSON(t, router, "POST", "/addresses", service.CreateAddressInput{
		StreetAddress: "123 Main Street", City: "Los Angeles", StateCode: "CA",
	})

	rr := doJSON(t, router, "GET", "/addresses/statistics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	stats := decode[service.Statistics](t, rr)
	if stats.TotalAddresses != 1 {
		t.Errorf("total = %d, want 1", stats.TotalAddresses)
	}
}
