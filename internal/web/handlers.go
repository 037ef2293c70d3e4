package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/lightspun/lightspun/internal/search"
	"github.com/lightspun/lightspun/internal/service"
	"github.com/lightspun/lightspun/internal/store"
)

// Handlers holds the services behind the HTTP API.
type Handlers struct {
	Addresses      *service.AddressService
	States         *service.StateService
	Municipalities *service.MunicipalityService
	Log            *zap.Logger
}

type errorResponse struct {
	Error      string   `json:"error"`
	Violations []string `json:"violations,omitempty"`
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) ListStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.States.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, states)
}

func (h *Handlers) CreateState(w http.ResponseWriter, r *http.Request) {
	var in service.CreateStateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	created, err := h.States.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) ListMunicipalities(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	state, err := h.States.ByCode(r.Context(), code)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if state == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "state not found"})
		return
	}
	munis, err := h.Municipalities.ByStateCode(r.Context(), code)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, munis)
}

func (h *Handlers) CreateMunicipality(w http.ResponseWriter, r *http.Request) {
	var in service.CreateMunicipalityInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	created, err := h.Municipalities.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) ListAddresses(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	addresses, err := h.Addresses.List(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, addresses)
}

func (h *Handlers) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var in service.CreateAddressInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	created, err := h.Addresses.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) GetAddress(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	a, err := h.Addresses.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if a == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "address not found"})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handlers) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateAddressInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	updated, err := h.Addresses.Update(r.Context(), pathID(r), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	if err := h.Addresses.Delete(r.Context(), pathID(r)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Autocomplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 10)
	f := store.Filter{
		StateCode: r.URL.Query().Get("state"),
		City:      r.URL.Query().Get("city"),
	}
	fuzzy := queryBool(r, "fuzzy")

	var (
		suggestions []string
		err         error
	)
	if fuzzy {
		suggestions, err = h.Addresses.FuzzySearch(r.Context(), q, limit, f)
	} else {
		suggestions, err = h.Addresses.Search(r.Context(), q, limit, f)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":       q,
		"suggestions": suggestions,
	})
}

func (h *Handlers) SearchStreetNames(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 10)
	minSimilarity := queryFloat(r, "min_similarity", 0.3)

	matches, err := h.Addresses.SearchStreetNames(r.Context(), q, limit, minSimilarity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if matches == nil {
		matches = []search.StreetNameMatch{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"matches": matches,
	})
}

func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Addresses.Statistics(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid input", Violations: ve.Violations})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		if h.Log != nil {
			h.Log.Error("request failed", zap.Error(err))
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) int64 {
	// The route pattern guarantees digits.
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func queryFloat(r *http.Request, key string, def float64) float64 {
	if v := r.URL.Query().Get(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func queryBool(r *http.Request, key string) bool {
	switch strings.ToLower(r.URL.Query().Get(key)) {
	case "true", "1", "yes":
		return true
	}
	return false
}
