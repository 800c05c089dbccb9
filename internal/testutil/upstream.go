package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"starship-dashboard/internal/swapi"

	"github.com/goccy/go-json"
)

// Upstream is a fake starship API. Page n (1-based) is served at
// /api/starships?expanded=true&page=n; the first page also without page.
type Upstream struct {
	Server *httptest.Server

	mu       sync.Mutex
	pages    [][]swapi.Record
	statuses map[int]int
	raw      map[int]string
	hits     int
}

// NewUpstream starts a fake upstream serving pages, closed when the test ends.
func NewUpstream(t *testing.T, pages ...[]swapi.Record) *Upstream {
	t.Helper()
	u := &Upstream{
		pages:    pages,
		statuses: make(map[int]int),
		raw:      make(map[int]string),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/starships", u.serve)
	u.Server = httptest.NewServer(mux)
	t.Cleanup(u.Server.Close)
	return u
}

// BaseURL is the API root, suitable for SWAPI_BASE_URL.
func (u *Upstream) BaseURL() string {
	return u.Server.URL + "/api/"
}

// StartURL is the first page of the listing.
func (u *Upstream) StartURL() string {
	return u.Server.URL + "/api/starships?expanded=true"
}

// PageURL is the URL of page n.
func (u *Upstream) PageURL(n int) string {
	return fmt.Sprintf("%s/api/starships?expanded=true&page=%d", u.Server.URL, n)
}

// FailPage makes page n answer with status.
func (u *Upstream) FailPage(n, status int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.statuses[n] = status
}

// RawPage makes page n answer 200 with body verbatim.
func (u *Upstream) RawPage(n int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.raw[n] = body
}

// Hits returns the number of requests served.
func (u *Upstream) Hits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.hits++

	n := 1
	if p := r.URL.Query().Get("page"); p != "" {
		v, err := strconv.Atoi(p)
		if err != nil || v < 1 {
			http.Error(w, "bad page", http.StatusBadRequest)
			return
		}
		n = v
	}
	if status, ok := u.statuses[n]; ok {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if body, ok := u.raw[n]; ok {
		_, _ = w.Write([]byte(body))
		return
	}
	if n > len(u.pages) {
		http.NotFound(w, r)
		return
	}

	body := struct {
		Message string         `json:"message"`
		Results []swapi.Record `json:"results"`
		Next    *string        `json:"next"`
	}{Message: "ok", Results: u.pages[n-1]}
	if n < len(u.pages) {
		next := u.PageURL(n + 1)
		body.Next = &next
	}
	_ = json.NewEncoder(w).Encode(body)
}

// Ship builds a record with the given uid, name and manufacturer text.
func Ship(uid, name, manufacturer string) swapi.Record {
	return swapi.Record{
		UID: uid,
		Properties: swapi.Properties{
			Name:          name,
			Model:         name + " model",
			Manufacturer:  manufacturer,
			CostInCredits: "unknown",
			Length:        "1,600",
			Crew:          "4",
			MGLT:          "75",
			StarshipClass: "starfighter",
			URL:           "https://www.swapi.tech/api/starships/" + uid,
		},
	}
}
