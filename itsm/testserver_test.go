package itsm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"deskwise.io/infra/kvstore"
)

// fakeDesk is an in-process stand-in for the service desk API. Listing
// endpoints page through the configured slices; item endpoints serve the
// configured maps and 404 everything else.
type fakeDesk struct {
	mu sync.Mutex

	assetTypes []AssetTypeRecord
	locations  []LocationRecord
	agents     map[int64]AgentRecord
	assets     map[int64]Asset

	// locations only the single-item endpoint knows about
	singleLocations map[int64]LocationRecord

	searchResults []Asset

	failAssetTypePages map[int]bool // asset type pages that 500
	failSearch         bool

	requests        map[string]int // request count per path
	lastAssetFilter string
}

func newFakeDesk() *fakeDesk {
	return &fakeDesk{
		agents:             map[int64]AgentRecord{},
		assets:             map[int64]Asset{},
		singleLocations:    map[int64]LocationRecord{},
		failAssetTypePages: map[int]bool{},
		requests:           map[string]int{},
	}
}

func (f *fakeDesk) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

func (f *fakeDesk) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests[r.URL.Path]++
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	switch {
	case r.URL.Path == "/api/v2/asset_types":
		if f.failAssetTypePages[page] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, AssetTypesResponse{AssetTypes: pageOf(f.assetTypes, page, perPage)})

	case r.URL.Path == "/api/v2/locations":
		writeJSON(w, LocationsResponse{Locations: pageOf(f.locations, page, perPage)})

	case strings.HasPrefix(r.URL.Path, "/api/v2/locations/"):
		id := pathID(r.URL.Path)
		if loc, ok := f.singleLocations[id]; ok {
			writeJSON(w, LocationResponse{Location: loc})
			return
		}
		for _, loc := range f.locations {
			if loc.ID == id {
				writeJSON(w, LocationResponse{Location: loc})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)

	case r.URL.Path == "/api/v2/assets":
		f.lastAssetFilter = r.URL.Query().Get("filter")
		if f.failSearch {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, AssetsResponse{Assets: f.searchResults})

	case strings.HasPrefix(r.URL.Path, "/api/v2/assets/"):
		if a, ok := f.assets[pathID(r.URL.Path)]; ok {
			writeJSON(w, AssetResponse{Asset: a})
			return
		}
		w.WriteHeader(http.StatusNotFound)

	case strings.HasPrefix(r.URL.Path, "/api/v2/agents/"):
		if a, ok := f.agents[pathID(r.URL.Path)]; ok {
			writeJSON(w, AgentResponse{Agent: a})
			return
		}
		w.WriteHeader(http.StatusNotFound)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func pathID(path string) int64 {
	base := path[strings.LastIndex(path, "/")+1:]
	id, _ := strconv.ParseInt(base, 10, 64)
	return id
}

func pageOf[T any](records []T, page, perPage int) []T {
	if page < 1 || perPage < 1 {
		return []T{}
	}
	start := (page - 1) * perPage
	if start >= len(records) {
		return []T{}
	}
	end := start + perPage
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

// newTestResolver starts a fake upstream and builds a resolver over it with a
// fresh in-memory store and no inter-page delay
func newTestResolver(t *testing.T, desk *fakeDesk, opts ...ResolverOption) *Resolver {
	t.Helper()
	srv := httptest.NewServer(desk)
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL)
	store := NewStore(kvstore.NewInMemoryProvider("test"))
	opts = append([]ResolverOption{InterPageDelay(0)}, opts...)
	return NewResolver(client, store, opts...)
}
