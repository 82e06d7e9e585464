package itsm

import (
	"strconv"
	"strings"
	"time"
)

// AssetTypeRecord is a category classification for a managed asset (e.g. laptop, server)
type AssetTypeRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Visible     bool   `json:"visible"`
}

// LocationRecord is a physical or logical location assets can be assigned to
type LocationRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AgentRecord is a person (agent or requester) known to the service desk
type AgentRecord struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// DisplayName returns the best human-readable name for the agent, falling
// back to the email address when no name parts are set
func (a AgentRecord) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
	if name != "" {
		return name
	}
	return strings.TrimSpace(a.Email)
}

// Asset is a managed asset as returned by the asset endpoints. The managed-by
// style fields (AgentID, UserID, ManagedBy and their type_fields variants) all
// share one untyped integer space upstream: the same value may be a person ID
// or another asset's ID, which is why resolution is precedence-based.
type Asset struct {
	ID          int64                  `json:"id"`
	DisplayID   int64                  `json:"display_id"`
	Name        string                 `json:"name"`
	DisplayName string                 `json:"display_name"`
	AssetTypeID int64                  `json:"asset_type_id"`
	AgentID     int64                  `json:"agent_id"`
	UserID      int64                  `json:"user_id"`
	ManagedBy   int64                  `json:"managed_by"`
	TypeFields  map[string]interface{} `json:"type_fields"`
}

// Label returns the name to show (and sort by) for the asset
func (a Asset) Label() string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Name
}

// AssetTypesResponse is the response from listing asset types
type AssetTypesResponse struct {
	AssetTypes []AssetTypeRecord `json:"asset_types"`
}

// LocationsResponse is the response from listing locations
type LocationsResponse struct {
	Locations []LocationRecord `json:"locations"`
}

// LocationResponse is the response from fetching a single location
type LocationResponse struct {
	Location LocationRecord `json:"location"`
}

// AssetsResponse is the response from listing or searching assets
type AssetsResponse struct {
	Assets []Asset `json:"assets"`
}

// AssetResponse is the response from fetching a single asset
type AssetResponse struct {
	Asset Asset `json:"asset"`
}

// AgentsResponse is the response from listing agents
type AgentsResponse struct {
	Agents []AgentRecord `json:"agents"`
}

// AgentResponse is the response from fetching a single agent
type AgentResponse struct {
	Agent AgentRecord `json:"agent"`
}

// CacheTTL is the process-wide freshness window for cache entries
const CacheTTL = 5 * time.Minute

// CacheEntry pairs a cached value with the time it was cached. Entries past
// the TTL are not deleted; a stale entry remains available as a last-resort
// fallback value when refresh fails.
type CacheEntry[T any] struct {
	Value    T         `json:"value"`
	CachedAt time.Time `json:"cached_at"`
}

// NewCacheEntry returns an entry stamped with the current time
func NewCacheEntry[T any](value T) CacheEntry[T] {
	return CacheEntry[T]{Value: value, CachedAt: time.Now().UTC()}
}

// IsFresh returns true iff the entry is within the TTL window as of now
func (e CacheEntry[T]) IsFresh(now time.Time) bool {
	return now.Sub(e.CachedAt) < CacheTTL
}

// Resolution is the outcome of one attempt to turn an identifier into a
// display name. Callers compose fallbacks by checking IsResolved explicitly
// rather than sniffing placeholder strings.
type Resolution struct {
	Name     string
	Resolved bool
}

// Resolved returns a successful Resolution carrying the display name
func Resolved(name string) Resolution {
	return Resolution{Name: name, Resolved: true}
}

// Unresolved returns a failed Resolution
func Unresolved() Resolution {
	return Resolution{}
}

// cacheKeyForID converts a numeric identifier into a bucket mapping key
func cacheKeyForID(id int64) string {
	return strconv.FormatInt(id, 10)
}
