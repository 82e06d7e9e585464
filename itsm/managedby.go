package itsm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"deskwise.io/infra/request"
)

// Managed-by resolution. A "managed by" value on an asset is an untyped
// integer that may identify a person or another asset. Candidate source
// fields are tried in fixed priority; each candidate is interpreted as a
// user ID first and as an asset ID second. An asset reached through the
// second interpretation has its own manager extracted with the same field
// priority list, but only as a person: one level of indirection, no chasing.

// alternate field names consulted after the well-known ones
var alternateManagedByFields = []string{"owner", "assigned_to", "responsible_user", "assigned_agent"}

const managedByField = "managed_by"

// managedByCandidate is one possible managed-by value and the field it came from
type managedByCandidate struct {
	field string
	id    int64
}

// ManagedByInfo resolves the person responsible for the asset to a display
// name. When no interpretation of any candidate succeeds the first candidate
// is rendered as a labeled placeholder so the caller always has something
// displayable; resolution never fails.
func (r *Resolver) ManagedByInfo(ctx context.Context, asset *Asset) string {
	ctx = request.NewRequestID(ctx)

	if asset == nil {
		return "Unassigned"
	}

	candidates := managedByCandidates(asset)
	if len(candidates) == 0 {
		return "Unassigned"
	}

	for _, candidate := range candidates {
		if res := r.resolveManagedByID(ctx, candidate.id, true); res.Resolved {
			return res.Name
		}
	}

	return placeholderFor(candidates[0])
}

// resolveManagedByID tries one candidate value as a user, then optionally as
// an asset whose own manager is extracted and resolved as a user
func (r *Resolver) resolveManagedByID(ctx context.Context, id int64, tryAsset bool) Resolution {
	if res := r.resolveUser(ctx, id); res.Resolved {
		return res
	}
	if !tryAsset {
		return Unresolved()
	}

	referenced := r.fetchAsset(ctx, id)
	if referenced == nil {
		return Unresolved()
	}

	// an asset's manager is assumed to be a person, not chased further
	for _, candidate := range managedByCandidates(referenced) {
		if res := r.resolveUser(ctx, candidate.id); res.Resolved {
			return res
		}
	}
	return Unresolved()
}

// managedByCandidates extracts every plausible managed-by value from the
// asset in priority order: agent_id, the managed_by type field, the direct
// managed_by property, user_id, then the alternate field names.
func managedByCandidates(asset *Asset) []managedByCandidate {
	candidates := make([]managedByCandidate, 0, 4)

	if asset.AgentID > 0 {
		candidates = append(candidates, managedByCandidate{field: "agent_id", id: asset.AgentID})
	}
	if id, ok := typeFieldValue(asset, managedByField); ok {
		candidates = append(candidates, managedByCandidate{field: managedByField, id: id})
	}
	if asset.ManagedBy > 0 {
		candidates = append(candidates, managedByCandidate{field: managedByField, id: asset.ManagedBy})
	}
	if asset.UserID > 0 {
		candidates = append(candidates, managedByCandidate{field: "user_id", id: asset.UserID})
	}
	for _, field := range alternateManagedByFields {
		if id, ok := typeFieldValue(asset, field); ok {
			candidates = append(candidates, managedByCandidate{field: field, id: id})
		}
	}

	return candidates
}

// typeFieldValue looks up a numeric custom field on the asset in three tiers:
// exact key match, asset-type-ID-suffixed key match, then case-insensitive
// substring match between candidate and stored field names. The substring
// tier is lowest priority and only consulted when the first two miss, since
// per-asset-type schemas suffix and mangle field names inconsistently.
func typeFieldValue(asset *Asset, name string) (int64, bool) {
	if len(asset.TypeFields) == 0 {
		return 0, false
	}

	if v, ok := asset.TypeFields[name]; ok {
		if id, ok := numericValue(v); ok && id > 0 {
			return id, true
		}
	}

	if asset.AssetTypeID > 0 {
		suffixed := fmt.Sprintf("%s_%d", name, asset.AssetTypeID)
		if v, ok := asset.TypeFields[suffixed]; ok {
			if id, ok := numericValue(v); ok && id > 0 {
				return id, true
			}
		}
	}

	lower := strings.ToLower(name)
	for key, v := range asset.TypeFields {
		lowerKey := strings.ToLower(key)
		if strings.Contains(lowerKey, lower) || strings.Contains(lower, lowerKey) {
			if id, ok := numericValue(v); ok && id > 0 {
				return id, true
			}
		}
	}

	return 0, false
}

// numericValue coerces the loosely typed JSON values custom fields carry
// into an identifier
func numericValue(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) {
			return int64(t), true
		}
	case int64:
		return t, true
	case int:
		return int64(t), true
	case json.Number:
		if id, err := t.Int64(); err == nil {
			return id, true
		}
	case string:
		if id, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return id, true
		}
	}
	return 0, false
}

// placeholderFor labels an unresolvable candidate by the field it came from
func placeholderFor(candidate managedByCandidate) string {
	if candidate.field == "agent_id" {
		return fmt.Sprintf("Agent ID: %d", candidate.id)
	}
	return fmt.Sprintf("User ID: %d", candidate.id)
}
