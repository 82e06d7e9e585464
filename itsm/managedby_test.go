package itsm

import (
	"context"
	"encoding/json"
	"testing"

	"deskwise.io/infra/assert"
)

func TestManagedByInfoNilAsset(t *testing.T) {
	ctx := context.Background()
	r := newTestResolver(t, newFakeDesk())

	assert.Equal(t, r.ManagedByInfo(ctx, nil), "Unassigned")
}

func TestManagedByInfoNoCandidates(t *testing.T) {
	ctx := context.Background()
	r := newTestResolver(t, newFakeDesk())

	assert.Equal(t, r.ManagedByInfo(ctx, &Asset{ID: 1, Name: "printer"}), "Unassigned")
}

func TestManagedByInfoAgentIDWinsOverTypeFields(t *testing.T) {
	ctx := context.Background()
	desk := newFakeDesk()
	desk.agents[5] = AgentRecord{ID: 5, FirstName: "Alice", LastName: "Nguyen"}
	desk.agents[9] = AgentRecord{ID: 9, FirstName: "Bob", LastName: "Ortiz"}
	r := newTestResolver(t, desk)

	asset := &Asset{
		ID:          1,
		AgentID:     5,
		TypeFields:  map[string]interface{}{"managed_by_9999": float64(9)},
		AssetTypeID: 9999,
	}
	assert.Equal(t, r.ManagedByInfo(ctx, asset), "Alice Nguyen")
	// the lower-priority candidate is never consulted
	assert.Equal(t, desk.count("/api/v2/agents/9"), 0)
}

func TestManagedByInfoFallsThroughToNextCandidate(t *testing.T) {
	ctx := context.Background()
	desk := newFakeDesk()
	// 5 is neither a known person nor a known asset; 9 resolves
	desk.agents[9] = AgentRecord{ID: 9, FirstName: "Bob"}
	r := newTestResolver(t, desk)

	asset := &Asset{
		ID:          1,
		AgentID:     5,
		TypeFields:  map[string]interface{}{"managed_by_9999": float64(9)},
		AssetTypeID: 9999,
	}
	assert.Equal(t, r.ManagedByInfo(ctx, asset), "Bob")
}

func TestManagedByInfoResolvesThroughReferencedAsset(t *testing.T) {
	ctx := context.Background()
	desk := newFakeDesk()
	// 5 is not a person but an asset whose own manager is agent 7
	desk.assets[5] = Asset{ID: 5, DisplayID: 5, Name: "mgmt server", AgentID: 7}
	desk.agents[7] = AgentRecord{ID: 7, FirstName: "Alice"}
	r := newTestResolver(t, desk)

	asset := &Asset{ID: 1, AgentID: 5}
	assert.Equal(t, r.ManagedByInfo(ctx, asset), "Alice")
}

func TestManagedByInfoSingleLevelOfIndirection(t *testing.T) {
	ctx := context.Background()
	desk := newFakeDesk()
	// asset 5 points at asset 6 which points at a real person; the chain must
	// not be followed past the first referenced asset
	desk.assets[5] = Asset{ID: 5, DisplayID: 5, AgentID: 6}
	desk.assets[6] = Asset{ID: 6, DisplayID: 6, AgentID: 7}
	desk.agents[7] = AgentRecord{ID: 7, FirstName: "Alice"}
	r := newTestResolver(t, desk)

	asset := &Asset{ID: 1, AgentID: 5}
	assert.Equal(t, r.ManagedByInfo(ctx, asset), "Agent ID: 5")
	assert.Equal(t, desk.count("/api/v2/assets/6"), 0)
}

func TestManagedByInfoPlaceholderUsesFirstCandidate(t *testing.T) {
	ctx := context.Background()
	desk := newFakeDesk()
	r := newTestResolver(t, desk)

	assert.Equal(t, r.ManagedByInfo(ctx, &Asset{ID: 1, AgentID: 5}), "Agent ID: 5")
	assert.Equal(t, r.ManagedByInfo(ctx, &Asset{ID: 2, UserID: 11}), "User ID: 11")
	assert.Equal(t, r.ManagedByInfo(ctx, &Asset{ID: 3, ManagedBy: 8}), "User ID: 8")
}

func TestManagedByCandidatesPriorityOrder(t *testing.T) {
	asset := &Asset{
		ID:          1,
		AgentID:     5,
		UserID:      11,
		ManagedBy:   8,
		AssetTypeID: 2,
		TypeFields: map[string]interface{}{
			"managed_by_2": float64(9),
			"owner":        float64(13),
		},
	}

	candidates := managedByCandidates(asset)
	ids := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.id)
	}
	assert.Equal(t, ids, []int64{5, 9, 8, 11, 13}, assert.Diff())
}

func TestTypeFieldValueExactMatch(t *testing.T) {
	asset := &Asset{TypeFields: map[string]interface{}{"managed_by": float64(9)}}
	id, ok := typeFieldValue(asset, "managed_by")
	assert.True(t, ok)
	assert.Equal(t, id, int64(9))
}

func TestTypeFieldValueSuffixedMatch(t *testing.T) {
	asset := &Asset{
		AssetTypeID: 27,
		TypeFields:  map[string]interface{}{"managed_by_27": float64(9)},
	}
	id, ok := typeFieldValue(asset, "managed_by")
	assert.True(t, ok)
	assert.Equal(t, id, int64(9))
}

func TestTypeFieldValueSubstringMatch(t *testing.T) {
	asset := &Asset{TypeFields: map[string]interface{}{"Managed_By_Custom": "42"}}
	id, ok := typeFieldValue(asset, "managed_by")
	assert.True(t, ok)
	assert.Equal(t, id, int64(42))
}

func TestTypeFieldValueIgnoresNonIdentifiers(t *testing.T) {
	asset := &Asset{TypeFields: map[string]interface{}{
		"managed_by":  "not a number",
		"owner":       float64(3.5),
		"assigned_to": float64(0),
	}}

	_, ok := typeFieldValue(asset, "managed_by")
	assert.False(t, ok)
	_, ok = typeFieldValue(asset, "owner")
	assert.False(t, ok)
	_, ok = typeFieldValue(asset, "assigned_to")
	assert.False(t, ok)
}

func TestNumericValueCoercions(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int64
		ok   bool
	}{
		{float64(7), 7, true},
		{float64(7.2), 0, false},
		{int64(8), 8, true},
		{int(9), 9, true},
		{json.Number("10"), 10, true},
		{" 11 ", 11, true},
		{"bogus", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, c := range cases {
		got, ok := numericValue(c.in)
		assert.Equal(t, ok, c.ok, assert.Errorf("input %v", c.in))
		assert.Equal(t, got, c.want, assert.Errorf("input %v", c.in))
	}
}
