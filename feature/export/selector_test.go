package export

import (
	"testing"

	"print-exporter/core/records"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector_Score(t *testing.T) {
	s := NewSelector(DefaultConfig().Selector)

	tests := []struct {
		name       string
		tag        string
		path       string
		want       int
		suppressed bool
	}{
		{"preferred prop skin", "inventoryStoredEntity", "Data/Objects/Weapon_Prop.skin", 180, false},
		{"tag case", "HELDENTITY", "Data/Objects/rifle.cga", 120, false},
		{"plain cgf", "", "Data/Objects/rifle.cgf", 10, false},
		{"definition", "", "Data/Objects/armor.cdf", 5, false},
		{"display", "tableDisplay", "Data/Objects/rifle_display.cga", -380, true},
		{"crate", "", "Data/Objects/Crate/crate.cgf", -90, true},
		{"mannequin", "", "Data/Objects/Mannequin/body.chr", -100, true},
		{"unknown extension", "", "Data/Objects/thing.bin", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, suppressed := s.Score(tt.tag, tt.path)
			assert.Equal(t, tt.want, score)
			assert.Equal(t, tt.suppressed, suppressed)
		})
	}
}

func TestSelector_CratePropLosesToWeaponProp(t *testing.T) {
	s := NewSelector(DefaultConfig().Selector)

	best, ranked, err := s.Select([]records.Candidate{
		{Tag: "inventoryStoredEntity", Path: "Data/Objects/Crate/crate_prop.cgf"},
		{Tag: "", Path: "Data/Objects/Weapons/rifle_weapon_prop.cgf"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Data/Objects/Weapons/rifle_weapon_prop.cgf", best.Path)
	assert.Len(t, ranked, 2)
}

func TestSelector_PenalisedOnlyWhenNothingElse(t *testing.T) {
	cfg := DefaultConfig().Selector
	// Even with a tiny penalty a clean candidate wins.
	cfg.DisplayPenalty = 1
	s := NewSelector(cfg)

	best, _, err := s.Select([]records.Candidate{
		{Tag: "tableDisplay", Path: "Data/Objects/gun_prop_display.skin"},
		{Tag: "", Path: "Data/Objects/gun.cgf"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Data/Objects/gun.cgf", best.Path)

	best, _, err = s.Select([]records.Candidate{
		{Tag: "", Path: "Data/Objects/gun_display.cga"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Data/Objects/gun_display.cga", best.Path)
	assert.True(t, best.Suppressed)
}

func TestSelector_TiesKeepInputOrder(t *testing.T) {
	s := NewSelector(DefaultConfig().Selector)
	cands := []records.Candidate{
		{Tag: "a", Path: "Data/one.cga"},
		{Tag: "b", Path: "Data/two.cga"},
		{Tag: "c", Path: "Data/three.cga"},
	}

	first, ranked, err := s.Select(cands)
	require.NoError(t, err)
	assert.Equal(t, "Data/one.cga", first.Path)

	for i := 0; i < 10; i++ {
		again := s.Rank(cands)
		assert.Equal(t, ranked, again)
	}
}

func TestSelector_Empty(t *testing.T) {
	s := NewSelector(DefaultConfig().Selector)

	_, _, err := s.Select(nil)
	assert.Equal(t, KindNoGeometryFound, KindOf(err))

	_, _, err = s.Select([]records.Candidate{{Tag: "x", Path: "  "}})
	assert.Equal(t, KindNoGeometryFound, KindOf(err))
}
