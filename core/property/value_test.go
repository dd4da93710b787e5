package property_test

import (
	"encoding/json"
	"testing"

	"print-exporter/core/property"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listComponents = `{
  "Components": [
    {"__type": "SGeometryResourceParams", "path": "a.cgf"},
    {"__type": "SEntityComponentDefaultLoadoutParams", "loadout": {"entries": [
      {"itemPortName": "hardpoint_gun_left", "entityClassName": "BEHR_LaserCannon_S2"}
    ]}}
  ]
}`

const keyedComponents = `{
  "Components": {
    "SGeometryResourceParams": {"path": "a.cgf"},
    "SEntityComponentDefaultLoadoutParams": {"loadout": {"entries": []}},
    "extra": {"__type": "SEntityComponentDefaultLoadoutParams", "loadout": {}}
  }
}`

func TestUnmarshal_Shapes(t *testing.T) {
	var list property.Value
	require.NoError(t, json.Unmarshal([]byte(listComponents), &list))
	comps := list.Path("Components")
	assert.Equal(t, property.KindList, comps.Kind)

	found := comps.FindByName("SEntityComponentDefaultLoadoutParams")
	require.Len(t, found, 1)
	entries := found[0].Path("loadout", "entries")
	require.Len(t, entries.Items(), 1)
	assert.Equal(t, "hardpoint_gun_left", entries.Items()[0].Path("itemPortName").String())

	var keyed property.Value
	require.NoError(t, json.Unmarshal([]byte(keyedComponents), &keyed))
	comps = keyed.Path("Components")
	assert.Equal(t, property.KindKeyed, comps.Kind)
	// direct key plus one typed child
	assert.Len(t, comps.FindByName("SEntityComponentDefaultLoadoutParams"), 2)
	assert.Equal(t, []string{"SGeometryResourceParams", "SEntityComponentDefaultLoadoutParams", "extra"}, comps.Keys)
}

func TestScalars(t *testing.T) {
	var v property.Value
	require.NoError(t, json.Unmarshal([]byte(`{"a": 1, "b": 1.5, "c": true, "d": "x", "e": null}`), &v))
	assert.Equal(t, "1", v.Path("a").String())
	assert.Equal(t, "1.5", v.Path("b").String())
	assert.Equal(t, "true", v.Path("c").String())
	assert.Equal(t, "x", v.Path("d").String())
	assert.True(t, v.Path("e").IsNull())
	assert.Equal(t, 1, v.Path("a").Int())
	assert.Equal(t, 1.5, v.Path("b").Float())
	assert.True(t, v.Path("c").Bool())
	assert.False(t, v.Path("d").Bool())
	assert.Equal(t, 0, v.Path("missing").Int())
	assert.True(t, v.Path("missing", "deeper").IsNull())
	assert.Empty(t, v.Path("d").FindByName("x"))
}

func TestMarshalRoundTripKeepsOrder(t *testing.T) {
	v := property.Keyed("SLandingGear", "bone", "gear_front", "geometry", property.Keyed("", "path", "gear.cga"))
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"__type":"SLandingGear","bone":"gear_front","geometry":{"path":"gear.cga"}}`, string(raw))

	var back property.Value
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "SLandingGear", back.Name)
	assert.Equal(t, "gear.cga", back.Path("geometry", "path").String())
}
