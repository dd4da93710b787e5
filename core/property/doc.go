// Package property models the nested property mapping attached to catalog
// records.
//
// The external extractor emits record properties as JSON in which the same
// logical container (for example an entity's component set) may be an array of
// typed structures for one record and an object keyed by component name for
// another. Value is a single tagged variant over both shapes with a uniform
// FindByName accessor, so the loadout walker never inspects concrete types.
//
// # Dump layout
//
//	{
//	  "Components": [
//	    {"__type": "SEntityComponentDefaultLoadoutParams", "loadout": {...}}
//	  ]
//	}
//
// The "__type" field becomes Value.Name; every other field is kept in source order.
package property
