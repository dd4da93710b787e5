package catalog

// Config holds catalog listing filters.
type Config struct {
	// Limit caps the number of records returned by search and listing.
	Limit int `mapstructure:"limit" default:"200"`
	// BlacklistTypes hides records whose type contains any of these names.
	BlacklistTypes []string `mapstructure:"blacklist_types" default:"Dialogue,Process,Audio,Particle,Animation,Light,Mannequin,Prefab,Procedural,Loadout,SLoadout,Archetype,Token,Character,AI"`
	// VariantSuffixes mark colour and skin variants sharing their base geometry.
	VariantSuffixes []string `mapstructure:"variant_suffixes" default:"_tint,_red,_blue,_green,_yellow,_black,_white,_grey,_gray,_purple,_orange,_pink,_tan,_gold,_silver,_chrome,_copper,_wood,_camo,_polar,_desert,_forest,_executive,_concierge,_subscriber,_dazzle,_digital,_klibre"`
}

// DefaultConfig returns the configuration the default tags above describe.
// It must stay equal to a loaded config with no overrides; TestLoadConfig_Defaults
// in core/config checks that.
func DefaultConfig() Config {
	return Config{
		Limit: 200,
		BlacklistTypes: []string{
			"Dialogue", "Process", "Audio", "Particle", "Animation", "Light",
			"Mannequin", "Prefab", "Procedural", "Loadout", "SLoadout",
			"Archetype", "Token", "Character", "AI",
		},
		VariantSuffixes: []string{
			"_tint", "_red", "_blue", "_green", "_yellow", "_black",
			"_white", "_grey", "_gray", "_purple", "_orange", "_pink",
			"_tan", "_gold", "_silver", "_chrome", "_copper",
			"_wood", "_camo", "_polar", "_desert", "_forest",
			"_executive", "_concierge", "_subscriber", "_dazzle",
			"_digital", "_klibre",
		},
	}
}
