package export

// Config holds the tunables of the export pipeline.
type Config struct {
	// Selector weights used to rank geometry candidates.
	Selector SelectorConfig `mapstructure:"selector"`
	// Dedup thresholds of the LOD deduplicator.
	Dedup DedupConfig `mapstructure:"dedup"`
	// Assembly naming conventions for sub-part grafting.
	Assembly AssemblyConfig `mapstructure:"assembly"`
	// Orientation is the default preset applied by the normalizer (assembled, direct).
	Orientation string `mapstructure:"orientation" default:"assembled"`
	// Preview also writes a GLB next to the OBJ.
	Preview bool `mapstructure:"preview" default:"true"`
	// Publish uploads finished exports to the storage bucket.
	Publish bool `mapstructure:"publish" default:"false"`
	// PublishPrefix is the bucket folder exports are uploaded to.
	PublishPrefix string `mapstructure:"publish_prefix" default:"exports"`
	// BatchWorkers bounds concurrent exports in a batch.
	BatchWorkers int `mapstructure:"batch_workers" default:"4"`
	// BatchMaxItems caps the number of ids accepted in one batch request.
	BatchMaxItems int `mapstructure:"batch_max_items" default:"50"`
}

// SelectorConfig holds geometry candidate weights.
type SelectorConfig struct {
	PreferredTags  []string `mapstructure:"preferred_tags" default:"inventoryStoredEntity,tableDisplay,heldEntity"`
	PreferredBonus int      `mapstructure:"preferred_bonus" default:"100"`
	PropBonus      int      `mapstructure:"prop_bonus" default:"50"`
	SkinBonus      int      `mapstructure:"skin_bonus" default:"30"`
	CGABonus       int      `mapstructure:"cga_bonus" default:"20"`
	CGFBonus       int      `mapstructure:"cgf_bonus" default:"10"`
	CDFBonus       int      `mapstructure:"cdf_bonus" default:"5"`
	// Penalties are subtracted from the score.
	DisplayPenalty   int `mapstructure:"display_penalty" default:"500"`
	CratePenalty     int `mapstructure:"crate_penalty" default:"100"`
	MannequinPenalty int `mapstructure:"mannequin_penalty" default:"100"`
}

// DedupConfig holds LOD deduplication thresholds.
type DedupConfig struct {
	// MinVertices is the small-fragment floor; fragments below it are dropped.
	MinVertices int `mapstructure:"min_vertices" default:"10"`
	// CenterTolerance is the maximum center distance relative to the larger size.
	CenterTolerance float64 `mapstructure:"center_tolerance" default:"0.01"`
	// SizeTolerance is the maximum size difference relative to the larger size.
	SizeTolerance float64 `mapstructure:"size_tolerance" default:"0.02"`
	// Epsilon floors the relative denominator.
	Epsilon float64 `mapstructure:"epsilon" default:"0.1"`
	// DropPattern matches fragment names that are always dropped (regexp, case-insensitive).
	DropPattern string `mapstructure:"drop_pattern" default:"proxy|\\$physics|_lod[1-9]"`
	// KeepPattern matches fragment names that are always kept (regexp, case-insensitive).
	KeepPattern string `mapstructure:"keep_pattern" default:"glass|guts|interior|door"`
}

// AssemblyConfig holds sub-part naming conventions.
type AssemblyConfig struct {
	// CompanionSuffix names the auxiliary assembly record: <item name><suffix>.
	CompanionSuffix string `mapstructure:"companion_suffix" default:"_LandingSystem"`
	// PartsKey is the list property of the companion record.
	PartsKey string `mapstructure:"parts_key" default:"gears"`
	// LoadoutComponent is the component type holding default loadout entries.
	LoadoutComponent string `mapstructure:"loadout_component" default:"SEntityComponentDefaultLoadoutParams"`
	// NodePrefix names grafted nodes: <prefix><attach point>.
	NodePrefix string `mapstructure:"node_prefix" default:"Attached_"`
	// FallbackPatterns are archive globs tried for loadout classes without usable
	// geometry; %s is replaced by the class name.
	FallbackPatterns []string `mapstructure:"fallback_patterns" default:"Data/**/%s.cga,Data/**/%s.cgf,Data/**/%s_lod0.cga"`
}

// DefaultConfig returns the configuration the default tags above describe.
// It must stay equal to a loaded config with no overrides; TestLoadConfig_Defaults
// in core/config checks that.
func DefaultConfig() Config {
	return Config{
		Selector: SelectorConfig{
			PreferredTags:    []string{"inventoryStoredEntity", "tableDisplay", "heldEntity"},
			PreferredBonus:   100,
			PropBonus:        50,
			SkinBonus:        30,
			CGABonus:         20,
			CGFBonus:         10,
			CDFBonus:         5,
			DisplayPenalty:   500,
			CratePenalty:     100,
			MannequinPenalty: 100,
		},
		Dedup: DedupConfig{
			MinVertices:     10,
			CenterTolerance: 0.01,
			SizeTolerance:   0.02,
			Epsilon:         0.1,
			DropPattern:     `proxy|\$physics|_lod[1-9]`,
			KeepPattern:     "glass|guts|interior|door",
		},
		Assembly: AssemblyConfig{
			CompanionSuffix:  "_LandingSystem",
			PartsKey:         "gears",
			LoadoutComponent: "SEntityComponentDefaultLoadoutParams",
			NodePrefix:       "Attached_",
			FallbackPatterns: []string{"Data/**/%s.cga", "Data/**/%s.cgf", "Data/**/%s_lod0.cga"},
		},
		Orientation:   OrientationAssembled,
		Preview:       true,
		PublishPrefix: "exports",
		BatchWorkers:  4,
		BatchMaxItems: 50,
	}
}
