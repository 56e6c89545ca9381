// Package config loads the site content and component tunables from YAML.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides: FOLIO_THEME -> theme,
// FOLIO_WINDOW_WIDTH -> window.width, FOLIO_TRAIL_CAPACITY -> trail.capacity.
const EnvPrefix = "FOLIO_"

// Load reads configuration from the given YAML file on top of the embedded
// defaults, then overlays environment variable overrides (FOLIO_*). A
// missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	if err := k.Load(bytesProvider(defaultYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// Load YAML file if it exists.
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

// envSections are the config sections whose keys can be set from the
// environment: FOLIO_TRAIL_CAPACITY -> trail.capacity.
var envSections = []string{"window", "reveal", "carousel", "trail", "typing"}

// envKey maps FOLIO_REDUCED_MOTION to reduced_motion and FOLIO_<SECTION>_*
// to <section>.*.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	for _, sec := range envSections {
		if rest, ok := strings.CutPrefix(key, sec+"_"); ok {
			return sec + "." + rest
		}
	}
	return key
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}

	if len(c.Translations) == 0 {
		return fmt.Errorf("translations are required")
	}
	if _, ok := c.Translations[c.Language]; !ok {
		return fmt.Errorf("invalid language %q: no translations", c.Language)
	}
	if len(c.Languages) == 0 {
		return fmt.Errorf("languages is required")
	}
	for _, lang := range c.Languages {
		if _, ok := c.Translations[lang]; !ok {
			return fmt.Errorf("invalid languages entry %q: no translations", lang)
		}
	}

	if c.Theme != "light" && c.Theme != "dark" {
		return fmt.Errorf("invalid theme %q: must be one of light, dark", c.Theme)
	}

	for id, p := range c.Palettes {
		if _, err := parsePalette(p); err != nil {
			return fmt.Errorf("invalid palettes.%s: %w", id, err)
		}
	}
	if _, err := parsePalette(c.Monochrome); err != nil {
		return fmt.Errorf("invalid monochrome: %w", err)
	}

	for i, g := range c.Galleries {
		for j, im := range g.Images {
			if im.Preview == "" && im.Full == "" {
				return fmt.Errorf("galleries[%d].images[%d] has no preview or full reference", i, j)
			}
		}
	}

	for _, t := range c.SectionThresholds {
		if t < 0 || t > 1 {
			return fmt.Errorf("section_thresholds entry %v must be within [0, 1]", t)
		}
	}
	if c.PaletteThreshold < 0 || c.PaletteThreshold > 1 {
		return fmt.Errorf("palette_threshold %v must be within [0, 1]", c.PaletteThreshold)
	}

	if c.Reveal.MaxDistanceFactor <= 0 {
		return fmt.Errorf("reveal.max_distance_factor must be positive")
	}
	if c.Reveal.Exponent <= 0 {
		return fmt.Errorf("reveal.exponent must be positive")
	}

	if c.Carousel.ScrollMS < 0 {
		return fmt.Errorf("carousel.scroll_ms must be non-negative")
	}
	if _, ok := easings[c.Carousel.Ease]; !ok {
		return fmt.Errorf("invalid carousel.ease %q", c.Carousel.Ease)
	}

	if c.Trail.Capacity <= 0 {
		return fmt.Errorf("trail.capacity must be positive")
	}
	if c.Trail.ReducedCapacity <= 0 || c.Trail.ReducedCapacity > c.Trail.Capacity {
		return fmt.Errorf("trail.reduced_capacity must be within [1, trail.capacity]")
	}
	for name, r := range map[string]RangeConfig{
		"light_delay_ms":   c.Trail.LightDelayMS,
		"dark_delay_ms":    c.Trail.DarkDelayMS,
		"reduced_delay_ms": c.Trail.ReducedDelayMS,
	} {
		if r.Min <= 0 || r.Max < r.Min {
			return fmt.Errorf("trail.%s must satisfy 0 < min <= max", name)
		}
	}
	if c.Trail.FollowerWeight <= 0 || c.Trail.FollowerWeight > 1 {
		return fmt.Errorf("trail.follower_weight must be within (0, 1]")
	}

	if c.Typing.TypeMS <= 0 || c.Typing.DeleteMS <= 0 {
		return fmt.Errorf("typing.type_ms and typing.delete_ms must be positive")
	}
	if c.Typing.HoldMS < 0 || c.Typing.GapMS < 0 {
		return fmt.Errorf("typing.hold_ms and typing.gap_ms must be non-negative")
	}
	return nil
}
