package config

// Config is the complete site configuration: the window, per-run options,
// the page content and the component tunables.
type Config struct {
	Window        WindowConfig `yaml:"window" koanf:"window"`
	Language      string       `yaml:"language" koanf:"language"`
	Languages     []string     `yaml:"languages" koanf:"languages"`
	Theme         string       `yaml:"theme" koanf:"theme"`
	ReducedMotion bool         `yaml:"reduced_motion" koanf:"reduced_motion"`
	Debug         bool         `yaml:"debug" koanf:"debug"`
	// Assets is the directory image references are resolved against.
	Assets string `yaml:"assets" koanf:"assets"`

	Page PageConfig `yaml:"page" koanf:"page"`

	// Carousels lists the section ids that host a carousel.
	Carousels      []string            `yaml:"carousels" koanf:"carousels"`
	InitialSection string              `yaml:"initial_section" koanf:"initial_section"`
	Palettes       map[string][]string `yaml:"palettes" koanf:"palettes"`
	Monochrome     []string            `yaml:"monochrome" koanf:"monochrome"`
	Galleries      []GalleryConfig     `yaml:"galleries" koanf:"galleries"`

	NavBreakpoint     float64   `yaml:"nav_breakpoint" koanf:"nav_breakpoint"`
	SectionThresholds []float64 `yaml:"section_thresholds" koanf:"section_thresholds"`
	PaletteThreshold  float64   `yaml:"palette_threshold" koanf:"palette_threshold"`

	Reveal   RevealConfig   `yaml:"reveal" koanf:"reveal"`
	Carousel CarouselConfig `yaml:"carousel" koanf:"carousel"`
	Trail    TrailConfig    `yaml:"trail" koanf:"trail"`
	Typing   TypingConfig   `yaml:"typing" koanf:"typing"`

	// Translations maps a language to its nested dictionary.
	Translations map[string]map[string]any `yaml:"translations" koanf:"translations"`
}

// WindowConfig sizes the native window.
type WindowConfig struct {
	Width  int    `yaml:"width" koanf:"width"`
	Height int    `yaml:"height" koanf:"height"`
	Title  string `yaml:"title" koanf:"title"`
	FPS    bool   `yaml:"fps" koanf:"fps"`
}

// PageConfig holds the page content that is not translated.
type PageConfig struct {
	AvatarLight string `yaml:"avatar_light" koanf:"avatar_light"`
	AvatarDark  string `yaml:"avatar_dark" koanf:"avatar_dark"`
	// Skills maps a skills.* heading key to its entries.
	Skills      map[string][]string `yaml:"skills" koanf:"skills"`
	HobbyImages []string            `yaml:"hobby_images" koanf:"hobby_images"`
	// Links maps a contact.* key to its target.
	Links map[string]string `yaml:"links" koanf:"links"`
}

// GalleryConfig is one project's image list.
type GalleryConfig struct {
	ID     string        `yaml:"id" koanf:"id"`
	Images []ImageConfig `yaml:"images" koanf:"images"`
}

// ImageConfig is one gallery image. Full falls back to Preview.
type ImageConfig struct {
	Preview string `yaml:"preview" koanf:"preview"`
	Full    string `yaml:"full,omitempty" koanf:"full"`
}

// RevealConfig tunes the panel reveal curve.
type RevealConfig struct {
	MaxDistanceFactor float64 `yaml:"max_distance_factor" koanf:"max_distance_factor"`
	Exponent          float64 `yaml:"exponent" koanf:"exponent"`
	ActiveThreshold   float64 `yaml:"active_threshold" koanf:"active_threshold"`
}

// CarouselConfig tunes the carousel smooth scroll.
type CarouselConfig struct {
	ScrollMS int    `yaml:"scroll_ms" koanf:"scroll_ms"`
	Ease     string `yaml:"ease" koanf:"ease"`
}

// RangeConfig is an inclusive numeric range.
type RangeConfig struct {
	Min float64 `yaml:"min" koanf:"min"`
	Max float64 `yaml:"max" koanf:"max"`
}

// TrailConfig tunes the pointer trail. Durations are in milliseconds.
type TrailConfig struct {
	Capacity        int         `yaml:"capacity" koanf:"capacity"`
	ReducedCapacity int         `yaml:"reduced_capacity" koanf:"reduced_capacity"`
	AccumulatorCap  float64     `yaml:"accumulator_cap" koanf:"accumulator_cap"`
	IdleWindowMS    int         `yaml:"idle_window_ms" koanf:"idle_window_ms"`
	LightDelayMS    RangeConfig `yaml:"light_delay_ms" koanf:"light_delay_ms"`
	DarkDelayMS     RangeConfig `yaml:"dark_delay_ms" koanf:"dark_delay_ms"`
	ReducedDelayMS  RangeConfig `yaml:"reduced_delay_ms" koanf:"reduced_delay_ms"`
	LightCount      int         `yaml:"light_count" koanf:"light_count"`
	DarkCount       int         `yaml:"dark_count" koanf:"dark_count"`
	LifetimeMS      int         `yaml:"lifetime_ms" koanf:"lifetime_ms"`
	FollowerWeight  float64     `yaml:"follower_weight" koanf:"follower_weight"`
}

// TypingConfig holds the typewriter durations in milliseconds.
type TypingConfig struct {
	TypeMS   int `yaml:"type_ms" koanf:"type_ms"`
	DeleteMS int `yaml:"delete_ms" koanf:"delete_ms"`
	HoldMS   int `yaml:"hold_ms" koanf:"hold_ms"`
	GapMS    int `yaml:"gap_ms" koanf:"gap_ms"`
}
