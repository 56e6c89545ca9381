package folio

// Content is everything the page consumes as opaque configuration: the
// translation dictionary, the palette and image tables, and the tunables of
// every component. The config package builds it from YAML.
type Content struct {
	// DefaultLanguage is applied at mount.
	DefaultLanguage Language
	// Languages is the language toggle's cycle order.
	Languages  []Language
	Dictionary Dictionary

	// Palettes maps section id to its ambient gradient.
	Palettes map[string]Palette
	// Monochrome replaces every palette in the dark theme.
	Monochrome Palette
	// InitialSection names the palette shown before any section reports.
	InitialSection string

	// Galleries are index-aligned with the page's .project-gallery elements.
	Galleries []Gallery
	// Carousels lists the section ids that host a carousel.
	Carousels []string

	// NavBreakpoint is the viewport width above which the menu auto-closes.
	NavBreakpoint     float64
	SectionThresholds []float64
	PaletteThreshold  float64

	Reveal   RevealConfig
	Carousel CarouselConfig
	Trail    TrailConfig
	Typing   TypingDurations
}

// DefaultContent returns empty tables with the standard tunables.
func DefaultContent() Content {
	return Content{
		DefaultLanguage:   "en",
		Languages:         []Language{"en"},
		Dictionary:        Dictionary{},
		Palettes:          map[string]Palette{},
		Monochrome:        Palette{{R: 1, G: 1, B: 1, A: 1}, {A: 1}},
		InitialSection:    "home",
		Carousels:         []string{"projects", "hobbies"},
		NavBreakpoint:     768,
		SectionThresholds: []float64{0.3, 0.6, 0.9},
		PaletteThreshold:  0.6,
		Reveal:            DefaultRevealConfig(),
		Carousel:          DefaultCarouselConfig(),
		Trail:             DefaultTrailConfig(),
		Typing:            DefaultTypingDurations(),
	}
}
