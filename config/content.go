package config

import (
	"fmt"
	"time"

	"github.com/phanxgames/folio"
	"github.com/tanema/gween/ease"
)

// easings names the carousel scroll curves.
var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"out-quad":     ease.OutQuad,
	"in-out-quad":  ease.InOutQuad,
	"out-cubic":    ease.OutCubic,
	"in-out-cubic": ease.InOutCubic,
	"in-out-sine":  ease.InOutSine,
	"out-bounce":   ease.OutBounce,
	"out-elastic":  ease.OutElastic,
}

// Content converts the configuration into the page content consumed by
// folio.Mount.
func (c *Config) Content() (folio.Content, error) {
	content := folio.DefaultContent()
	content.DefaultLanguage = folio.Language(c.Language)
	content.Languages = content.Languages[:0]
	for _, lang := range c.Languages {
		content.Languages = append(content.Languages, folio.Language(lang))
	}

	dict := make(folio.Dictionary, len(c.Translations))
	for lang, tree := range c.Translations {
		dict[folio.Language(lang)] = tree
	}
	content.Dictionary = dict

	for id, p := range c.Palettes {
		palette, err := parsePalette(p)
		if err != nil {
			return folio.Content{}, fmt.Errorf("palettes.%s: %w", id, err)
		}
		content.Palettes[id] = palette
	}
	mono, err := parsePalette(c.Monochrome)
	if err != nil {
		return folio.Content{}, fmt.Errorf("monochrome: %w", err)
	}
	content.Monochrome = mono
	if c.InitialSection != "" {
		content.InitialSection = c.InitialSection
	}

	for _, g := range c.Galleries {
		gallery := folio.Gallery{ID: g.ID}
		for _, im := range g.Images {
			gallery.Images = append(gallery.Images, folio.Image{Preview: im.Preview, Full: im.Full})
		}
		content.Galleries = append(content.Galleries, gallery)
	}
	content.Carousels = append([]string(nil), c.Carousels...)

	content.NavBreakpoint = c.NavBreakpoint
	if len(c.SectionThresholds) > 0 {
		content.SectionThresholds = append([]float64(nil), c.SectionThresholds...)
	}
	if c.PaletteThreshold > 0 {
		content.PaletteThreshold = c.PaletteThreshold
	}

	content.Reveal = folio.RevealConfig{
		MaxDistanceFactor: c.Reveal.MaxDistanceFactor,
		Exponent:          c.Reveal.Exponent,
		ActiveThreshold:   c.Reveal.ActiveThreshold,
	}

	fn, ok := easings[c.Carousel.Ease]
	if !ok {
		return folio.Content{}, fmt.Errorf("invalid carousel.ease %q", c.Carousel.Ease)
	}
	content.Carousel = folio.CarouselConfig{
		ScrollDuration: float32(c.Carousel.ScrollMS) / 1000,
		Ease:           fn,
	}

	trail := folio.DefaultTrailConfig()
	trail.Capacity = c.Trail.Capacity
	trail.ReducedCapacity = c.Trail.ReducedCapacity
	trail.AccumulatorCap = c.Trail.AccumulatorCap
	trail.IdleWindow = ms(c.Trail.IdleWindowMS)
	trail.LightDelay = folio.Range(c.Trail.LightDelayMS)
	trail.DarkDelay = folio.Range(c.Trail.DarkDelayMS)
	trail.ReducedDelay = folio.Range(c.Trail.ReducedDelayMS)
	trail.LightCount = c.Trail.LightCount
	trail.DarkCount = c.Trail.DarkCount
	trail.Lifetime = ms(c.Trail.LifetimeMS)
	trail.FollowerWeight = c.Trail.FollowerWeight
	content.Trail = trail

	content.Typing = folio.TypingDurations{
		Type:   ms(c.Typing.TypeMS),
		Delete: ms(c.Typing.DeleteMS),
		Hold:   ms(c.Typing.HoldMS),
		Gap:    ms(c.Typing.GapMS),
	}
	return content, nil
}

// ThemeValue returns the configured initial theme.
func (c *Config) ThemeValue() folio.Theme {
	return folio.ParseTheme(c.Theme)
}

func parsePalette(p []string) (folio.Palette, error) {
	if len(p) != 2 {
		return folio.Palette{}, fmt.Errorf("palette needs 2 colors, got %d", len(p))
	}
	var out folio.Palette
	for i, hex := range p {
		col, err := folio.ParseColor(hex)
		if err != nil {
			return folio.Palette{}, err
		}
		out[i] = col
	}
	return out, nil
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
