package folio

import "math/rand/v2"

// MountOptions are the per-run choices that are not page content.
type MountOptions struct {
	// Language overrides Content.DefaultLanguage when set.
	Language Language
	// Theme is the initial theme.
	Theme Theme
	// Loader probes gallery frame sizes. Nil disables probing.
	Loader ImageLoader
	// Rand drives trail randomness. Nil uses the package-level source.
	Rand *rand.Rand
}

// Site is a mounted page: every component bound to one Document. A
// component whose elements are missing is nil; the rest run regardless.
type Site struct {
	Doc     *Document
	State   *AppState
	Content Content

	Reveal    *RevealEngine
	Sections  *SectionTracker
	Palette   *PaletteTracker
	Carousels map[string]*Carousel
	Frames    *FrameCache
	Lightbox  *Lightbox
	Galleries []*GalleryView
	Trail     *TrailEmitter
	Typing    *TypingAnimator
	Language  *LanguageSwitch
	Nav       *NavMenu
	Theme     *ThemeController
}

// Mount binds every component to doc. The host should set the viewport and
// lay out the page first so initial geometry is meaningful.
func Mount(doc *Document, content Content, opts MountOptions) *Site {
	lang := opts.Language
	if lang == "" || !content.Dictionary.Has(lang) {
		lang = content.DefaultLanguage
	}
	s := &Site{
		Doc:       doc,
		Content:   content,
		Carousels: make(map[string]*Carousel),
		State: &AppState{
			Language:      lang,
			Theme:         opts.Theme,
			ReducedMotion: doc.ReducedMotion(),
		},
	}

	if r, ok := NewRevealEngine(doc, s.State, content.Reveal); ok {
		s.Reveal = r
	}
	s.Typing, _ = NewTypingAnimator(doc, content.Dictionary, lang, content.Typing)
	if m, ok := NewNavMenu(doc, s.State, content.Dictionary, content.NavBreakpoint); ok {
		s.Nav = m
	}
	for _, id := range content.Carousels {
		if c, ok := NewCarousel(doc, id, s.State, content.Carousel); ok {
			s.Carousels[id] = c
		}
	}

	s.Frames = NewFrameCache(opts.Loader)
	if lb, ok := NewLightbox(doc, content.Galleries, s.Frames); ok {
		s.Lightbox = lb
	}
	for i, el := range doc.QueryAll("project-gallery") {
		var g Gallery
		if i < len(content.Galleries) {
			g = content.Galleries[i]
		}
		v := NewGalleryView(el, i, g, s.Frames, s.Lightbox)
		s.Galleries = append(s.Galleries, v)
		if s.Lightbox != nil {
			s.Lightbox.AttachView(i, v)
		}
	}
	s.Frames.OnSize = func(gallery int, size FrameSize) {
		if gallery < len(s.Galleries) {
			s.Galleries[gallery].applyFrame(size)
		}
		if s.Lightbox != nil {
			s.Lightbox.onFrameSize(gallery, size)
		}
	}

	if btn := doc.ByID("view-projects"); btn != nil {
		btn.On(EventClick, func(*Event) {
			doc.ScrollIntoView(doc.ByID("projects"), true)
		})
	}

	s.Palette = NewPaletteTracker(doc, s.State, content.Palettes, content.Monochrome, content.InitialSection, content.PaletteThreshold)
	if t, ok := NewTrailEmitter(doc, s.State, content.Trail, opts.Rand); ok {
		s.Trail = t
	}
	s.Theme = NewThemeController(doc, s.State, content.Dictionary, s.Palette, s.Trail)
	if t, ok := NewSectionTracker(doc, content.SectionThresholds); ok {
		s.Sections = t
	}

	s.Language = NewLanguageSwitch(doc, s.State, content.Dictionary, content.Languages)
	s.Language.Coordinate(s.Typing, s.Lightbox, s.Nav, s.Theme)
	s.Language.Apply(lang)

	doc.debugf("mounted: reveal=%t carousels=%d galleries=%d lightbox=%t trail=%t typing=%t",
		s.Reveal != nil, len(s.Carousels), len(s.Galleries), s.Lightbox != nil, s.Trail != nil, s.Typing != nil)
	return s
}

// AttachTestRunner installs r on the document with the site's custom
// actions: "language" switches to the step's value and "theme" sets
// "light" or "dark".
func (s *Site) AttachTestRunner(r *TestRunner) {
	r.Handle("language", func(v string) { s.Language.Apply(Language(v)) })
	r.Handle("theme", func(v string) { s.Theme.Set(ParseTheme(v)) })
	s.Doc.SetTestRunner(r)
}
