// Package host runs a folio page in an Ebitengine window: it builds and lays
// out the element tree, feeds input and image loads into the document, and
// paints the document's observable state every frame.
package host

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/folio"
)

// RunConfig holds the window and run options for Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool

	Language      folio.Language
	Theme         folio.Theme
	ReducedMotion bool
	Debug         bool

	// Assets is the directory image references resolve against.
	Assets string
	// Script is an optional JSON test script. The run ends when it finishes.
	Script []byte
	// ScreenshotDir receives screenshots taken by the script.
	ScreenshotDir string
}

// loaderConcurrency bounds parallel image decodes.
const loaderConcurrency = 4

// session is everything that runs without a window: the document, the
// mounted site and the adapters that feed them. The game wraps it with
// ebiten input, drawing and window management.
type session struct {
	doc    *folio.Document
	page   *Page
	site   *folio.Site
	loader *Loader
	input  *inputState
	srcs   *srcTracker
	anims  *particleAnimator
	runner *folio.TestRunner

	width, height float64
	shots         []string
}

func newSession(pc PageContent, cfg RunConfig, clock folio.TimeSource) (*session, error) {
	doc := folio.NewDocument(clock)
	doc.SetReducedMotion(cfg.ReducedMotion)
	doc.SetDebugMode(cfg.Debug)

	s := &session{
		doc:    doc,
		width:  float64(cfg.Width),
		height: float64(cfg.Height),
		loader: NewLoader(cfg.Assets, loaderConcurrency),
	}
	s.page = BuildPage(doc, pc)
	s.page.Layout(s.width, s.height)
	doc.SetViewport(s.width, s.height)

	s.site = folio.Mount(doc, pc.Content, folio.MountOptions{
		Language: cfg.Language,
		Theme:    cfg.Theme,
		Loader:   s.loader,
	})
	s.input = newInputState(doc)
	s.input.onDragEnd = s.snapCarousel
	s.srcs = newSrcTracker(doc, s.loader)
	s.anims = newParticleAnimator(doc, s.page.Trail())

	if len(cfg.Script) > 0 {
		runner, err := folio.LoadTestScript(cfg.Script)
		if err != nil {
			s.loader.Close()
			return nil, err
		}
		s.site.AttachTestRunner(runner)
		s.runner = runner
	}
	return s, nil
}

// resize records a new window size; it takes effect on the next step.
func (s *session) resize(w, h float64) {
	s.width, s.height = w, h
}

// step runs one frame.
func (s *session) step(f inputFrame) {
	s.page.Layout(s.width, s.height)
	s.doc.SetViewport(s.width, s.height)
	s.input.apply(f)
	s.loader.Drain()
	s.srcs.Sync(s.page.Images())
	s.doc.Update()
	s.anims.Update()

	// A scripted resize drives the layout size from then on.
	if v := s.doc.ViewportSize(); v.X != s.width || v.Y != s.height {
		s.width, s.height = v.X, v.Y
	}
	s.shots = append(s.shots, s.doc.DrainScreenshots()...)
}

// finished reports whether a scripted run is complete and its screenshots
// have been written.
func (s *session) finished() bool {
	return s.runner != nil && s.runner.Done() && len(s.shots) == 0
}

// snapCarousel settles a dragged carousel view on its nearest item.
func (s *session) snapCarousel(view *folio.Element) {
	for el := view; el != nil; el = el.Parent {
		if c, ok := s.site.Carousels[el.ID]; ok {
			c.JumpTo(c.Index())
			return
		}
	}
}

func (s *session) close() {
	s.loader.Close()
}

// game adapts a session to ebiten.Game.
type game struct {
	s        *session
	cfg      RunConfig
	renderer *renderer
	fps      *fpsWidget
	title    string
	outW     int
	outH     int
}

func (g *game) Update() error {
	g.s.step(readInput())

	if t := g.s.doc.Title(); t != "" && t != g.title {
		g.title = t
		ebiten.SetWindowTitle(t)
	}
	if w, h := int(g.s.width), int(g.s.height); w != g.outW || h != g.outH {
		ebiten.SetWindowSize(w, h)
	}
	if g.fps != nil {
		g.fps.Update(1 / float64(ebiten.TPS()))
	}
	if g.s.finished() {
		if err := g.s.runner.Err(); err != nil {
			return err
		}
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
	if g.cfg.ShowFPS {
		if g.fps == nil {
			g.fps = newFPSWidget()
		}
		g.fps.Draw(screen)
	}
	if len(g.s.shots) > 0 {
		for _, path := range writeScreenshots(g.cfg.ScreenshotDir, g.s.shots, captureFrame(screen)) {
			if g.cfg.Debug {
				_, _ = fmt.Fprintf(os.Stderr, "[folio] screenshot: wrote %s\n", path)
			}
		}
		g.s.shots = g.s.shots[:0]
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outW || outsideHeight != g.outH {
		g.outW, g.outH = outsideWidth, outsideHeight
		g.s.resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and runs the page until the window closes or the test
// script finishes.
func Run(pc PageContent, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", cfg.Width, cfg.Height)
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	fonts, err := loadFonts()
	if err != nil {
		return err
	}
	s, err := newSession(pc, cfg, folio.SystemClock{})
	if err != nil {
		return err
	}
	defer s.close()

	g := &game{s: s, cfg: cfg, outW: cfg.Width, outH: cfg.Height}
	g.renderer = newRenderer(s.doc, s.page, fonts, s.loader, s.anims)

	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	g.title = cfg.Title

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
