package host

import (
	"math"
	"testing"
	"time"

	"github.com/phanxgames/folio"
	"github.com/phanxgames/folio/config"
)

var epoch = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func testPageContent(t *testing.T) PageContent {
	t.Helper()
	cfg := config.DefaultConfig()
	content, err := cfg.Content()
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	return PageContent{
		Content:     content,
		AvatarLight: cfg.Page.AvatarLight,
		AvatarDark:  cfg.Page.AvatarDark,
		Skills:      cfg.Page.Skills,
		HobbyImages: cfg.Page.HobbyImages,
		Links:       cfg.Page.Links,
	}
}

// newTestSession mounts the default page at w by h on a manual clock.
// Assets resolve against an empty temp dir, so every image load fails.
func newTestSession(t *testing.T, w, h int) (*session, *folio.ManualClock) {
	t.Helper()
	clock := folio.NewManualClock(epoch)
	s, err := newSession(testPageContent(t), RunConfig{
		Width:  w,
		Height: h,
		Assets: t.TempDir(),
	}, clock)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	t.Cleanup(s.close)
	return s, clock
}

// tick advances the clock one 60 Hz frame and steps with f.
func tick(s *session, clock *folio.ManualClock, f inputFrame) {
	clock.Advance(16 * time.Millisecond)
	s.step(f)
}

// clickAt presses and releases at (x, y) over two frames.
func clickAt(s *session, clock *folio.ManualClock, x, y float64) {
	tick(s, clock, inputFrame{X: x, Y: y, Pressed: true})
	tick(s, clock, inputFrame{X: x, Y: y})
}

func center(s *session, el *folio.Element) (float64, float64) {
	c := s.doc.BoundingRect(el).Center()
	return c.X, c.Y
}

func TestSessionMountsEveryComponent(t *testing.T) {
	s, _ := newTestSession(t, 1280, 800)

	if s.site.Reveal == nil || s.site.Sections == nil || s.site.Nav == nil {
		t.Error("reveal, sections and nav should mount")
	}
	if s.site.Typing == nil || s.site.Trail == nil || s.site.Lightbox == nil {
		t.Error("typing, trail and lightbox should mount")
	}
	for _, id := range []string{"projects", "hobbies"} {
		if s.site.Carousels[id] == nil {
			t.Errorf("carousel %q not mounted", id)
		}
	}
	want := itemCount(s.site.Content.Dictionary, "en", "projects.items")
	if want == 0 || len(s.site.Galleries) != want {
		t.Errorf("galleries = %d, want %d", len(s.site.Galleries), want)
	}
	if got := s.site.Carousels["projects"].Len(); got != want {
		t.Errorf("projects carousel items = %d, want %d", got, want)
	}
}

func TestSessionTranslatesPage(t *testing.T) {
	s, clock := newTestSession(t, 1280, 800)
	tick(s, clock, inputFrame{})

	if got := s.page.links[0].Text(); got != "Home" {
		t.Errorf("nav home = %q, want %q", got, "Home")
	}
	if got := s.page.titles["projects"].Text(); got == "" {
		t.Error("projects title should be translated")
	}

	x, y := center(s, s.page.lang)
	clickAt(s, clock, x, y)
	if got := s.page.links[0].Text(); got != "Inicio" {
		t.Errorf("nav home after switch = %q, want %q", got, "Inicio")
	}
}

func TestSessionClickTogglesTheme(t *testing.T) {
	s, clock := newTestSession(t, 1280, 800)
	if s.doc.Body().HasClass("dark") {
		t.Fatal("should start light")
	}
	x, y := center(s, s.page.theme)
	clickAt(s, clock, x, y)
	if !s.doc.Body().HasClass("dark") {
		t.Error("body should have dark class after clicking the theme toggle")
	}
	if src, _ := s.page.avatar.Attr("src"); src != "imgs/avatar_dark.png" {
		t.Errorf("avatar src = %q, want the dark variant", src)
	}
}

func TestSessionCarouselArrow(t *testing.T) {
	s, clock := newTestSession(t, 1280, 800)
	s.doc.ScrollTo(s.page.sections[1].Box.Y)
	tick(s, clock, inputFrame{})

	x, y := center(s, s.page.projects.right)
	clickAt(s, clock, x, y)
	for range 40 {
		tick(s, clock, inputFrame{X: x, Y: y})
	}
	if got := s.site.Carousels["projects"].Index(); got != 1 {
		t.Errorf("index = %d, want 1", got)
	}
	if !s.doc.ByID("projects-dots").Children()[1].HasClass("active") {
		t.Error("second dot should be active")
	}
}

func TestSessionDragSnapsCarousel(t *testing.T) {
	s, clock := newTestSession(t, 1280, 800)
	s.doc.ScrollTo(s.page.sections[1].Box.Y)
	tick(s, clock, inputFrame{})

	view := s.page.projects.view
	x, y := center(s, view)
	drag := view.ClientWidth() * 0.6

	tick(s, clock, inputFrame{X: x, Y: y, Pressed: true})
	tick(s, clock, inputFrame{X: x - drag/2, Y: y, Pressed: true})
	tick(s, clock, inputFrame{X: x - drag, Y: y, Pressed: true})
	if got := view.ScrollLeft(); math.Abs(got-drag) > 1e-6 {
		t.Errorf("scrollLeft during drag = %v, want %v", got, drag)
	}
	tick(s, clock, inputFrame{X: x - drag, Y: y})

	c := s.site.Carousels["projects"]
	for range 60 {
		tick(s, clock, inputFrame{X: x - drag, Y: y})
	}
	if c.Index() != 1 {
		t.Errorf("index after drag = %d, want 1", c.Index())
	}
	if got, want := view.ScrollLeft(), c.TargetScrollLeft(1); got != want {
		t.Errorf("settled scrollLeft = %v, want %v", got, want)
	}
}

func TestSessionGalleryOpensLightbox(t *testing.T) {
	s, clock := newTestSession(t, 1280, 800)
	s.doc.ScrollTo(s.page.sections[1].Box.Y)
	tick(s, clock, inputFrame{})

	x, y := center(s, s.page.project[0].preview)
	clickAt(s, clock, x, y)
	lb := s.site.Lightbox
	if !lb.IsOpen() {
		t.Fatal("lightbox should open from the gallery preview")
	}
	if !s.doc.Body().HasClass("lightbox-open") {
		t.Error("body should have lightbox-open")
	}

	tick(s, clock, inputFrame{X: x, Y: y, Keys: []folio.Key{folio.KeyArrowRight}})
	if lb.Index() != 1 {
		t.Errorf("lightbox index = %d, want 1", lb.Index())
	}
	tick(s, clock, inputFrame{X: x, Y: y, Keys: []folio.Key{folio.KeyEscape}})
	if lb.IsOpen() {
		t.Error("Escape should close the lightbox")
	}
}

func TestSessionNarrowMenu(t *testing.T) {
	s, clock := newTestSession(t, 600, 800)
	tick(s, clock, inputFrame{})

	if s.page.links[0].Box.Area() != 0 {
		t.Error("links should collapse below the breakpoint")
	}
	x, y := center(s, s.page.menu)
	clickAt(s, clock, x, y)
	if !s.site.Nav.IsOpen() {
		t.Fatal("menu toggle should open the nav")
	}
	tick(s, clock, inputFrame{X: x, Y: y})
	if s.page.links[0].Box.Area() == 0 {
		t.Error("links should be laid out while the menu is open")
	}
}

func TestSessionWheelScrollsPage(t *testing.T) {
	s, clock := newTestSession(t, 1280, 800)
	tick(s, clock, inputFrame{X: 10, Y: 400, WheelY: -2})
	if got := s.doc.ScrollY(); got != 2*wheelStep {
		t.Errorf("ScrollY = %v, want %v", got, 2*wheelStep)
	}
	tick(s, clock, inputFrame{X: 10, Y: 400, PageKeys: []pageKey{pageEnd}})
	if got := s.doc.ScrollY(); got != s.doc.MaxScrollY() {
		t.Errorf("ScrollY after End = %v, want %v", got, s.doc.MaxScrollY())
	}
	tick(s, clock, inputFrame{X: 10, Y: 400, PageKeys: []pageKey{pageHome}})
	if got := s.doc.ScrollY(); got != 0 {
		t.Errorf("ScrollY after Home = %v, want 0", got)
	}
}

func TestSessionScriptedRun(t *testing.T) {
	clock := folio.NewManualClock(epoch)
	script := []byte(`{"steps": [
		{"action": "theme", "value": "dark"},
		{"action": "screenshot", "label": "dark home"},
		{"action": "resize", "width": 700, "height": 600}
	]}`)
	s, err := newSession(testPageContent(t), RunConfig{Width: 1280, Height: 800, Script: script}, clock)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	defer s.close()

	for range 10 {
		tick(s, clock, inputFrame{})
	}
	if !s.doc.Body().HasClass("dark") {
		t.Error("theme action should switch to dark")
	}
	if len(s.shots) != 1 || s.shots[0] != "dark home" {
		t.Errorf("shots = %v, want [dark home]", s.shots)
	}
	if s.width != 700 || s.height != 600 {
		t.Errorf("size = %vx%v, want 700x600", s.width, s.height)
	}
	if s.finished() {
		t.Error("run should not finish before screenshots are written")
	}
	s.shots = s.shots[:0]
	if !s.finished() {
		t.Error("run should finish once the script is done and screenshots are flushed")
	}
}

func TestSessionRejectsBadScript(t *testing.T) {
	_, err := newSession(testPageContent(t), RunConfig{Width: 800, Height: 600, Script: []byte(`{"steps": []}`)}, folio.NewManualClock(epoch))
	if err == nil {
		t.Error("expected an error for an empty script")
	}
}
