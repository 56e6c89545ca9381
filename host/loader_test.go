package host

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phanxgames/folio"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// drainUntil waits for the loader's goroutines and delivers their results.
func drainUntil(l *Loader) {
	l.Wait()
	l.Drain()
}

func TestLoaderProbe(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "a.png", 40, 30)
	l := NewLoader(dir, 2)
	defer l.Close()

	var gotW, gotH, calls int
	l.Probe("a.png", func(w, h int, err error) {
		if err != nil {
			t.Errorf("Probe error: %v", err)
		}
		gotW, gotH = w, h
		calls++
	})
	if calls != 0 {
		t.Fatal("callback ran before Drain")
	}
	drainUntil(l)
	if calls != 1 || gotW != 40 || gotH != 30 {
		t.Errorf("Probe = %dx%d (calls %d), want 40x30 once", gotW, gotH, calls)
	}

	// Cached: delivered synchronously.
	l.Probe("a.png", func(w, h int, err error) { calls++ })
	if calls != 2 {
		t.Error("cached probe should run synchronously")
	}
	if _, ok := l.Image("a.png"); !ok {
		t.Error("Image should return the cached decode")
	}
}

func TestLoaderCoalescesRequests(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "b.png", 8, 8)
	l := NewLoader(dir, 1)
	defer l.Close()

	calls := 0
	for range 3 {
		l.Request("b.png", func(image.Image, error) { calls++ })
	}
	if l.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", l.Pending())
	}
	drainUntil(l)
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if l.Pending() != 0 {
		t.Errorf("Pending after drain = %d, want 0", l.Pending())
	}
}

func TestLoaderMissingFile(t *testing.T) {
	l := NewLoader(t.TempDir(), 1)
	defer l.Close()

	var gotErr error
	l.Probe("missing.png", func(_, _ int, err error) { gotErr = err })
	drainUntil(l)
	if gotErr == nil {
		t.Error("expected an error for a missing file")
	}
	if _, ok := l.Image("missing.png"); ok {
		t.Error("Image should not return a failed decode")
	}
}

func TestLoaderRetriesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(dir, 1)
	defer l.Close()
	frames := folio.NewFrameCache(l)

	frames.Ensure(0, "g.png")
	drainUntil(l)
	if _, ok := frames.Size(0); ok {
		t.Fatal("missing image should not cache a frame size")
	}

	writeTestPNG(t, dir, "g.png", 64, 48)
	frames.Ensure(0, "g.png")
	drainUntil(l)
	size, ok := frames.Size(0)
	if !ok || size.Width != 64 || size.Height != 48 {
		t.Errorf("size after retry = %+v (ok %v), want 64x48", size, ok)
	}
}

func TestSrcTrackerFiresLoadAndError(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "ok.png", 20, 10)
	doc := folio.NewDocument(folio.NewManualClock(time.Unix(0, 0)))
	good := doc.CreateElement("img", "")
	bad := doc.CreateElement("img", "")
	doc.Body().AppendChild(good)
	doc.Body().AppendChild(bad)
	good.SetAttr("src", "ok.png")
	bad.SetAttr("src", "nope.png")

	var loadW, loadH float64
	var failed bool
	good.On(folio.EventLoad, func(e *folio.Event) { loadW, loadH = e.Width, e.Height })
	bad.On(folio.EventError, func(*folio.Event) { failed = true })

	l := NewLoader(dir, 2)
	defer l.Close()
	tr := newSrcTracker(doc, l)
	tr.Sync([]*folio.Element{good, bad})
	drainUntil(l)

	if loadW != 20 || loadH != 10 {
		t.Errorf("load = %vx%v, want 20x10", loadW, loadH)
	}
	if !failed {
		t.Error("missing image should fire error")
	}

	// An unchanged src is not requested again.
	loadW = 0
	tr.Sync([]*folio.Element{good})
	if loadW != 0 {
		t.Error("unchanged src fired load again")
	}
}

func TestSrcTrackerDropsStaleResults(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, dir, "one.png", 4, 4)
	writeTestPNG(t, dir, "two.png", 6, 6)
	doc := folio.NewDocument(folio.NewManualClock(time.Unix(0, 0)))
	img := doc.CreateElement("img", "")
	doc.Body().AppendChild(img)

	var widths []float64
	img.On(folio.EventLoad, func(e *folio.Event) { widths = append(widths, e.Width) })

	l := NewLoader(dir, 2)
	defer l.Close()
	tr := newSrcTracker(doc, l)
	img.SetAttr("src", "one.png")
	tr.Sync([]*folio.Element{img})
	img.SetAttr("src", "two.png")
	tr.Sync([]*folio.Element{img})
	drainUntil(l)

	if len(widths) != 1 || widths[0] != 6 {
		t.Errorf("load widths = %v, want [6]", widths)
	}
}
