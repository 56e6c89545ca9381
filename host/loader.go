package host

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	_ "golang.org/x/image/webp"

	"github.com/phanxgames/folio"
)

// loadResult is a finished decode waiting to be delivered on the update
// thread.
type loadResult struct {
	ref string
	img image.Image
	err error
}

type loadEntry struct {
	img image.Image
	err error
}

// Loader decodes page images on background goroutines and delivers the
// results on the update thread through Drain. It implements
// folio.ImageLoader so gallery frame probing shares the same cache.
type Loader struct {
	base string

	ctx    context.Context
	cancel context.CancelFunc
	sem    chan struct{}
	wg     sync.WaitGroup

	results chan loadResult
	cache   map[string]loadEntry
	waiting map[string][]func(image.Image, error)
}

// NewLoader creates a loader resolving references against base with at most
// concurrency decodes in flight.
func NewLoader(base string, concurrency int) *Loader {
	if concurrency < 1 {
		concurrency = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		base:    base,
		ctx:     ctx,
		cancel:  cancel,
		sem:     make(chan struct{}, concurrency),
		results: make(chan loadResult, 64),
		cache:   make(map[string]loadEntry),
		waiting: make(map[string][]func(image.Image, error)),
	}
}

// Request calls cb with the decoded image for ref. A cached result is
// delivered immediately; otherwise cb runs from a later Drain. Failed
// decodes are not cached, so a later Request tries again.
func (l *Loader) Request(ref string, cb func(image.Image, error)) {
	if e, ok := l.cache[ref]; ok {
		cb(e.img, e.err)
		return
	}
	if _, inFlight := l.waiting[ref]; inFlight {
		l.waiting[ref] = append(l.waiting[ref], cb)
		return
	}
	l.waiting[ref] = []func(image.Image, error){cb}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		select {
		case <-l.ctx.Done():
			return
		case l.sem <- struct{}{}:
		}
		defer func() { <-l.sem }()

		img, err := l.decode(ref)
		select {
		case <-l.ctx.Done():
		case l.results <- loadResult{ref: ref, img: img, err: err}:
		}
	}()
}

// Probe implements folio.ImageLoader.
func (l *Loader) Probe(ref string, done func(width, height int, err error)) {
	l.Request(ref, func(img image.Image, err error) {
		if err != nil {
			done(0, 0, err)
			return
		}
		b := img.Bounds()
		done(b.Dx(), b.Dy(), nil)
	})
}

// Drain delivers every finished decode to its waiting callbacks. It never
// blocks.
func (l *Loader) Drain() int {
	n := 0
	for {
		select {
		case r := <-l.results:
			if r.err == nil {
				l.cache[r.ref] = loadEntry{img: r.img}
			}
			cbs := l.waiting[r.ref]
			delete(l.waiting, r.ref)
			for _, cb := range cbs {
				cb(r.img, r.err)
			}
			n++
		default:
			return n
		}
	}
}

// Wait blocks until every started decode has finished or been cancelled.
// Results still need a Drain to be delivered.
func (l *Loader) Wait() {
	l.wg.Wait()
}

// Image returns the cached decode of ref, if any.
func (l *Loader) Image(ref string) (image.Image, bool) {
	e, ok := l.cache[ref]
	if !ok || e.err != nil {
		return nil, false
	}
	return e.img, true
}

// Pending returns the number of references still decoding.
func (l *Loader) Pending() int {
	return len(l.waiting)
}

// Close cancels outstanding decodes and waits for their goroutines.
func (l *Loader) Close() {
	l.cancel()
	l.wg.Wait()
}

func (l *Loader) decode(ref string) (image.Image, error) {
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.base, filepath.FromSlash(ref))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", ref, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", ref, err)
	}
	return img, nil
}

var _ folio.ImageLoader = (*Loader)(nil)

// srcTracker watches image elements and reports load and error events when
// their src attribute changes, the way a browser does for <img>.
type srcTracker struct {
	doc    *folio.Document
	loader *Loader
	seen   map[*folio.Element]string
}

func newSrcTracker(doc *folio.Document, loader *Loader) *srcTracker {
	return &srcTracker{doc: doc, loader: loader, seen: make(map[*folio.Element]string)}
}

// Sync requests every image whose src changed since the last call.
func (t *srcTracker) Sync(images []*folio.Element) {
	for _, el := range images {
		src, _ := el.Attr("src")
		if src == "" || t.seen[el] == src {
			continue
		}
		t.seen[el] = src
		t.loader.Request(src, func(img image.Image, err error) {
			// A newer src supersedes this result.
			if cur, _ := el.Attr("src"); cur != src {
				return
			}
			if err != nil {
				t.doc.FireError(el)
				return
			}
			b := img.Bounds()
			t.doc.FireLoad(el, float64(b.Dx()), float64(b.Dy()))
		})
	}
}
