package folio

import (
	"strconv"
)

// Image is one gallery entry. References are opaque; they are only ever
// assigned as element sources.
type Image struct {
	Preview string
	Full    string
}

// Source returns the full-size reference, falling back to the preview.
func (im Image) Source() string {
	if im.Full != "" {
		return im.Full
	}
	return im.Preview
}

// PreviewSource returns the preview reference, falling back to the full one.
func (im Image) PreviewSource() string {
	if im.Preview != "" {
		return im.Preview
	}
	return im.Full
}

// Gallery is an ordered list of images. An empty gallery is inert.
type Gallery struct {
	ID     string
	Images []Image
}

// Len returns the number of images.
func (g Gallery) Len() int { return len(g.Images) }

// ImageLoader probes an image's natural size off-screen. done is called
// exactly once on the update thread, possibly before Probe returns.
type ImageLoader interface {
	Probe(ref string, done func(width, height int, err error))
}

// FrameSize is an image's natural size in pixels.
type FrameSize struct {
	Width, Height float64
}

// Valid reports whether both dimensions are finite and positive.
func (f FrameSize) Valid() bool {
	return finite(f.Width) && finite(f.Height) && f.Width > 0 && f.Height > 0
}

// Aspect formats the size as a CSS aspect ratio, "w / h".
func (f FrameSize) Aspect() string {
	return formatNumber(f.Width) + " / " + formatNumber(f.Height)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FrameCache lazily determines each gallery's frame size from its first
// image and caches it. Failed probes are not cached, so the next touch
// retries.
type FrameCache struct {
	loader  ImageLoader
	sizes   map[int]FrameSize
	pending map[int]bool
	// OnSize is called when a gallery's size is first cached.
	OnSize func(gallery int, size FrameSize)
}

// NewFrameCache creates a cache probing through loader. A nil loader never
// probes; sizes then only arrive through Set.
func NewFrameCache(loader ImageLoader) *FrameCache {
	return &FrameCache{
		loader:  loader,
		sizes:   make(map[int]FrameSize),
		pending: make(map[int]bool),
	}
}

// Ensure starts a probe of ref for gallery unless its size is cached or a
// probe is already in flight.
func (c *FrameCache) Ensure(gallery int, ref string) {
	if _, ok := c.sizes[gallery]; ok || c.pending[gallery] || c.loader == nil || ref == "" {
		return
	}
	c.pending[gallery] = true
	c.loader.Probe(ref, func(w, h int, err error) {
		delete(c.pending, gallery)
		if err != nil {
			return
		}
		c.Set(gallery, FrameSize{Width: float64(w), Height: float64(h)})
	})
}

// Set caches size for gallery if it is valid and nothing is cached yet.
// Returns true if the size was stored.
func (c *FrameCache) Set(gallery int, size FrameSize) bool {
	if !size.Valid() {
		return false
	}
	if _, ok := c.sizes[gallery]; ok {
		return false
	}
	c.sizes[gallery] = size
	if c.OnSize != nil {
		c.OnSize(gallery, size)
	}
	return true
}

// Size returns the cached size for gallery.
func (c *FrameCache) Size(gallery int) (FrameSize, bool) {
	s, ok := c.sizes[gallery]
	return s, ok
}

// Pending reports whether a probe for gallery is in flight.
func (c *FrameCache) Pending(gallery int) bool {
	return c.pending[gallery]
}

// GalleryView is the inline preview of one project gallery: a preview
// button showing the current image, prev/next buttons, and the current
// index kept in the gallery element's dataset.
type GalleryView struct {
	index    int
	gallery  Gallery
	frames   *FrameCache
	lightbox *Lightbox

	el      *Element
	preview *Element
	image   *Element
	prev    *Element
	next    *Element
}

// NewGalleryView mounts on the .project-gallery element el showing gallery
// g. The lightbox may be nil.
func NewGalleryView(el *Element, index int, g Gallery, frames *FrameCache, lb *Lightbox) *GalleryView {
	v := &GalleryView{
		index:    index,
		gallery:  g,
		frames:   frames,
		lightbox: lb,
		el:       el,
		preview:  el.Query("gallery-preview"),
		prev:     el.Query("gallery-btn", "prev"),
		next:     el.Query("gallery-btn", "next"),
	}
	if v.preview != nil {
		v.image = v.preview.Query("project-image")
	}
	if v.image == nil {
		v.image = el.Query("project-image")
	}

	v.SetImage(v.Current(), false)

	if v.prev != nil {
		v.prev.On(EventClick, func(e *Event) {
			e.PreventDefault()
			e.StopPropagation()
			v.SetImage(v.Current()-1, false)
		})
	}
	if v.next != nil {
		v.next.On(EventClick, func(e *Event) {
			e.PreventDefault()
			e.StopPropagation()
			v.SetImage(v.Current()+1, false)
		})
	}
	if v.preview != nil {
		v.preview.On(EventClick, func(*Event) {
			if v.lightbox != nil {
				v.lightbox.Open(v.index, v.Current())
			}
		})
	}
	if v.image != nil {
		v.image.On(EventLoad, func(e *Event) {
			if v.frames != nil {
				v.frames.Set(v.index, FrameSize{Width: e.Width, Height: e.Height})
			}
		})
	}
	return v
}

// Current returns the index stored in the gallery's dataset, 0 if unset.
func (v *GalleryView) Current() int {
	s, _ := v.el.Data("currentIndex")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// SetImage shows image target (normalized) in the preview and records it
// as the current index. With syncLightbox, an open lightbox on this gallery
// follows.
func (v *GalleryView) SetImage(target int, syncLightbox bool) {
	n := v.gallery.Len()
	if v.frames != nil && n > 0 {
		v.frames.Ensure(v.index, v.gallery.Images[0].PreviewSource())
		if size, ok := v.frames.Size(v.index); ok {
			v.applyFrame(size)
		}
	}
	if n == 0 {
		v.updateButtons(0)
		return
	}
	i := Normalize(target, n)
	im := v.gallery.Images[i]
	if v.image != nil && im.Preview != "" {
		v.image.SetAttr("src", im.Preview)
		v.image.SetData("fullSrc", im.Source())
		v.image.SetData("imageIndex", strconv.Itoa(i))
	}
	v.el.SetData("currentIndex", strconv.Itoa(i))
	v.updateButtons(n)

	if syncLightbox && v.lightbox != nil {
		v.lightbox.follow(v.index, i)
	}
}

func (v *GalleryView) updateButtons(n int) {
	if v.prev != nil {
		v.prev.SetDisabled(n <= 1)
	}
	if v.next != nil {
		v.next.SetDisabled(n <= 1)
	}
}

// applyFrame fixes the preview's frame box to size.
func (v *GalleryView) applyFrame(size FrameSize) {
	if v.preview == nil || !size.Valid() {
		return
	}
	v.preview.SetNumber("--frame-width", size.Width, -1, "px")
	v.preview.SetVar("--frame-aspect", size.Aspect())
}

// Alt returns the preview image's alt text.
func (v *GalleryView) Alt() string {
	if v.image == nil {
		return ""
	}
	alt, _ := v.image.Attr("alt")
	return alt
}
