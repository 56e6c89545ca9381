package folio

import "time"

// LightboxState is the modal state. There are exactly two.
type LightboxState uint8

const (
	LightboxClosed LightboxState = iota
	LightboxOpen
)

// String returns "closed" or "open".
func (s LightboxState) String() string {
	if s == LightboxOpen {
		return "open"
	}
	return "closed"
}

// Lightbox is the modal image viewer. It keeps its own image index per open
// gallery, seeded from the gallery's current index on Open; stepping writes
// the new index back into the gallery view.
type Lightbox struct {
	doc       *Document
	el        *Element
	image     *Element
	closeBtn  *Element
	prev      *Element
	next      *Element
	backdrop  *Element
	galleries []Gallery
	views     map[int]*GalleryView
	frames    *FrameCache

	state       LightboxState
	gallery     int
	index       int
	lastFocused *Element
	keydown     CallbackHandle
	focusTask   TaskHandle
}

// NewLightbox mounts on #project-lightbox and its .lightbox-image. Close,
// arrow and backdrop controls are optional. Returns false when the dialog
// or its image is missing.
func NewLightbox(doc *Document, galleries []Gallery, frames *FrameCache) (*Lightbox, bool) {
	el := doc.ByID("project-lightbox")
	if el == nil {
		return nil, false
	}
	l := &Lightbox{
		doc:       doc,
		el:        el,
		image:     el.Query("lightbox-image"),
		closeBtn:  el.Query("lightbox-close"),
		prev:      el.Query("lightbox-arrow", "left"),
		next:      el.Query("lightbox-arrow", "right"),
		backdrop:  el.Query("lightbox-backdrop"),
		galleries: galleries,
		views:     make(map[int]*GalleryView),
		frames:    frames,
		gallery:   -1,
	}
	if l.image == nil {
		doc.debugf("lightbox: missing .lightbox-image")
		return nil, false
	}
	if l.frames == nil {
		l.frames = NewFrameCache(nil)
	}

	l.image.On(EventLoad, func(e *Event) {
		l.applyFrame(FrameSize{Width: e.Width, Height: e.Height})
	})
	if l.closeBtn != nil {
		l.closeBtn.On(EventClick, func(*Event) { l.Close() })
	}
	if l.prev != nil {
		l.prev.On(EventClick, func(e *Event) {
			e.PreventDefault()
			l.Step(-1)
		})
	}
	if l.next != nil {
		l.next.On(EventClick, func(e *Event) {
			e.PreventDefault()
			l.Step(1)
		})
	}
	if l.backdrop != nil {
		l.backdrop.On(EventClick, func(*Event) { l.Close() })
	}
	el.SetAttr("aria-hidden", "true")
	return l, true
}

// AttachView links the inline view of gallery i so stepping writes back to it.
func (l *Lightbox) AttachView(i int, v *GalleryView) {
	l.views[i] = v
}

// State returns the modal state.
func (l *Lightbox) State() LightboxState { return l.state }

// IsOpen reports whether the modal is open.
func (l *Lightbox) IsOpen() bool { return l.state == LightboxOpen }

// Gallery returns the open gallery index, or false when closed.
func (l *Lightbox) Gallery() (int, bool) {
	if l.state != LightboxOpen {
		return 0, false
	}
	return l.gallery, true
}

// Index returns the active image index. Meaningful only while open.
func (l *Lightbox) Index() int { return l.index }

func (l *Lightbox) images() []Image {
	if l.gallery < 0 || l.gallery >= len(l.galleries) {
		return nil
	}
	return l.galleries[l.gallery].Images
}

// Open shows gallery at image start (normalized). Valid only when closed and
// the gallery is non-empty. The previously focused element is captured for
// restoration and the close control takes focus on the next frame.
func (l *Lightbox) Open(gallery, start int) bool {
	if l.state != LightboxClosed || gallery < 0 || gallery >= len(l.galleries) {
		return false
	}
	imgs := l.galleries[gallery].Images
	if len(imgs) == 0 {
		return false
	}

	l.state = LightboxOpen
	l.gallery = gallery
	l.index = Normalize(start, len(imgs))
	l.lastFocused = nil
	if active := l.doc.ActiveElement(); active != l.doc.Body() {
		l.lastFocused = active
	}

	if size, ok := l.frames.Size(gallery); ok {
		l.applyFrame(size)
	} else {
		l.frames.Ensure(gallery, imgs[0].PreviewSource())
	}

	l.el.AddClass("open")
	l.el.SetAttr("aria-hidden", "false")
	l.doc.Body().AddClass("lightbox-open")
	l.updateImage()

	l.keydown = l.doc.On(EventKeyDown, l.handleKey)
	if l.closeBtn != nil {
		l.focusTask = l.doc.Scheduler().RequestFrame(func(time.Time) {
			if l.state == LightboxOpen {
				l.closeBtn.Focus()
			}
		})
	}
	l.doc.debugf("lightbox: open gallery %d at %d", gallery, l.index)
	return true
}

// Close hides the modal, removes its key listener and returns focus to the
// element captured by Open if it is still in the page. Valid only when open.
func (l *Lightbox) Close() bool {
	if l.state != LightboxOpen {
		return false
	}
	l.el.RemoveClass("open")
	l.el.SetAttr("aria-hidden", "true")
	l.doc.Body().RemoveClass("lightbox-open")
	l.keydown.Remove()
	l.keydown = CallbackHandle{}
	l.focusTask.Cancel()

	target := l.lastFocused
	l.state = LightboxClosed
	l.gallery = -1
	l.index = 0
	l.lastFocused = nil

	if target != nil && target.Connected() {
		l.doc.Focus(target)
	}
	return true
}

// Step moves the active image by delta with wrap-around and writes the new
// index back into the gallery view. Valid only when open.
func (l *Lightbox) Step(delta int) bool {
	if l.state != LightboxOpen {
		return false
	}
	n := len(l.images())
	if n == 0 {
		return false
	}
	next := Normalize(l.index+delta, n)
	if v := l.views[l.gallery]; v != nil {
		v.SetImage(next, false)
	}
	l.follow(l.gallery, next)
	return true
}

// follow sets the active image when gallery is the open one.
func (l *Lightbox) follow(gallery, index int) {
	if l.state != LightboxOpen || l.gallery != gallery {
		return
	}
	l.index = Normalize(index, len(l.images()))
	l.updateImage()
}

// RefreshLabels re-applies the image source and alt text, picking up a new
// language's preview alt.
func (l *Lightbox) RefreshLabels() {
	if l.state == LightboxOpen {
		l.updateImage()
	}
}

func (l *Lightbox) updateImage() {
	imgs := l.images()
	if len(imgs) == 0 {
		return
	}
	l.index = Normalize(l.index, len(imgs))
	if src := imgs[l.index].Source(); src != "" {
		l.image.SetAttr("src", src)
	}
	if v := l.views[l.gallery]; v != nil && v.image != nil {
		l.image.SetAttr("alt", v.Alt())
	}
	single := len(imgs) <= 1
	if l.prev != nil {
		l.prev.SetDisabled(single)
	}
	if l.next != nil {
		l.next.SetDisabled(single)
	}
}

func (l *Lightbox) handleKey(e *Event) {
	if l.state != LightboxOpen {
		return
	}
	switch e.Key {
	case KeyEscape:
		e.PreventDefault()
		l.Close()
	case KeyArrowLeft:
		e.PreventDefault()
		l.Step(-1)
	case KeyArrowRight:
		e.PreventDefault()
		l.Step(1)
	}
}

// onFrameSize applies a newly cached size when gallery is open.
func (l *Lightbox) onFrameSize(gallery int, size FrameSize) {
	if l.state == LightboxOpen && l.gallery == gallery {
		l.applyFrame(size)
	}
}

// applyFrame writes the lightbox frame variables. Invalid dimensions are
// skipped individually.
func (l *Lightbox) applyFrame(size FrameSize) {
	if finite(size.Width) && size.Width > 0 {
		l.el.SetNumber("--lightbox-width", size.Width, -1, "px")
	}
	if finite(size.Height) && size.Height > 0 {
		l.el.SetNumber("--lightbox-height", size.Height, -1, "px")
	}
	if size.Valid() {
		l.el.SetVar("--lightbox-aspect", size.Aspect())
	}
}
