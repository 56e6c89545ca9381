package folio

import (
	"math"
	"slices"
	"strconv"

	"github.com/tanema/gween/ease"
)

// Normalize maps any integer index into [0, n). It returns 0 when n <= 0.
func Normalize(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// CarouselConfig tunes the carousel's animated scroll.
type CarouselConfig struct {
	// ScrollDuration is the smooth scroll duration in seconds.
	ScrollDuration float32
	// Ease is the smooth scroll easing function.
	Ease ease.TweenFunc
}

// DefaultCarouselConfig returns a 0.45s ease-out-cubic scroll.
func DefaultCarouselConfig() CarouselConfig {
	return CarouselConfig{ScrollDuration: 0.45, Ease: ease.OutCubic}
}

// Carousel is the index state of one horizontally scrolling section: the
// tracked index, its dot indicators and the scroll position of the view.
type Carousel struct {
	doc     *Document
	cfg     CarouselConfig
	reduced bool

	section *Element
	view    *Element
	wrapper *Element
	left    *Element
	right   *Element
	dotsBox *Element
	items   []*Element
	dots    []*Element

	index int
	tween *ScrollTween
}

// NewCarousel mounts a carousel on section sectionID. The section must
// contain .carousel-view > .carousel with at least one .item, a
// .carousel-wrapper, .arrow.left and .arrow.right, and the page must have a
// "<sectionID>-dots" container. Anything missing makes the carousel inert
// and NewCarousel returns false.
func NewCarousel(doc *Document, sectionID string, state *AppState, cfg CarouselConfig) (*Carousel, bool) {
	section := doc.ByID(sectionID)
	if section == nil {
		return nil, false
	}
	c := &Carousel{
		doc:     doc,
		cfg:     cfg,
		reduced: state.ReducedMotion,
		section: section,
		view:    section.Query("carousel-view"),
		wrapper: section.Query("carousel-wrapper"),
		left:    section.Query("arrow", "left"),
		right:   section.Query("arrow", "right"),
		dotsBox: doc.ByID(sectionID + "-dots"),
	}
	var track *Element
	if c.view != nil {
		track = c.view.Query("carousel")
	}
	if track == nil || c.dotsBox == nil || c.wrapper == nil || c.left == nil || c.right == nil {
		doc.debugf("carousel %q: missing elements", sectionID)
		return nil, false
	}
	c.items = track.QueryAll("item")
	if len(c.items) == 0 {
		doc.debugf("carousel %q: no items", sectionID)
		return nil, false
	}
	if c.cfg.Ease == nil {
		c.cfg.Ease = ease.OutCubic
	}

	for _, old := range slices.Clone(c.dotsBox.Children()) {
		old.Remove()
	}
	for i := range c.items {
		dot := doc.CreateElement("span", "", "dot")
		dot.Focusable = true
		dot.SetAttr("aria-label", strconv.Itoa(i+1))
		dot.On(EventClick, func(*Event) { c.JumpTo(i) })
		c.dotsBox.AppendChild(dot)
		c.dots = append(c.dots, dot)
	}

	single := len(c.items) <= 1
	c.left.SetDisabled(single)
	c.right.SetDisabled(single)

	c.left.On(EventClick, func(*Event) { c.StepLeft() })
	c.right.On(EventClick, func(*Event) { c.StepRight() })
	c.wrapper.On(EventKeyDown, func(e *Event) {
		switch e.Key {
		case KeyArrowLeft:
			c.StepLeft()
		case KeyArrowRight:
			c.StepRight()
		}
	})
	c.view.On(EventScroll, func(*Event) {
		if i := c.closestIndex(); i != c.index {
			c.SetActiveIndex(i, false)
		}
	})
	doc.On(EventResize, func(*Event) { c.SetActiveIndex(c.index, true) })

	c.SetActiveIndex(0, false)
	return c, true
}

// SetActiveIndex normalizes target, highlights its dot and, when scroll is
// true, scrolls the view to the item: instantly with reduced motion,
// otherwise animated. Calling it twice with the same target and scroll false
// changes nothing the second time.
func (c *Carousel) SetActiveIndex(target int, scroll bool) {
	c.index = Normalize(target, len(c.items))
	if scroll {
		c.scrollToItem(c.index)
	}
	for i, dot := range c.dots {
		dot.ToggleClass("active", i == c.index)
	}
}

// StepLeft moves to the previous item, wrapping to the last.
func (c *Carousel) StepLeft() {
	if len(c.items) <= 1 {
		return
	}
	c.SetActiveIndex(c.index-1, true)
}

// StepRight moves to the next item, wrapping to the first.
func (c *Carousel) StepRight() {
	if len(c.items) <= 1 {
		return
	}
	c.SetActiveIndex(c.index+1, true)
}

// JumpTo moves to item i.
func (c *Carousel) JumpTo(i int) {
	c.SetActiveIndex(i, true)
}

// Index returns the tracked index.
func (c *Carousel) Index() int { return c.index }

// Len returns the number of items.
func (c *Carousel) Len() int { return len(c.items) }

// Dots returns the dot indicator elements.
func (c *Carousel) Dots() []*Element { return c.dots }

// Scrolling reports whether an animated scroll is in flight.
func (c *Carousel) Scrolling() bool { return c.tween.Active() }

// TargetScrollLeft returns the clamped scroll offset that aligns item i's
// margin box with the view's left edge.
func (c *Carousel) TargetScrollLeft(i int) float64 {
	item := c.items[Normalize(i, len(c.items))]
	raw := item.OffsetLeftWithin(c.view) - item.MarginLeft
	if !finite(raw) {
		raw = 0
	}
	return clamp(raw, 0, c.view.MaxScrollLeft())
}

func (c *Carousel) scrollToItem(i int) {
	target := c.TargetScrollLeft(i)
	c.tween.Stop()
	if c.reduced || c.cfg.ScrollDuration <= 0 {
		c.view.SetScrollLeft(target)
		return
	}
	if target == c.view.ScrollLeft() {
		return
	}
	c.tween = startScrollTween(c.doc.Scheduler(), c.view, c.view.ScrollLeft(), target, c.cfg.ScrollDuration, c.cfg.Ease, c.view.SetScrollLeft)
}

// closestIndex returns the item whose center is nearest the view's center.
func (c *Carousel) closestIndex() int {
	center := c.view.ScrollLeft() + c.view.ClientWidth()/2
	best, bestDist := 0, math.Inf(1)
	for i, item := range c.items {
		d := math.Abs(item.OffsetLeftWithin(c.view) + item.Box.Width/2 - center)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
