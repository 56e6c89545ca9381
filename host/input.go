package host

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/folio"
)

const (
	dragDeadZone = 4.0  // pixels
	wheelStep    = 60.0 // pixels per wheel notch
	lineStep     = 48.0 // pixels per arrow key press
)

// pageKey is a key whose default action scrolls the page.
type pageKey uint8

const (
	pageLineUp pageKey = iota
	pageLineDown
	pageUp
	pageDown
	pageHome
	pageEnd
)

// inputFrame is one tick's raw input, read from ebiten by readInput and
// applied to the document by inputState. Tests build frames directly.
type inputFrame struct {
	X, Y      float64
	Pressed   bool
	WheelX    float64
	WheelY    float64
	Keys      []folio.Key
	PageKeys  []pageKey
	Minimized bool
}

// readInput samples the mouse, the first touch and the keys pressed this
// tick.
func readInput() inputFrame {
	mx, my := ebiten.CursorPosition()
	f := inputFrame{
		X:       float64(mx),
		Y:       float64(my),
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
	}
	if touches := ebiten.AppendTouchIDs(nil); len(touches) > 0 && !f.Pressed {
		tx, ty := ebiten.TouchPosition(touches[0])
		f.X, f.Y, f.Pressed = float64(tx), float64(ty), true
	}
	f.WheelX, f.WheelY = ebiten.Wheel()
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		switch k {
		case ebiten.KeyEscape:
			f.Keys = append(f.Keys, folio.KeyEscape)
		case ebiten.KeyArrowLeft:
			f.Keys = append(f.Keys, folio.KeyArrowLeft)
		case ebiten.KeyArrowRight:
			f.Keys = append(f.Keys, folio.KeyArrowRight)
		case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
			f.Keys = append(f.Keys, folio.KeyEnter)
		case ebiten.KeySpace:
			f.Keys = append(f.Keys, folio.KeySpace)
		case ebiten.KeyTab:
			f.Keys = append(f.Keys, folio.KeyTab)
		case ebiten.KeyArrowUp:
			f.PageKeys = append(f.PageKeys, pageLineUp)
		case ebiten.KeyArrowDown:
			f.PageKeys = append(f.PageKeys, pageLineDown)
		case ebiten.KeyPageUp:
			f.PageKeys = append(f.PageKeys, pageUp)
		case ebiten.KeyPageDown:
			f.PageKeys = append(f.PageKeys, pageDown)
		case ebiten.KeyHome:
			f.PageKeys = append(f.PageKeys, pageHome)
		case ebiten.KeyEnd:
			f.PageKeys = append(f.PageKeys, pageEnd)
		}
	}
	f.Minimized = ebiten.IsWindowMinimized()
	return f
}

// inputState turns sampled frames into document events. A click fires when
// press and release land on the same element without a drag. A drag that
// starts inside a carousel view scrolls it horizontally.
type inputState struct {
	doc *folio.Document

	lastX, lastY float64
	moved        bool

	down        bool
	pressTarget *folio.Element
	startX      float64
	startY      float64
	dragging    bool
	dragView    *folio.Element
	dragScroll  float64

	// onDragEnd runs when a carousel drag is released, to snap the view.
	onDragEnd func(view *folio.Element)
}

func newInputState(doc *folio.Document) *inputState {
	return &inputState{doc: doc}
}

func (s *inputState) apply(f inputFrame) {
	d := s.doc
	d.SetHidden(f.Minimized)

	if !s.moved || f.X != s.lastX || f.Y != s.lastY {
		d.PointerMove(f.X, f.Y)
		s.lastX, s.lastY, s.moved = f.X, f.Y, true
	}

	switch {
	case f.Pressed && !s.down:
		s.down = true
		s.pressTarget = d.HitTest(f.X, f.Y)
		s.startX, s.startY = f.X, f.Y
		s.dragging = false
		s.dragView = ancestorWithClass(s.pressTarget, "carousel-view")
		if s.dragView != nil {
			s.dragScroll = s.dragView.ScrollLeft()
		}
	case f.Pressed && s.down:
		dx, dy := f.X-s.startX, f.Y-s.startY
		if !s.dragging && math.Hypot(dx, dy) > dragDeadZone {
			s.dragging = true
		}
		if s.dragging && s.dragView != nil {
			s.dragView.SetScrollLeft(s.dragScroll - dx)
		}
	case !f.Pressed && s.down:
		s.down = false
		if s.dragging {
			if s.dragView != nil && s.onDragEnd != nil {
				s.onDragEnd(s.dragView)
			}
		} else if s.pressTarget != nil && d.HitTest(f.X, f.Y) == s.pressTarget {
			d.Click(s.pressTarget)
		}
		s.pressTarget, s.dragView, s.dragging = nil, nil, false
	}

	if f.WheelY != 0 {
		d.ScrollBy(-f.WheelY * wheelStep)
	}
	if f.WheelX != 0 {
		if view := ancestorWithClass(d.HitTest(f.X, f.Y), "carousel-view"); view != nil {
			view.SetScrollLeft(view.ScrollLeft() - f.WheelX*wheelStep)
		}
	}

	for _, k := range f.Keys {
		prevented := d.KeyDown(k)
		if !prevented && k == folio.KeySpace && d.ActiveElement() == d.Body() {
			d.ScrollBy(d.ViewportSize().Y * 0.9)
		}
	}
	for _, k := range f.PageKeys {
		s.scrollPage(k)
	}
}

func (s *inputState) scrollPage(k pageKey) {
	d := s.doc
	page := d.ViewportSize().Y * 0.9
	switch k {
	case pageLineUp:
		d.ScrollBy(-lineStep)
	case pageLineDown:
		d.ScrollBy(lineStep)
	case pageUp:
		d.ScrollBy(-page)
	case pageDown:
		d.ScrollBy(page)
	case pageHome:
		d.ScrollTo(0)
	case pageEnd:
		d.ScrollTo(d.MaxScrollY())
	}
}

// ancestorWithClass returns el or its nearest ancestor carrying class.
func ancestorWithClass(el *folio.Element, class string) *folio.Element {
	for ; el != nil; el = el.Parent {
		if el.HasClass(class) {
			return el
		}
	}
	return nil
}
