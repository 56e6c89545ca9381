package folio

import "time"

// PointerSample is the page-wide pointer state.
type PointerSample struct {
	// Position is the raw pointer position in viewport coordinates.
	Position Vec2
	// LastMove is the time of the most recent pointer move.
	LastMove time.Time
	// SmoothedSpeed is an exponentially smoothed speed in px/ms.
	SmoothedSpeed float64
	// Accumulator is the bounded movement distance that boosts spawn count.
	Accumulator float64
	// Active is true once the pointer has moved while the page is visible.
	Active bool
}

// AppState is the state shared between components. It is passed by pointer
// to every constructor. Each field has exactly one writer; every other
// component reads it and re-derives what it needs on its own schedule.
type AppState struct {
	// Language is written by LanguageSwitch.
	Language Language
	// Theme is written by ThemeController.
	Theme Theme
	// Pointer is written by the TrailEmitter's pointer handler.
	Pointer PointerSample
	// ActivePanel is written by RevealEngine. Nil before the first update.
	ActivePanel *Element
	// ReducedMotion is written once by Mount from the document preference.
	ReducedMotion bool
}
