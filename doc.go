// Package folio drives the animation and state layer of an interactive
// single-page profile site rendered natively with [Ebitengine].
//
// The package itself has no Ebitengine dependency. It keeps a retained
// [Document] of [Element] values whose classes, attributes, style variables
// and text are the page's complete output; the folio/host package lays the
// page out, feeds input in, and paints what the core writes.
//
// # Quick start
//
// The simplest way to get started is host.Run, which builds the page,
// creates a window and mounts every component:
//
//	cfg, _ := config.Load("folio.yml")
//	content, _ := cfg.Content()
//	host.Run(host.PageContent{Content: content}, host.RunConfig{
//		Title: "Portfolio", Width: 1280, Height: 800,
//	})
//
// The folio command wraps the same steps: "folio init" writes the default
// config and "folio run" opens the window.
//
// For headless use (tests, scripted runs), build a document yourself and
// advance it with a [ManualClock]:
//
//	clock := folio.NewManualClock(time.Unix(0, 0))
//	doc := folio.NewDocument(clock)
//	// ... append elements, set boxes ...
//	site := folio.Mount(doc, content, folio.MountOptions{})
//	clock.Advance(16 * time.Millisecond)
//	doc.Update()
//
// # Components
//
// Each component mounts on a fixed set of element ids and class names and
// silently does nothing when they are missing:
//
//   - [RevealEngine]: per-panel reveal progress and the active panel.
//   - [SectionTracker] and [PaletteTracker]: nav highlight and ambient gradient.
//   - [Carousel]: index, dots and smooth horizontal scroll.
//   - [Lightbox], [GalleryView] and [FrameCache]: inline gallery and modal viewer.
//   - [TrailEmitter] and [Follower]: pointer trail under a capacity bound.
//   - [TypingAnimator]: localized typewriter.
//   - [LanguageSwitch], [NavMenu] and [ThemeController].
//
// # Scheduling
//
// There are no goroutines in the core. The [Scheduler] owned by each
// Document multiplexes one-shot frame callbacks, deferred timers and
// per-frame loops; [Stepper] values express self-rescheduling loops as
// pure tick(now) functions, and [Coalescer] collapses event storms into one
// update per frame. Shared state lives in [AppState], one writer per field.
//
// # Automated testing
//
// Synthetic input can be queued with [Document.InjectClick],
// [Document.InjectPointerMove], [Document.InjectKey] and friends, and
// [LoadTestScript] sequences them with screenshots from a JSON script.
//
// [Ebitengine]: https://ebitengine.org
package folio
