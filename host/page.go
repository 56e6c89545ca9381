package host

import (
	"strconv"
	"strings"

	"github.com/phanxgames/folio"
)

// SectionIDs is the page's section order.
var SectionIDs = []string{"home", "projects", "skills", "hobbies", "contact"}

// skillGroups is the column order of the skills section.
var skillGroups = []string{"languages", "frameworks", "tools"}

// contactKinds is the card order of the contact section.
var contactKinds = []string{"email", "github", "linkedin"}

// PageContent is everything the page is built from: the mounted content
// plus the static parts that are never translated.
type PageContent struct {
	Content     folio.Content
	AvatarLight string
	AvatarDark  string
	// Skills maps a skills.* heading key to its entries.
	Skills      map[string][]string
	HobbyImages []string
	// Links maps a contact kind to its target.
	Links map[string]string
}

// Layout metrics in pixels.
const (
	navHeight    = 56
	sidePad      = 32
	maxColumn    = 1100
	minSection   = 640
	arrowSize    = 48
	dotSize      = 12
	dotSpacing   = 22
	toggleSize   = 40
	linkWidth    = 120
	galleryBtn   = 36
	lightboxPad  = 80
	ballSize     = 24
	cardGap      = 24
	dropdownItem = 44
)

type carouselBlock struct {
	wrapper *folio.Element
	left    *folio.Element
	view    *folio.Element
	track   *folio.Element
	right   *folio.Element
	dots    *folio.Element
	items   []*folio.Element
}

type projectBlock struct {
	gallery    *folio.Element
	preview    *folio.Element
	image      *folio.Element
	prev       *folio.Element
	next       *folio.Element
	title      *folio.Element
	desc       *folio.Element
	toolsLabel *folio.Element
	tools      *folio.Element
	link       *folio.Element
}

type hobbyBlock struct {
	image *folio.Element
	title *folio.Element
	desc  *folio.Element
}

type skillColumn struct {
	heading *folio.Element
	entries []*folio.Element
}

type contactCard struct {
	card    *folio.Element
	heading *folio.Element
	value   *folio.Element
	cta     *folio.Element
}

// Page is the built element tree with direct references for layout. The
// page owns every element's Box; components only write classes, attributes,
// variables and text.
type Page struct {
	doc        *folio.Document
	breakpoint float64

	nav   *folio.Element
	links []*folio.Element
	menu  *folio.Element
	lang  *folio.Element
	theme *folio.Element

	sections []*folio.Element

	avatar   *folio.Element
	intro    *folio.Element
	summary  *folio.Element
	viewBtn  *folio.Element
	titles   map[string]*folio.Element
	projects carouselBlock
	project  []projectBlock
	hobbies  carouselBlock
	hobby    []hobbyBlock
	skills   []skillColumn
	contact  *folio.Element
	cards    []contactCard

	lightbox      *folio.Element
	backdrop      *folio.Element
	lightboxImage *folio.Element
	lightboxClose *folio.Element
	lightboxPrev  *folio.Element
	lightboxNext  *folio.Element

	trail *folio.Element
	ball  *folio.Element

	images []*folio.Element

	width, height float64
}

// BuildPage appends the page's element tree to doc's body. Text that is
// translated is bound through data-i18n attributes and filled in when the
// site mounts.
func BuildPage(doc *folio.Document, pc PageContent) *Page {
	p := &Page{
		doc:        doc,
		breakpoint: pc.Content.NavBreakpoint,
		titles:     make(map[string]*folio.Element),
	}
	body := doc.Body()
	lang := pc.Content.DefaultLanguage
	dict := pc.Content.Dictionary

	for _, id := range SectionIDs {
		sec := p.add(body, "section", id, "panel")
		p.sections = append(p.sections, sec)
		if id != "home" {
			title := p.add(sec, "h2", "", "section-title")
			title.SetAttr("data-i18n", id+".title")
			p.titles[id] = title
		}
	}
	home, projects, skills, hobbies, contact := p.sections[0], p.sections[1], p.sections[2], p.sections[3], p.sections[4]

	// Home.
	p.avatar = p.add(home, "img", "", "avatar")
	p.avatar.SetAttr("src", pc.AvatarLight)
	p.avatar.SetData("lightSrc", pc.AvatarLight)
	p.avatar.SetData("darkSrc", pc.AvatarDark)
	p.images = append(p.images, p.avatar)
	p.intro = p.add(home, "h1", "intro")
	p.summary = p.add(home, "p", "", "summary")
	p.summary.SetAttr("data-i18n", "home.summary")
	p.viewBtn = p.button(home, "view-projects")
	p.viewBtn.SetAttr("data-i18n", "buttons.viewProjects")

	// Projects.
	p.projects = p.carousel(projects)
	for i, item := range p.projects.build(p, itemCount(dict, lang, "projects.items")) {
		prefix := "projects.items." + strconv.Itoa(i) + "."
		b := projectBlock{}
		b.gallery = p.add(item, "div", "", "project-gallery")
		b.preview = p.add(b.gallery, "button", "", "gallery-preview")
		b.preview.Focusable = true
		b.preview.SetAttr("data-i18n-aria-label", "aria.openGallery")
		b.image = p.add(b.preview, "img", "", "project-image")
		b.image.SetAttr("data-i18n-alt", prefix+"alt")
		p.images = append(p.images, b.image)
		b.prev = p.button(b.gallery, "", "gallery-btn", "prev")
		b.prev.SetText("‹")
		b.next = p.button(b.gallery, "", "gallery-btn", "next")
		b.next.SetText("›")
		b.title = p.text(item, "h3", prefix+"title")
		b.desc = p.text(item, "p", prefix+"description")
		b.toolsLabel = p.text(item, "span", prefix+"toolsLabel")
		b.tools = p.text(item, "p", prefix+"tools")
		b.link = p.text(item, "a", prefix+"link")
		p.project = append(p.project, b)
	}

	// Skills.
	for _, group := range skillGroups {
		col := skillColumn{heading: p.text(skills, "h3", "skills."+group)}
		for _, entry := range pc.Skills[group] {
			li := p.add(skills, "li", "", "skill")
			li.SetText(entry)
			col.entries = append(col.entries, li)
		}
		p.skills = append(p.skills, col)
	}

	// Hobbies.
	p.hobbies = p.carousel(hobbies)
	for i, item := range p.hobbies.build(p, itemCount(dict, lang, "hobbies.items")) {
		prefix := "hobbies.items." + strconv.Itoa(i) + "."
		b := hobbyBlock{}
		b.image = p.add(item, "img", "", "hobby-image")
		if i < len(pc.HobbyImages) {
			b.image.SetAttr("src", pc.HobbyImages[i])
		}
		b.image.SetAttr("data-i18n-alt", prefix+"alt")
		p.images = append(p.images, b.image)
		b.title = p.text(item, "h3", prefix+"title")
		b.desc = p.text(item, "p", prefix+"description")
		p.hobby = append(p.hobby, b)
	}

	// Contact.
	p.contact = p.text(contact, "p", "contact.intro")
	for _, kind := range contactKinds {
		c := contactCard{card: p.add(contact, "div", "", "contact-card")}
		c.heading = p.text(c.card, "h3", "contact."+kind+".heading")
		c.value = p.text(c.card, "p", "contact."+kind+".value")
		c.cta = p.text(c.card, "a", "contact."+kind+".cta")
		c.cta.Focusable = true
		if href := pc.Links[kind]; href != "" {
			c.cta.SetAttr("href", href)
		}
		p.cards = append(p.cards, c)
	}

	// Fixed overlays follow the sections so they win hit tests and paint
	// on top.
	p.nav = p.add(body, "nav", "", "nav-index")
	p.nav.Fixed = true
	p.nav.SetAttr("data-i18n-aria-label", "aria.primaryNav")
	for _, id := range SectionIDs {
		link := p.add(p.nav, "a", "")
		link.SetAttr("href", "#"+id)
		link.SetAttr("data-i18n", "nav."+id)
		link.Focusable = true
		p.links = append(p.links, link)
	}
	p.menu = p.button(body, "menu-toggle")
	p.lang = p.button(body, "language-toggle")
	p.theme = p.button(body, "theme-toggle")
	for _, el := range []*folio.Element{p.menu, p.lang, p.theme} {
		el.Fixed = true
	}

	// Lightbox.
	p.lightbox = p.add(body, "div", "project-lightbox", "lightbox")
	p.lightbox.Fixed = true
	p.backdrop = p.add(p.lightbox, "div", "", "lightbox-backdrop")
	p.lightboxImage = p.add(p.lightbox, "img", "", "lightbox-image")
	p.images = append(p.images, p.lightboxImage)
	p.lightboxClose = p.button(p.lightbox, "", "lightbox-close")
	p.lightboxClose.SetText("×")
	p.lightboxClose.SetAttr("data-i18n-aria-label", "aria.closeGallery")
	p.lightboxPrev = p.button(p.lightbox, "", "lightbox-arrow", "left")
	p.lightboxPrev.SetText("‹")
	p.lightboxPrev.SetAttr("data-i18n-aria-label", "aria.previousSlide")
	p.lightboxNext = p.button(p.lightbox, "", "lightbox-arrow", "right")
	p.lightboxNext.SetText("›")
	p.lightboxNext.SetAttr("data-i18n-aria-label", "aria.nextSlide")

	// Trail and ball draw over everything but never take pointer input.
	p.trail = p.add(body, "div", "lava-trail")
	p.trail.Fixed = true
	p.trail.SetAttr("aria-hidden", "true")
	p.ball = p.add(body, "div", "cursor-ball")
	p.ball.Fixed = true
	p.ball.SetAttr("aria-hidden", "true")
	return p
}

// carousel builds the controls of one carousel section. Items are added by
// build.
func (p *Page) carousel(sec *folio.Element) carouselBlock {
	c := carouselBlock{}
	c.wrapper = p.add(sec, "div", "", "carousel-wrapper")
	c.wrapper.Focusable = true
	c.left = p.button(c.wrapper, "", "arrow", "left")
	c.left.SetText("‹")
	c.left.SetAttr("data-i18n-aria-label", "aria.previousSlide")
	c.view = p.add(c.wrapper, "div", "", "carousel-view")
	c.track = p.add(c.view, "div", "", "carousel")
	c.right = p.button(c.wrapper, "", "arrow", "right")
	c.right.SetText("›")
	c.right.SetAttr("data-i18n-aria-label", "aria.nextSlide")
	c.dots = p.add(sec, "div", sec.ID+"-dots", "dots")
	return c
}

func (c *carouselBlock) build(p *Page, n int) []*folio.Element {
	for range n {
		c.items = append(c.items, p.add(c.track, "div", "", "item"))
	}
	return c.items
}

func (p *Page) add(parent *folio.Element, tag, id string, classes ...string) *folio.Element {
	el := p.doc.CreateElement(tag, id, classes...)
	parent.AppendChild(el)
	return el
}

func (p *Page) button(parent *folio.Element, id string, classes ...string) *folio.Element {
	el := p.add(parent, "button", id, classes...)
	el.Focusable = true
	return el
}

func (p *Page) text(parent *folio.Element, tag, key string) *folio.Element {
	el := p.add(parent, tag, "")
	el.SetAttr("data-i18n", key)
	return el
}

// itemCount returns the length of the list at path, 0 if missing.
func itemCount(dict folio.Dictionary, lang folio.Language, path string) int {
	v, ok := dict.Lookup(lang, path)
	if !ok {
		return 0
	}
	items, _ := v.([]any)
	return len(items)
}

// Images returns every image element whose source the host must load.
func (p *Page) Images() []*folio.Element { return p.images }

// Trail returns the particle container.
func (p *Page) Trail() *folio.Element { return p.trail }

// Layout positions every page element for a w by h viewport and sets the
// document's content height. It is cheap and runs every frame, so layout
// follows the menu state and cached frame sizes without invalidation.
func (p *Page) Layout(w, h float64) {
	p.width, p.height = w, h
	cw := min(w-2*sidePad, maxColumn)
	if cw < 0 {
		cw = 0
	}
	colX := (w - cw) / 2
	secH := max(h, minSection)
	narrow := w <= p.breakpoint

	// Navigation bar.
	p.nav.Box = folio.Rect{Width: w, Height: navHeight}
	open := p.nav.HasClass("open")
	for i, link := range p.links {
		switch {
		case !narrow:
			link.Box = folio.Rect{X: colX + float64(i)*linkWidth, Y: 8, Width: linkWidth - 8, Height: navHeight - 16}
		case open:
			link.Box = folio.Rect{X: w - sidePad - 220, Y: navHeight + float64(i)*dropdownItem, Width: 220, Height: dropdownItem - 4}
		default:
			link.Box = folio.Rect{}
		}
	}
	right := w - sidePad - toggleSize
	p.theme.Box = folio.Rect{X: right, Y: 8, Width: toggleSize, Height: toggleSize}
	p.lang.Box = folio.Rect{X: right - toggleSize - 8, Y: 8, Width: toggleSize, Height: toggleSize}
	if narrow {
		p.menu.Box = folio.Rect{X: right - 2*(toggleSize+8), Y: 8, Width: toggleSize, Height: toggleSize}
	} else {
		p.menu.Box = folio.Rect{}
	}

	for i, sec := range p.sections {
		sec.Box = folio.Rect{Y: float64(i) * secH, Width: w, Height: secH}
		if title := p.titles[sec.ID]; title != nil {
			title.Box = folio.Rect{X: colX, Y: navHeight + 32, Width: cw, Height: 48}
		}
	}
	p.doc.SetContentHeight(float64(len(p.sections)) * secH)

	// Home.
	top := navHeight + (secH-navHeight)*0.2
	p.avatar.Box = folio.Rect{X: colX, Y: top, Width: 128, Height: 128}
	p.intro.Box = folio.Rect{X: colX, Y: top + 160, Width: cw, Height: 64}
	p.summary.Box = folio.Rect{X: colX, Y: top + 236, Width: min(cw, 720), Height: 64}
	p.viewBtn.Box = folio.Rect{X: colX, Y: top + 320, Width: 240, Height: 48}

	blockY := navHeight + 96.0
	blockH := secH - blockY - 72

	// Projects.
	itemW, itemH := p.projects.layout(colX, blockY, cw, blockH)
	galleryW := itemW * 0.55
	textX := galleryW + cardGap
	textW := max(itemW-textX, 0)
	for _, b := range p.project {
		b.gallery.Box = folio.Rect{Width: galleryW, Height: itemH}
		ph := previewHeight(b.preview, galleryW, itemH-galleryBtn-8)
		b.preview.Box = folio.Rect{Width: galleryW, Height: ph}
		b.image.Box = folio.Rect{Width: galleryW, Height: ph}
		b.prev.Box = folio.Rect{Y: ph + 8, Width: galleryBtn, Height: galleryBtn}
		b.next.Box = folio.Rect{X: galleryW - galleryBtn, Y: ph + 8, Width: galleryBtn, Height: galleryBtn}
		b.title.Box = folio.Rect{X: textX, Width: textW, Height: 36}
		b.desc.Box = folio.Rect{X: textX, Y: 44, Width: textW, Height: 120}
		b.toolsLabel.Box = folio.Rect{X: textX, Y: 172, Width: textW, Height: 24}
		b.tools.Box = folio.Rect{X: textX, Y: 198, Width: textW, Height: 60}
		b.link.Box = folio.Rect{X: textX, Y: 266, Width: textW, Height: 28}
	}

	// Skills.
	colW := (cw - cardGap*float64(len(p.skills)-1)) / float64(max(len(p.skills), 1))
	for i, col := range p.skills {
		x := colX + float64(i)*(colW+cardGap)
		col.heading.Box = folio.Rect{X: x, Y: blockY, Width: colW, Height: 32}
		for j, li := range col.entries {
			li.Box = folio.Rect{X: x, Y: blockY + 44 + float64(j)*32, Width: colW, Height: 28}
		}
	}

	// Hobbies.
	itemW, itemH = p.hobbies.layout(colX, blockY, cw, blockH)
	imageW := itemW * 0.5
	for _, b := range p.hobby {
		b.image.Box = folio.Rect{Width: imageW, Height: itemH}
		b.title.Box = folio.Rect{X: imageW + cardGap, Width: max(itemW-imageW-cardGap, 0), Height: 36}
		b.desc.Box = folio.Rect{X: imageW + cardGap, Y: 44, Width: max(itemW-imageW-cardGap, 0), Height: 120}
	}

	// Contact.
	p.contact.Box = folio.Rect{X: colX, Y: blockY, Width: cw, Height: 32}
	cardW := (cw - cardGap*float64(len(p.cards)-1)) / float64(max(len(p.cards), 1))
	for i, c := range p.cards {
		c.card.Box = folio.Rect{X: colX + float64(i)*(cardW+cardGap), Y: blockY + 64, Width: cardW, Height: 160}
		c.heading.Box = folio.Rect{X: 16, Y: 16, Width: cardW - 32, Height: 32}
		c.value.Box = folio.Rect{X: 16, Y: 56, Width: cardW - 32, Height: 28}
		c.cta.Box = folio.Rect{X: 16, Y: 104, Width: cardW - 32, Height: 32}
	}

	// Lightbox.
	p.lightbox.Box = folio.Rect{Width: w, Height: h}
	p.backdrop.Box = folio.Rect{Width: w, Height: h}
	p.lightboxImage.Box = lightboxFrame(p.lightbox, w, h)
	p.lightboxClose.Box = folio.Rect{X: w - arrowSize - 24, Y: 24, Width: arrowSize, Height: arrowSize}
	p.lightboxPrev.Box = folio.Rect{X: 24, Y: h/2 - arrowSize/2, Width: arrowSize, Height: arrowSize}
	p.lightboxNext.Box = folio.Rect{X: w - arrowSize - 24, Y: h/2 - arrowSize/2, Width: arrowSize, Height: arrowSize}

	p.trail.Box = folio.Rect{Width: w, Height: h}
	p.ball.Box = folio.Rect{Width: ballSize, Height: ballSize}
}

// layout places the carousel controls in the block at (x, y) and returns
// the item size.
func (c *carouselBlock) layout(x, y, w, h float64) (itemW, itemH float64) {
	c.wrapper.Box = folio.Rect{X: x, Y: y, Width: w, Height: h}
	c.left.Box = folio.Rect{Y: h/2 - arrowSize/2, Width: arrowSize, Height: arrowSize}
	c.right.Box = folio.Rect{X: w - arrowSize, Y: h/2 - arrowSize/2, Width: arrowSize, Height: arrowSize}
	viewW := max(w-2*(arrowSize+8), 0)
	c.view.Box = folio.Rect{X: arrowSize + 8, Width: viewW, Height: h}
	c.track.Box = folio.Rect{Width: viewW * float64(len(c.items)), Height: h}
	c.view.ScrollWidth = c.track.Box.Width
	for i, item := range c.items {
		item.Box = folio.Rect{X: float64(i) * viewW, Width: viewW, Height: h}
	}

	dots := c.dots.Children()
	rowW := float64(len(dots)) * dotSpacing
	c.dots.Box = folio.Rect{X: x, Y: y + h + 16, Width: w, Height: dotSize + 8}
	for i, dot := range dots {
		dot.Box = folio.Rect{X: (w-rowW)/2 + float64(i)*dotSpacing, Y: 4, Width: dotSize, Height: dotSize}
	}
	return viewW, h
}

// previewHeight fits the gallery preview to its cached frame aspect.
func previewHeight(preview *folio.Element, width, maxHeight float64) float64 {
	if aspect, ok := parseAspect(preview, "--frame-aspect"); ok {
		return min(width/aspect, maxHeight)
	}
	return maxHeight
}

// lightboxFrame centers the modal image, fitted to the frame size the
// lightbox reports.
func lightboxFrame(lb *folio.Element, w, h float64) folio.Rect {
	maxW, maxH := max(w-2*lightboxPad, 0), max(h-2*lightboxPad, 0)
	fw, fh := maxW, maxH
	if aspect, ok := parseAspect(lb, "--lightbox-aspect"); ok {
		fw = maxW
		if natural, ok := lb.VarFloat("--lightbox-width"); ok {
			fw = min(natural, maxW)
		}
		fh = fw / aspect
		if fh > maxH {
			fh = maxH
			fw = fh * aspect
		}
	}
	return folio.Rect{X: (w - fw) / 2, Y: (h - fh) / 2, Width: fw, Height: fh}
}

// parseAspect reads a "w / h" style variable.
func parseAspect(el *folio.Element, name string) (float64, bool) {
	v, ok := el.Var(name)
	if !ok {
		return 0, false
	}
	ws, hs, ok := strings.Cut(v, "/")
	if !ok {
		return 0, false
	}
	aw, err1 := strconv.ParseFloat(strings.TrimSpace(ws), 64)
	ah, err2 := strconv.ParseFloat(strings.TrimSpace(hs), 64)
	if err1 != nil || err2 != nil || aw <= 0 || ah <= 0 {
		return 0, false
	}
	return aw / ah, true
}
