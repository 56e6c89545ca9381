package host

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/folio"
)

var (
	lightBase  = mustColor("#fffaf2")
	darkBase   = mustColor("#0e0e10")
	lightInk   = mustColor("#1b1b1f")
	darkInk    = mustColor("#f2f2f2")
	fallbackHi = mustColor("#ffff00")
	fallbackLo = mustColor("#ff4500")
)

func mustColor(hex string) folio.Color {
	c, err := folio.ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// toRGBA converts c to a color with its alpha scaled by alpha.
func toRGBA(c folio.Color, alpha float64) color.NRGBA {
	a := c.A * alpha
	return color.NRGBA{
		R: uint8(math.Round(clamp01(c.R) * 255)),
		G: uint8(math.Round(clamp01(c.G) * 255)),
		B: uint8(math.Round(clamp01(c.B) * 255)),
		A: uint8(math.Round(clamp01(a) * 255)),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// varColor parses a hex style variable, falling back when absent.
func varColor(el *folio.Element, name string, fallback folio.Color) folio.Color {
	if v, ok := el.Var(name); ok {
		if c, err := folio.ParseColor(v); err == nil {
			return c
		}
	}
	return fallback
}

// renderer paints the document's observable state: boxes, classes,
// variables and text. It never writes to the document.
type renderer struct {
	doc    *folio.Document
	page   *Page
	fonts  *fontSet
	loader *Loader
	anims  *particleAnimator

	images map[string]*ebiten.Image

	gradient    *ebiten.Image
	gradientKey [3]string
}

func newRenderer(doc *folio.Document, page *Page, fonts *fontSet, loader *Loader, anims *particleAnimator) *renderer {
	return &renderer{
		doc:    doc,
		page:   page,
		fonts:  fonts,
		loader: loader,
		anims:  anims,
		images: make(map[string]*ebiten.Image),
	}
}

// palette is the per-frame color context.
type palette struct {
	dark    bool
	ink     folio.Color
	accent  folio.Color
	hi, lo  folio.Color
	focused *folio.Element
}

func (p palette) base() folio.Color {
	if p.dark {
		return darkBase
	}
	return lightBase
}

func (r *renderer) Draw(screen *ebiten.Image) {
	root := r.doc.Root()
	pal := palette{
		dark:    r.doc.Body().HasClass("dark"),
		hi:      varColor(root, "--lava-light", fallbackHi),
		lo:      varColor(root, "--lava-dark", fallbackLo),
		focused: r.doc.ActiveElement(),
	}
	pal.ink = lightInk
	if pal.dark {
		pal.ink = darkInk
	}
	pal.accent = pal.lo
	if pal.dark {
		pal.accent = pal.hi.Blend(pal.lo, 0.5)
	}

	r.drawBackground(screen, pal)
	for _, el := range r.doc.Body().Children() {
		r.drawElement(screen, el, pal, 1)
	}
	r.drawTrail(screen, pal)
}

// drawBackground fills the ambient gradient between the section palette's
// two colors over the theme's base color.
func (r *renderer) drawBackground(screen *ebiten.Image, pal palette) {
	b := screen.Bounds()
	base, strength := lightBase, 0.35
	if pal.dark {
		base, strength = darkBase, 0.12
	}
	screen.Fill(toRGBA(base, 1))

	key := [3]string{pal.hi.Hex(), pal.lo.Hex(), image.Pt(b.Dx(), b.Dy()).String()}
	if r.gradient == nil || r.gradientKey != key {
		if r.gradient != nil {
			r.gradient.Deallocate()
		}
		r.gradient = ebiten.NewImage(max(b.Dx(), 1), max(b.Dy(), 1))
		const strip = 4
		h := float64(b.Dy())
		for y := 0.0; y < h; y += strip {
			c := pal.hi.Blend(pal.lo, y/max(h, 1))
			vector.DrawFilledRect(r.gradient, 0, float32(y), float32(b.Dx()), strip, toRGBA(c, 1), false)
		}
		r.gradientKey = key
	}
	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(float32(strength))
	screen.DrawImage(r.gradient, op)
}

// drawElement paints el and its subtree. alpha is the inherited opacity.
func (r *renderer) drawElement(dst *ebiten.Image, el *folio.Element, pal palette, alpha float64) {
	if v, ok := el.Attr("aria-hidden"); ok && v == "true" {
		return
	}
	if el.HasClass("panel") {
		if p, ok := el.VarFloat("--reveal-progress"); ok {
			alpha *= clamp01(p)
		}
	}
	if alpha <= 0 {
		return
	}
	if el.Disabled {
		alpha *= 0.35
	}

	rect := r.doc.BoundingRect(el)
	if rect.Area() > 0 {
		r.paint(dst, el, rect, pal, alpha)
	}

	children := dst
	if el.HasClass("carousel-view") {
		clip := image.Rect(int(rect.X), int(rect.Y), int(math.Ceil(rect.X+rect.Width)), int(math.Ceil(rect.Y+rect.Height)))
		clip = clip.Intersect(dst.Bounds())
		if clip.Empty() {
			return
		}
		children = dst.SubImage(clip).(*ebiten.Image)
	}
	for _, c := range el.Children() {
		r.drawElement(children, c, pal, alpha)
	}

	if el == pal.focused && el.Focusable && rect.Area() > 0 {
		vector.StrokeRect(dst, float32(rect.X-3), float32(rect.Y-3), float32(rect.Width+6), float32(rect.Height+6), 2, toRGBA(pal.accent, alpha), false)
	}
}

// paint draws el's own box by its tag and classes.
func (r *renderer) paint(dst *ebiten.Image, el *folio.Element, rect folio.Rect, pal palette, alpha float64) {
	switch {
	case el.HasClass("nav-index"):
		r.fill(dst, rect, pal.base(), 0.85*alpha)
		return
	case el.HasClass("lightbox-backdrop"):
		r.fill(dst, rect, darkBase, 0.88*alpha)
		return
	case el.HasClass("dot"):
		cx, cy := float32(rect.X+rect.Width/2), float32(rect.Y+rect.Height/2)
		rad := float32(rect.Width / 2)
		if el.HasClass("active") {
			vector.DrawFilledCircle(dst, cx, cy, rad, toRGBA(pal.accent, alpha), true)
		} else {
			vector.StrokeCircle(dst, cx, cy, rad-1, 1.5, toRGBA(pal.ink, alpha*0.6), true)
		}
		return
	case el.HasClass("contact-card"):
		r.fill(dst, rect, pal.ink, 0.06*alpha)
		vector.StrokeRect(dst, float32(rect.X), float32(rect.Y), float32(rect.Width), float32(rect.Height), 1, toRGBA(pal.ink, 0.2*alpha), false)
		return
	}

	switch el.Tag {
	case "img":
		r.drawImage(dst, el, rect, pal, alpha)
	case "button":
		r.drawButton(dst, el, rect, pal, alpha)
	case "a":
		r.drawLink(dst, el, rect, pal, alpha)
	case "h1":
		r.drawText(dst, el.Text()+r.caret(el), rect, styleHero, pal.ink, alpha, text.AlignStart)
	case "h2":
		r.drawText(dst, el.Text(), rect, styleTitle, pal.ink, alpha, text.AlignStart)
	case "h3":
		r.drawText(dst, el.Text(), rect, styleHeading, pal.ink, alpha, text.AlignStart)
	case "span", "li":
		r.drawText(dst, el.Text(), rect, styleSmall, pal.ink, alpha, text.AlignStart)
	case "p":
		r.drawText(dst, el.Text(), rect, styleBody, pal.ink, alpha, text.AlignStart)
	}
}

// caret blinks after the typed intro.
func (r *renderer) caret(el *folio.Element) string {
	if el.ID != "intro" {
		return ""
	}
	if r.doc.Now().UnixMilli()/530%2 == 0 {
		return "|"
	}
	return ""
}

func (r *renderer) fill(dst *ebiten.Image, rect folio.Rect, c folio.Color, alpha float64) {
	if alpha <= 0 {
		return
	}
	vector.DrawFilledRect(dst, float32(rect.X), float32(rect.Y), float32(rect.Width), float32(rect.Height), toRGBA(c, alpha), false)
}

func (r *renderer) drawButton(dst *ebiten.Image, el *folio.Element, rect folio.Rect, pal palette, alpha float64) {
	if el.HasClass("gallery-preview") {
		// The preview is a frame around its image.
		r.fill(dst, rect, pal.ink, 0.05*alpha)
		return
	}
	r.fill(dst, rect, pal.accent, 0.18*alpha)
	bg := toRGBA(pal.base().Blend(pal.accent, 0.18), 1)
	if drawIcon(dst, el.Text(), rect, toRGBA(pal.ink, alpha), bg) {
		return
	}
	r.drawText(dst, el.Text(), rect, styleBody, pal.ink, alpha, text.AlignCenter)
}

func (r *renderer) drawLink(dst *ebiten.Image, el *folio.Element, rect folio.Rect, pal palette, alpha float64) {
	c := pal.ink
	if el.HasClass("active") {
		c = pal.accent
		vector.StrokeLine(dst, float32(rect.X+8), float32(rect.Y+rect.Height-2), float32(rect.X+rect.Width-8), float32(rect.Y+rect.Height-2), 2, toRGBA(c, alpha), false)
	}
	r.drawText(dst, el.Text(), rect, styleBody, c, alpha, text.AlignCenter)
}

// drawImage fits the decoded image inside rect, keeping its aspect ratio.
// A placeholder fills the box until the image has loaded.
func (r *renderer) drawImage(dst *ebiten.Image, el *folio.Element, rect folio.Rect, pal palette, alpha float64) {
	src, _ := el.Attr("src")
	img := r.image(src)
	if img == nil {
		r.fill(dst, rect, pal.ink, 0.08*alpha)
		return
	}
	b := img.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	scale := math.Min(rect.Width/iw, rect.Height/ih)
	w, h := iw*scale, ih*scale

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(rect.X+(rect.Width-w)/2, rect.Y+(rect.Height-h)/2)
	op.ColorScale.ScaleAlpha(float32(alpha))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
}

// image returns the GPU image for ref, uploading a decoded image on first
// use.
func (r *renderer) image(ref string) *ebiten.Image {
	if ref == "" {
		return nil
	}
	if img, ok := r.images[ref]; ok {
		return img
	}
	decoded, ok := r.loader.Image(ref)
	if !ok {
		return nil
	}
	img := ebiten.NewImageFromImage(decoded)
	r.images[ref] = img
	return img
}

// drawText wraps s to rect's width and draws it from rect's top edge.
func (r *renderer) drawText(dst *ebiten.Image, s string, rect folio.Rect, style textStyle, c folio.Color, alpha float64, align text.Align) {
	if s == "" {
		return
	}
	face := r.fonts.face(style)
	lh := lineHeight(face)
	lines := wrapText(s, rect.Width, func(line string) float64 { return text.Advance(line, face) })

	y := rect.Y
	if align == text.AlignCenter {
		y = rect.Y + (rect.Height-lh*float64(len(lines)))/2
	}
	for _, line := range lines {
		op := &text.DrawOptions{}
		op.LayoutOptions.PrimaryAlign = align
		x := rect.X
		if align == text.AlignCenter {
			x = rect.X + rect.Width/2
		}
		op.GeoM.Translate(x, y)
		op.ColorScale.ScaleWithColor(toRGBA(c, alpha))
		text.Draw(dst, line, face, op)
		y += lh
	}
}

// drawTrail paints the particles and the follower ball above the page.
func (r *renderer) drawTrail(dst *ebiten.Image, pal palette) {
	digitFace := r.fonts.face(styleSmall)
	for _, el := range r.page.Trail().Children() {
		st := r.anims.State(el)
		x, _ := el.VarFloat("--x")
		y, _ := el.VarFloat("--y")
		size, _ := el.VarFloat("--size")
		dx, _ := el.VarFloat("--dx")
		dy, _ := el.VarFloat("--dy")
		x += dx * st.eased
		y += dy * st.eased
		fade := 1 - st.progress

		if el.HasClass("digit") {
			op := &text.DrawOptions{}
			op.LayoutOptions.PrimaryAlign = text.AlignCenter
			op.GeoM.Scale(size/14, size/14)
			op.GeoM.Translate(x, y)
			op.ColorScale.ScaleWithColor(toRGBA(pal.accent, fade*0.9))
			text.Draw(dst, el.Text(), digitFace, op)
			continue
		}
		c := pal.hi.Blend(pal.lo, st.progress)
		rad := size / 2 * (1 - 0.4*st.progress)
		vector.DrawFilledCircle(dst, float32(x), float32(y), float32(rad), toRGBA(c, fade*0.8), true)
	}

	ball := r.doc.ByID("cursor-ball")
	if ball == nil {
		return
	}
	bx, okX := ball.VarFloat("--ball-x")
	by, okY := ball.VarFloat("--ball-y")
	if okX && okY {
		vector.DrawFilledCircle(dst, float32(bx), float32(by), ballSize/2, toRGBA(pal.lo, 0.55), true)
	}
}

// drawIcon draws symbols the Go fonts lack as vector shapes over a button
// whose background is bg. It reports whether s was one of them.
func drawIcon(dst *ebiten.Image, s string, rect folio.Rect, c, bg color.NRGBA) bool {
	cx, cy := float32(rect.X+rect.Width/2), float32(rect.Y+rect.Height/2)
	u := float32(math.Min(rect.Width, rect.Height) / 4)
	switch s {
	case "☰":
		for i := -1; i <= 1; i++ {
			y := cy + float32(i)*u*0.8
			vector.StrokeLine(dst, cx-u, y, cx+u, y, 2, c, true)
		}
	case "✕", "×":
		vector.StrokeLine(dst, cx-u, cy-u, cx+u, cy+u, 2, c, true)
		vector.StrokeLine(dst, cx-u, cy+u, cx+u, cy-u, 2, c, true)
	case "‹":
		vector.StrokeLine(dst, cx+u*0.5, cy-u, cx-u*0.5, cy, 2, c, true)
		vector.StrokeLine(dst, cx-u*0.5, cy, cx+u*0.5, cy+u, 2, c, true)
	case "›":
		vector.StrokeLine(dst, cx-u*0.5, cy-u, cx+u*0.5, cy, 2, c, true)
		vector.StrokeLine(dst, cx+u*0.5, cy, cx-u*0.5, cy+u, 2, c, true)
	case "☀":
		vector.DrawFilledCircle(dst, cx, cy, u*0.55, c, true)
		for i := range 8 {
			a := float64(i) * math.Pi / 4
			sin, cos := math.Sincos(a)
			vector.StrokeLine(dst, cx+float32(cos)*u*0.8, cy+float32(sin)*u*0.8, cx+float32(cos)*u*1.15, cy+float32(sin)*u*1.15, 1.5, c, true)
		}
	case "☾":
		vector.DrawFilledCircle(dst, cx, cy, u, c, true)
		vector.DrawFilledCircle(dst, cx+u*0.45, cy-u*0.3, u*0.85, bg, true)
	default:
		return false
	}
	return true
}
