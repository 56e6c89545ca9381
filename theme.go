package folio

// ThemeController toggles the dark theme: the body class, the toggle glyph
// and label, and the avatar source. It is the single writer of
// AppState.Theme. Components that depend on the theme are refreshed in
// place: the palette is re-applied and the trail cadence recomputed.
type ThemeController struct {
	doc     *Document
	state   *AppState
	dict    Dictionary
	toggle  *Element
	avatar  *Element
	palette *PaletteTracker
	trail   *TrailEmitter
}

// NewThemeController mounts on #theme-toggle and the .avatar image, both
// optional, and applies the current theme.
func NewThemeController(doc *Document, state *AppState, dict Dictionary, palette *PaletteTracker, trail *TrailEmitter) *ThemeController {
	c := &ThemeController{
		doc:     doc,
		state:   state,
		dict:    dict,
		toggle:  doc.ByID("theme-toggle"),
		avatar:  doc.Query("avatar"),
		palette: palette,
		trail:   trail,
	}
	c.apply()
	if c.toggle != nil {
		c.toggle.On(EventClick, func(*Event) { c.Toggle() })
	}
	return c
}

// Toggle flips between light and dark.
func (c *ThemeController) Toggle() {
	if c.state.Theme == ThemeDark {
		c.Set(ThemeLight)
	} else {
		c.Set(ThemeDark)
	}
}

// Set switches to theme t and refreshes the palette and trail cadence.
func (c *ThemeController) Set(t Theme) {
	c.state.Theme = t
	c.apply()
	if c.trail != nil {
		c.trail.Refresh(c.doc.Now())
	}
}

func (c *ThemeController) apply() {
	dark := c.state.Theme == ThemeDark
	c.doc.Body().ToggleClass("dark", dark)
	if c.toggle != nil {
		if dark {
			c.toggle.SetText("☾")
		} else {
			c.toggle.SetText("☀")
		}
	}
	c.RefreshLabel()

	if c.avatar != nil {
		src, _ := c.avatar.Attr("src")
		light, ok := c.avatar.Data("lightSrc")
		if !ok || light == "" {
			light = src
			c.avatar.SetData("lightSrc", src)
		}
		darkSrc, ok := c.avatar.Data("darkSrc")
		if !ok || darkSrc == "" {
			darkSrc = light
		}
		target := light
		if dark {
			target = darkSrc
		}
		if target != "" {
			c.avatar.SetAttr("src", target)
		}
	}
	if c.palette != nil {
		c.palette.Apply()
	}
}

// RefreshLabel re-applies the toggle's localized label: the action it
// performs, in the current language.
func (c *ThemeController) RefreshLabel() {
	if c == nil || c.toggle == nil {
		return
	}
	key := "themeToggle.toDark"
	if c.state.Theme == ThemeDark {
		key = "themeToggle.toLight"
	}
	if label, ok := c.dict.String(c.state.Language, key); ok {
		c.toggle.SetAttr("aria-label", label)
	}
}
