package folio

import "testing"

func TestDictionaryLookup(t *testing.T) {
	d := testDictionary()
	tests := []struct {
		lang Language
		path string
		want string
		ok   bool
	}{
		{"en", "nav.home", "Home", true},
		{"es", "nav.home", "Inicio", true},
		{"en", "intro.roles.1", "Y", true},
		{"en", "projects.items.0.alt", "Gloria2 dashboard", true},
		{"en", "projects.items.1.alt", "", false},
		{"en", "projects.items.-1.alt", "", false},
		{"en", "nav.home.deeper", "", false},
		{"en", "nav", "", false},
		{"en", "", "", false},
		{"fr", "nav.home", "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.lang)+":"+tt.path, func(t *testing.T) {
			got, ok := d.String(tt.lang, tt.path)
			if got != tt.want || ok != tt.ok {
				t.Errorf("String = %q, %v, want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDictionaryRoles(t *testing.T) {
	prefix, roles := testDictionary().Roles("es")
	if prefix != "Hola, soy " || len(roles) != 2 || roles[0] != "Ñu" {
		t.Errorf("Roles = %q, %q", prefix, roles)
	}
	if _, ok := testDictionary().Strings("en", "nav"); ok {
		t.Error("Strings on a map succeeded")
	}
}

func newTestLanguageSwitch(t *testing.T) (*LanguageSwitch, *Document, *AppState) {
	t.Helper()
	doc, _ := newTestDoc()
	toggle := addEl(doc.Body(), "button", "language-toggle", Rect{Width: 40, Height: 40})
	toggle.Focusable = true
	home := addEl(doc.Body(), "a", "", Rect{})
	home.SetAttr("data-i18n", "nav.home")
	home.SetText("Home")
	img := addEl(doc.Body(), "img", "", Rect{})
	img.SetAttr("data-i18n-alt", "projects.items.0.alt")
	missing := addEl(doc.Body(), "span", "missing", Rect{})
	missing.SetAttr("data-i18n", "no.such.key")
	missing.SetText("keep me")
	state := &AppState{Language: "en"}
	s := NewLanguageSwitch(doc, state, testDictionary(), []Language{"en", "es"})
	return s, doc, state
}

func TestLanguageSwitchApply(t *testing.T) {
	s, doc, state := newTestLanguageSwitch(t)
	if !s.Apply("es") {
		t.Fatal("Apply(es) failed")
	}
	if state.Language != "es" {
		t.Errorf("state.Language = %q", state.Language)
	}
	if v, _ := doc.Root().Attr("lang"); v != "es" {
		t.Errorf("lang = %q, want es", v)
	}
	if doc.Title() != "Portafolio" {
		t.Errorf("title = %q", doc.Title())
	}
	if doc.Query() != nil {
		t.Error("empty class query matched an element")
	}
	texts := doc.Root().QueryAttr("data-i18n")
	if texts[0].Text() != "Inicio" {
		t.Errorf("nav.home = %q, want Inicio", texts[0].Text())
	}
	if doc.ByID("missing").Text() != "keep me" {
		t.Error("unresolved key overwrote text")
	}
	alt, _ := doc.Root().QueryAttr("data-i18n-alt")[0].Attr("alt")
	if alt != "Panel de Gloria2" {
		t.Errorf("alt = %q", alt)
	}

	toggle := doc.ByID("language-toggle")
	if toggle.Text() != "ES" {
		t.Errorf("toggle text = %q, want ES", toggle.Text())
	}
	if v, _ := toggle.Attr("aria-pressed"); v != "true" {
		t.Errorf("aria-pressed = %q, want true", v)
	}
	if _, ok := toggle.Attr("title"); ok {
		t.Error("title kept for a language without tooltip")
	}

	if s.Apply("fr") {
		t.Error("Apply(fr) succeeded")
	}
	if state.Language != "es" {
		t.Error("unknown language changed state")
	}
}

func TestLanguageToggleCycles(t *testing.T) {
	s, doc, state := newTestLanguageSwitch(t)
	s.Apply("en")
	toggle := doc.ByID("language-toggle")
	if v, _ := toggle.Attr("title"); v != "Switch to Spanish" {
		t.Errorf("title = %q", v)
	}
	doc.Click(toggle)
	if state.Language != "es" {
		t.Errorf("after click: %q, want es", state.Language)
	}
	doc.Click(toggle)
	if state.Language != "en" {
		t.Errorf("after second click: %q, want en", state.Language)
	}
	if v, _ := toggle.Data("language"); v != "en" {
		t.Errorf("data-language = %q", v)
	}
}

func TestLanguageSwitchResetsTyping(t *testing.T) {
	s, doc, _ := newTestLanguageSwitch(t)
	addEl(doc.Body(), "h1", "intro", Rect{})
	ta, _ := NewTypingAnimator(doc, testDictionary(), "en", DefaultTypingDurations())
	for now, i := epoch, 0; i < 4; i++ {
		now = ta.Step(now)
	}
	s.Coordinate(ta, nil, nil, nil)
	s.Apply("es")
	if ta.Language() != "es" || ta.Text() != "" {
		t.Errorf("typing after switch: %q %q", ta.Language(), ta.Text())
	}
}
