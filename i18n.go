package folio

import (
	"strconv"
	"strings"
)

// Dictionary maps a language to a nested structure of keyed strings and
// ordered lists, as decoded from YAML: map[string]any and []any nodes with
// string leaves.
type Dictionary map[Language]map[string]any

// Has reports whether lang has an entry.
func (d Dictionary) Has(lang Language) bool {
	_, ok := d[lang]
	return ok
}

// Lookup walks a dotted path in lang's dictionary. Numeric segments index
// into lists. Any miss, type mismatch or out-of-range index returns false.
func (d Dictionary) Lookup(lang Language, path string) (any, bool) {
	root, ok := d[lang]
	if !ok || path == "" {
		return nil, false
	}
	var cur any = root
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		case []string:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
		if cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// String looks up a string leaf.
func (d Dictionary) String(lang Language, path string) (string, bool) {
	v, ok := d.Lookup(lang, path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Strings looks up a list of strings. Non-string items make the lookup fail.
func (d Dictionary) Strings(lang Language, path string) ([]string, bool) {
	v, ok := d.Lookup(lang, path)
	if !ok {
		return nil, false
	}
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// Roles returns intro.prefix and intro.roles for lang.
func (d Dictionary) Roles(lang Language) (string, []string) {
	prefix, _ := d.String(lang, "intro.prefix")
	roles, _ := d.Strings(lang, "intro.roles")
	return prefix, roles
}

type i18nBinding struct {
	el  *Element
	key string
}

// LanguageSwitch re-applies every localized string on a language change and
// resets the language-dependent components. It is the single writer of
// AppState.Language.
type LanguageSwitch struct {
	doc    *Document
	state  *AppState
	dict   Dictionary
	order  []Language
	toggle *Element

	texts  []i18nBinding
	alts   []i18nBinding
	labels []i18nBinding

	typing   *TypingAnimator
	lightbox *Lightbox
	nav      *NavMenu
	theme    *ThemeController
}

// NewLanguageSwitch collects the data-i18n, data-i18n-alt and
// data-i18n-aria-label bindings and mounts the #language-toggle button,
// which cycles through order.
func NewLanguageSwitch(doc *Document, state *AppState, dict Dictionary, order []Language) *LanguageSwitch {
	s := &LanguageSwitch{
		doc:    doc,
		state:  state,
		dict:   dict,
		order:  order,
		toggle: doc.ByID("language-toggle"),
	}
	collect := func(attr string) []i18nBinding {
		var out []i18nBinding
		for _, el := range doc.Root().QueryAttr(attr) {
			key, _ := el.Attr(attr)
			out = append(out, i18nBinding{el: el, key: key})
		}
		return out
	}
	s.texts = collect("data-i18n")
	s.alts = collect("data-i18n-alt")
	s.labels = collect("data-i18n-aria-label")

	if s.toggle != nil {
		s.toggle.On(EventClick, func(*Event) { s.Apply(s.Next()) })
	}
	return s
}

// Coordinate registers the components reset by Apply. Any may be nil.
func (s *LanguageSwitch) Coordinate(typing *TypingAnimator, lb *Lightbox, nav *NavMenu, theme *ThemeController) {
	s.typing = typing
	s.lightbox = lb
	s.nav = nav
	s.theme = theme
}

// Next returns the language after the current one in the cycle order.
func (s *LanguageSwitch) Next() Language {
	if len(s.order) == 0 {
		return s.state.Language
	}
	for i, l := range s.order {
		if l == s.state.Language {
			return s.order[(i+1)%len(s.order)]
		}
	}
	return s.order[0]
}

// Apply switches to lang. Unknown languages change nothing and return false.
// Bindings whose key does not resolve to a string are left as they are.
func (s *LanguageSwitch) Apply(lang Language) bool {
	if !s.dict.Has(lang) {
		s.doc.debugf("i18n: unknown language %q", lang)
		return false
	}
	s.state.Language = lang

	htmlLang, ok := s.dict.String(lang, "htmlLang")
	if !ok || htmlLang == "" {
		htmlLang = string(lang)
	}
	s.doc.Root().SetAttr("lang", htmlLang)
	if title, ok := s.dict.String(lang, "documentTitle"); ok {
		s.doc.SetTitle(title)
	}

	for _, b := range s.texts {
		if v, ok := s.dict.String(lang, b.key); ok {
			b.el.SetText(v)
		}
	}
	for _, b := range s.alts {
		if v, ok := s.dict.String(lang, b.key); ok {
			b.el.SetAttr("alt", v)
		}
	}
	for _, b := range s.labels {
		if v, ok := s.dict.String(lang, b.key); ok {
			b.el.SetAttr("aria-label", v)
		}
	}
	s.applyToggle(lang)

	if s.nav != nil {
		s.nav.RefreshLabel()
	}
	if s.theme != nil {
		s.theme.RefreshLabel()
	}
	if s.lightbox != nil {
		s.lightbox.RefreshLabels()
	}
	s.typing.Reset(lang)
	return true
}

func (s *LanguageSwitch) applyToggle(lang Language) {
	if s.toggle == nil {
		return
	}
	text, _ := s.dict.String(lang, "languageToggle.text")
	text = strings.TrimSpace(text)
	if text == "" {
		text = strings.ToUpper(string(lang))
	}
	s.toggle.SetText(text)
	if label, ok := s.dict.String(lang, "languageToggle.label"); ok {
		s.toggle.SetAttr("aria-label", label)
	}
	if tip, ok := s.dict.String(lang, "languageToggle.tooltip"); ok && tip != "" {
		s.toggle.SetAttr("title", tip)
	} else {
		s.toggle.RemoveAttr("title")
	}
	pressed := "false"
	if len(s.order) > 0 && lang != s.order[0] {
		pressed = "true"
	}
	s.toggle.SetAttr("aria-pressed", pressed)
	s.toggle.SetData("language", string(lang))
}
