package host

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// textStyle selects a face from the fontSet.
type textStyle uint8

const (
	styleBody textStyle = iota
	styleSmall
	styleHeading
	styleTitle
	styleHero
	styleIcon
)

type faceSpec struct {
	bold bool
	size float64
}

var faceSpecs = map[textStyle]faceSpec{
	styleBody:    {false, 17},
	styleSmall:   {false, 14},
	styleHeading: {true, 22},
	styleTitle:   {true, 34},
	styleHero:    {true, 44},
	styleIcon:    {true, 24},
}

// fontSet holds one face per style, built from the Go fonts.
type fontSet struct {
	faces map[textStyle]*text.GoTextFace
}

func loadFonts() (*fontSet, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	fs := &fontSet{faces: make(map[textStyle]*text.GoTextFace, len(faceSpecs))}
	for style, spec := range faceSpecs {
		src := regular
		if spec.bold {
			src = bold
		}
		fs.faces[style] = &text.GoTextFace{Source: src, Size: spec.size}
	}
	return fs, nil
}

func (fs *fontSet) face(s textStyle) *text.GoTextFace {
	return fs.faces[s]
}

// lineHeight returns the face's ascent, descent and line gap.
func lineHeight(f *text.GoTextFace) float64 {
	m := f.Metrics()
	return m.HAscent + m.HDescent + m.HLineGap
}

// wrapText breaks s into lines no wider than maxWidth at spaces. Explicit
// newlines are kept. A single word wider than maxWidth gets its own line.
func wrapText(s string, maxWidth float64, advance func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if maxWidth > 0 && advance(candidate) > maxWidth {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}
