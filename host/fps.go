package host

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsWidget displays the current FPS and TPS, redrawn every ~0.5 seconds.
type fpsWidget struct {
	img        *ebiten.Image
	lastUpdate float64
}

func newFPSWidget() *fpsWidget {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	w := &fpsWidget{img: ebiten.NewImage(100, 32)}
	w.lastUpdate = 0.5
	return w
}

func (w *fpsWidget) Update(dt float64) {
	w.lastUpdate += dt
	if w.lastUpdate < 0.5 {
		return
	}
	w.lastUpdate = 0

	w.img.Clear()
	// Semi-transparent background for readability
	w.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(w.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

// Draw places the widget at the bottom-left corner.
func (w *fpsWidget) Draw(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(8, float64(screen.Bounds().Dy()-40))
	screen.DrawImage(w.img, op)
}
