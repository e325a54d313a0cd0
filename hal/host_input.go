//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// pollInput reads pointer, wheel and key state for the current tick.
func pollInput(in *Input) {
	x, y := ebiten.CursorPosition()
	in.CursorX, in.CursorY = float64(x), float64(y)
	in.Left = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.Middle = ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)

	_, wy := ebiten.Wheel()
	in.WheelY = wy

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		in.Reset = true
	}
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		in.CloseRequested = true
	}
}
