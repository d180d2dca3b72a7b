//go:build !tinygo && cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

func (k *hostKeyboard) poll() {
	emit := func(key ebiten.Key, code KeyCode) {
		if !inpututil.IsKeyJustPressed(key) {
			return
		}
		select {
		case k.ch <- KeyEvent{Code: code, Press: true}:
		default:
		}
	}

	emit(ebiten.KeyArrowUp, KeyUp)
	emit(ebiten.KeyArrowDown, KeyDown)
	emit(ebiten.KeyArrowLeft, KeyLeft)
	emit(ebiten.KeyArrowRight, KeyRight)
	emit(ebiten.KeyEnter, KeyEnter)
	emit(ebiten.KeyEscape, KeyEscape)
	emit(ebiten.KeySpace, KeySpace)
}
