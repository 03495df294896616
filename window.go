package main

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// AppEvent is an event addressed to the presentation layer
type AppEvent struct {
	Name    string
	Payload any
}

// ebitenWindow implements Window on top of ebiten's window functions.
// Emitted events are queued for the game loop.
type ebitenWindow struct {
	events chan AppEvent
}

func newEbitenWindow(buffer int) *ebitenWindow {
	return &ebitenWindow{events: make(chan AppEvent, buffer)}
}

func (w *ebitenWindow) Minimize() error {
	ebiten.MinimizeWindow()
	return nil
}

func (w *ebitenWindow) IsMaximized() (bool, error) {
	if ebiten.WindowResizingMode() != ebiten.WindowResizingModeEnabled {
		return false, errors.New("window is not resizable")
	}
	return ebiten.IsWindowMaximized(), nil
}

func (w *ebitenWindow) Maximize() error {
	ebiten.MaximizeWindow()
	return nil
}

func (w *ebitenWindow) Unmaximize() error {
	ebiten.RestoreWindow()
	return nil
}

func (w *ebitenWindow) IsFullscreen() (bool, error) {
	return ebiten.IsFullscreen(), nil
}

func (w *ebitenWindow) SetFullscreen(fullscreen bool) error {
	ebiten.SetFullscreen(fullscreen)
	return nil
}

// Emit queues an event without blocking; the file dialog calls it from its own goroutine
func (w *ebitenWindow) Emit(event string, payload any) error {
	select {
	case w.events <- AppEvent{Name: event, Payload: payload}:
		return nil
	default:
		return fmt.Errorf("event queue full, dropping %s", event)
	}
}

// Events returns the queue drained by the game loop
func (w *ebitenWindow) Events() <-chan AppEvent {
	return w.events
}
