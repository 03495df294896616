package main

import (
	"log"
	"os"
)

// Window is the host window the router acts on
type Window interface {
	Minimize() error
	IsMaximized() (bool, error)
	Maximize() error
	Unmaximize() error
	IsFullscreen() (bool, error)
	SetFullscreen(fullscreen bool) error
	Emit(event string, payload any) error
}

// FileDialog delivers the result of an open-file dialog exactly once
type FileDialog interface {
	PickFile(filter FileFilter, done func(PickResult))
}

// Router turns menu actions into presentation events or window operations.
// It holds no state beyond its collaborators.
type Router struct {
	window  Window
	dialog  FileDialog
	exit    func(code int)
	openURL func(url string) error
}

// NewRouter creates a Router. A nil exit terminates the process.
func NewRouter(window Window, dialog FileDialog, exit func(int), openURL func(string) error) *Router {
	if exit == nil {
		exit = os.Exit
	}
	if openURL == nil {
		openURL = OpenExternal
	}
	return &Router{
		window:  window,
		dialog:  dialog,
		exit:    exit,
		openURL: openURL,
	}
}

// Route handles a raw menu identifier; unknown identifiers are ignored
func (r *Router) Route(id string) {
	action := ParseMenuAction(id)
	if action == ActionUnknown {
		debugLog("Ignoring unknown menu id %q", id)
		return
	}
	r.Dispatch(action)
}

// Dispatch executes a single menu action
func (r *Router) Dispatch(action MenuAction) {
	switch action {
	case ActionOpen:
		if r.dialog == nil {
			return
		}
		r.dialog.PickFile(ImageFileFilter(), func(result PickResult) {
			if result.Err != nil {
				log.Printf("Error: File dialog failed: %v", result.Err)
				return
			}
			if !result.Selected() {
				debugLog("File dialog cancelled")
				return
			}
			r.emit(EventOpen, result.Path)
		})
	case ActionClose:
		r.exit(0)
	case ActionNext, ActionPrev, ActionGrid, ActionRemove:
		def, _ := action.Definition()
		r.emit(def.Event, nil)
	case ActionMinimize:
		if err := r.window.Minimize(); err != nil {
			log.Printf("Warning: minimize failed: %v", err)
		}
	case ActionZoom:
		maximized, err := r.window.IsMaximized()
		if err != nil {
			debugLog("zoom: window state unavailable: %v", err)
			return
		}
		if maximized {
			err = r.window.Unmaximize()
		} else {
			err = r.window.Maximize()
		}
		if err != nil {
			log.Printf("Warning: zoom failed: %v", err)
		}
	case ActionFullscreen:
		fullscreen, err := r.window.IsFullscreen()
		if err != nil {
			debugLog("fullscreen: window state unavailable: %v", err)
			return
		}
		if err := r.window.SetFullscreen(!fullscreen); err != nil {
			log.Printf("Warning: fullscreen toggle failed: %v", err)
		}
	case ActionSupport:
		if err := r.openURL(supportURL); err != nil {
			log.Printf("Error: Failed to open %s: %v", supportURL, err)
		}
	default:
		debugLog("Ignoring menu action %d", action)
	}
}

func (r *Router) emit(event string, payload any) {
	if err := r.window.Emit(event, payload); err != nil {
		log.Printf("Error: Failed to emit %s event: %v", event, err)
	}
}
