package main

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
)

func init() {
	// The handler's own output would otherwise end up on our terminal
	browser.Stdout = io.Discard
}

// OpenExternal opens a URL with the default browser
func OpenExternal(target string) error {
	if err := browser.OpenURL(target); err != nil {
		return fmt.Errorf("failed to open '%s': %w", target, err)
	}
	return nil
}
