package main

import (
	"bytes"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Common colors used in rendering
var (
	colorWhite    = color.RGBA{255, 255, 255, 255}
	colorGray     = color.RGBA{180, 180, 180, 255}
	colorYellow   = color.RGBA{255, 255, 100, 255}
	colorErrorBg  = color.RGBA{120, 30, 30, 255}
	colorSelected = color.RGBA{100, 200, 255, 255}
	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorDark   = color.RGBA{0, 0, 0, 200}
)

// Global font source for overlays and error images
var globalFontSource *text.GoTextFaceSource

// InitGraphics loads the overlay font
func InitGraphics() error {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return err
	}
	globalFontSource = s
	return nil
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

// CreateErrorImage creates an error placeholder image with filename and error message
func CreateErrorImage(width, height int, filename, errorMsg string) *ebiten.Image {
	if width <= 0 || height <= 0 {
		width, height = 400, 300
	}

	errorImg := ebiten.NewImage(width, height)
	errorImg.Fill(colorErrorBg)

	// White border
	DrawFilledRect(errorImg, 0, 0, float64(width), 3, colorWhite)
	DrawFilledRect(errorImg, 0, float64(height-3), float64(width), 3, colorWhite)
	DrawFilledRect(errorImg, 0, 0, 3, float64(height), colorWhite)
	DrawFilledRect(errorImg, float64(width-3), 0, 3, float64(height), colorWhite)

	if globalFontSource == nil {
		return errorImg
	}

	errorFont := &text.GoTextFace{
		Source: globalFontSource,
		Size:   20.0,
	}

	lines := []string{"ERROR", "File: " + filepath.Base(filename), "Reason: " + errorMsg}
	for i, line := range lines {
		DrawText(errorImg, truncateText(line, (width-20)/10), errorFont, 10, float64(30*(i+1)), colorWhite)
	}

	return errorImg
}

// truncateText shortens s to at most maxChars runes, marking the cut with "..."
func truncateText(s string, maxChars int) string {
	r := []rune(s)
	if maxChars < 4 || len(r) <= maxChars {
		return s
	}
	return string(r[:maxChars-3]) + "..."
}
