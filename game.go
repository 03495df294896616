package main

import (
	"fmt"
	"log"
	"math"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 3 * time.Second

	// Delay before a burst of directory changes triggers a rescan
	watchDebounce = 300 * time.Millisecond

	gridPadding = 6
)

// Game is the presentation layer: it relays accelerators to the router,
// feeds router events to the session and draws the current entry.
type Game struct {
	config     Config
	labels     *Labels
	menu       []Submenu
	classifier *Classifier
	session    *Session
	router     *Router
	window     *ebitenWindow
	keys       *KeybindingManager
	mouse      *MousebindingManager
	textures   *TextureCache
	watcher    *DirWatcher

	screenW, screenH int

	shownPath string
	shownInfo string

	showHelp       bool
	overlayMessage string
	overlayTime    time.Time
	quit           bool
}

// NewGame wires the session, router and host window together
func NewGame(config Config, labels *Labels, classifier *Classifier) (*Game, error) {
	ignore, err := CompileIgnorePatterns(config.IgnorePatterns)
	if err != nil {
		return nil, err
	}

	window := newEbitenWindow(32)
	gateway := NewGateway(classifier, newNativePicker(), newOSTrasher())

	g := &Game{
		config:     config,
		labels:     labels,
		menu:       MenuLayout(labels, runtime.GOOS),
		classifier: classifier,
		window:     window,
		keys:       NewKeybindingManager(config.Keybindings),
		mouse:      NewMousebindingManager(config.Mousebindings, config.MouseSettings),
		textures:   NewTextureCache(config.CacheSize),
		screenW:    config.WindowWidth,
		screenH:    config.WindowHeight,
	}
	g.session = NewSession(CatalogOptions{
		Classifier: classifier,
		SortMethod: config.SortMethod,
		Ignore:     ignore,
	}, gateway)
	g.router = NewRouter(window, gateway, func(int) { g.quit = true }, OpenExternal)

	if config.WatchDirectory {
		watcher, err := NewDirWatcher(watchDebounce)
		if err != nil {
			log.Printf("Warning: directory watching disabled: %v", err)
		} else {
			g.watcher = watcher
			g.session.OnDirectoryChange = func(dir string) {
				if err := watcher.Watch(dir); err != nil {
					log.Printf("Warning: %v", err)
				}
			}
		}
	}

	return g, nil
}

// Open starts a session on path, as if it had been chosen in the file dialog
func (g *Game) Open(path string) {
	g.session.Open(path)
}

// Close releases the directory watcher
func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			debugLog("Closing watcher: %v", err)
		}
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	for _, id := range g.keys.PressedActions() {
		g.router.Route(id)
	}
	for _, id := range g.mouse.PressedActions() {
		g.router.Route(id)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.showHelp = !g.showHelp
	}

	g.drainEvents()
	g.session.Poll()

	if err := g.session.TakeError(); err != nil {
		g.showOverlayMessage(fmt.Sprintf("%s: %v", errorKindName(err), err))
	}

	if g.session.IsGrid() {
		g.handleGridClick()
	}
	g.syncCurrent()

	if g.quit {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) drainEvents() {
	var changes <-chan string
	if g.watcher != nil {
		changes = g.watcher.Changes()
	}

	for {
		select {
		case ev := <-g.window.Events():
			debugLog("Event %s %v", ev.Name, ev.Payload)
			g.session.HandleEvent(ev.Name, ev.Payload)
		case dir := <-changes:
			g.session.DirectoryChanged(dir)
		default:
			return
		}
	}
}

// syncCurrent reacts to a change of the shown entry
func (g *Game) syncCurrent() {
	cur, ok := g.session.Current()
	path := ""
	if ok {
		path = cur.Path
	}
	if path == g.shownPath {
		return
	}

	catalog := g.session.Catalog()
	if g.shownPath != "" {
		if _, still := catalog.IndexOf(g.shownPath); !still {
			g.textures.Forget(g.shownPath)
		}
	}
	g.shownPath = path

	if !ok {
		g.shownInfo = ""
		ebiten.SetWindowTitle("tauview")
		return
	}

	ebiten.SetWindowTitle(cur.FileName() + " - tauview")
	if info, err := g.classifier.Describe(cur.Path); err == nil {
		g.shownInfo = info.String()
	} else {
		g.shownInfo = cur.Format.String()
	}

	idx := g.session.Index()
	var neighbors []string
	if next, ok := catalog.Next(idx); ok {
		neighbors = append(neighbors, catalog.Entries[next].Path)
	}
	if prev, ok := catalog.Prev(idx); ok {
		neighbors = append(neighbors, catalog.Entries[prev].Path)
	}
	g.textures.Preload(neighbors...)
}

func (g *Game) showOverlayMessage(message string) {
	g.overlayMessage = message
	g.overlayTime = time.Now()
}

// gridGeometry returns the cell size and the first visible row so that the
// current entry stays on screen
func (g *Game) gridGeometry() (cell, firstRow, rows int) {
	cols := g.config.GridColumns
	cell = g.screenW / cols
	if cell <= 0 {
		return 0, 0, 0
	}
	rows = int(math.Max(1, float64(g.screenH/cell)))
	curRow := 0
	if idx := g.session.Index(); idx > 0 {
		curRow = idx / cols
	}
	if curRow >= rows {
		firstRow = curRow - rows + 1
	}
	return cell, firstRow, rows
}

func (g *Game) handleGridClick() {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	cell, firstRow, _ := g.gridGeometry()
	if cell == 0 {
		return
	}
	x, y := ebiten.CursorPosition()
	col, row := x/cell, y/cell
	if col >= g.config.GridColumns {
		return
	}
	g.session.Select((firstRow+row)*g.config.GridColumns + col)
}

func (g *Game) Draw(screen *ebiten.Image) {
	catalog := g.session.Catalog()
	cur, ok := g.session.Current()

	switch {
	case !ok:
		g.drawEmptyState(screen)
	case g.session.IsGrid():
		g.drawGrid(screen, catalog)
	default:
		img := g.textures.Get(cur.Path)
		w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
		drawImageFit(screen, img, 0, 0, w, h, ebiten.IsFullscreen())
	}

	if ok {
		g.drawInfo(screen, fmt.Sprintf("%d / %d  %s  %s", g.session.Index()+1, catalog.Len(), cur.FileName(), g.shownInfo))
	}
	if g.showHelp {
		g.drawHelpOverlay(screen)
	}
	if g.overlayMessage != "" && time.Since(g.overlayTime) < overlayMessageDuration {
		g.drawOverlayMessage(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func (g *Game) font() *text.GoTextFace {
	return &text.GoTextFace{Source: globalFontSource, Size: g.config.FontSize}
}

// drawImageFit draws img centered in the region, shrinking it to fit.
// Small images are only enlarged when upscale is set.
func drawImageFit(screen, img *ebiten.Image, x, y, maxW, maxH int, upscale bool) {
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	if iw == 0 || ih == 0 || maxW <= 0 || maxH <= 0 {
		return
	}

	scale := math.Min(float64(maxW)/float64(iw), float64(maxH)/float64(ih))
	if scale > 1 && !upscale {
		scale = 1
	}

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(scale, scale)
	scaledW, scaledH := float64(iw)*scale, float64(ih)*scale
	op.GeoM.Translate(float64(x)+float64(maxW)/2-scaledW/2, float64(y)+float64(maxH)/2-scaledH/2)
	screen.DrawImage(img, op)
}

func (g *Game) drawGrid(screen *ebiten.Image, catalog Catalog) {
	cell, firstRow, rows := g.gridGeometry()
	if cell == 0 {
		return
	}
	cols := g.config.GridColumns
	first := firstRow * cols
	last := min(catalog.Len(), first+rows*cols)

	paths := catalog.Paths()
	var missing []string
	for i := first; i < last; i++ {
		x := (i % cols) * cell
		y := (i/cols - firstRow) * cell
		if i == g.session.Index() {
			DrawFilledRect(screen, float64(x), float64(y), float64(cell), float64(cell), colorSelected)
		}
		path := paths[i]
		img, ok := g.textures.Peek(path)
		if !ok {
			missing = append(missing, path)
			DrawFilledRect(screen, float64(x+gridPadding), float64(y+gridPadding),
				float64(cell-2*gridPadding), float64(cell-2*gridPadding), bgColorLight)
			continue
		}
		drawImageFit(screen, img, x+gridPadding, y+gridPadding, cell-2*gridPadding, cell-2*gridPadding, true)
	}
	g.textures.Preload(missing...)
}

func (g *Game) drawEmptyState(screen *ebiten.Image) {
	if globalFontSource == nil {
		return
	}
	font := g.font()
	hint := g.labels.Label("open") + "  (Ctrl+O)"
	w, h := text.Measure(hint, font, 0)
	DrawText(screen, hint, font,
		(float64(screen.Bounds().Dx())-w)/2, (float64(screen.Bounds().Dy())-h)/2, colorGray)
}

func (g *Game) drawInfo(screen *ebiten.Image, info string) {
	if globalFontSource == nil {
		return
	}
	font := g.font()
	textWidth, textHeight := text.Measure(info, font, 0)

	// Bottom right corner on a semi-transparent background
	padding, bgPadding := 10.0, 5.0
	textX := float64(screen.Bounds().Dx()) - textWidth - padding
	textY := float64(screen.Bounds().Dy()) - textHeight - padding
	DrawFilledRect(screen, textX-bgPadding, textY-bgPadding, textWidth+bgPadding*2, textHeight+bgPadding*2, bgColorLight)
	DrawText(screen, info, font, textX, textY, colorWhite)
}

func (g *Game) drawHelpOverlay(screen *ebiten.Image) {
	if globalFontSource == nil {
		return
	}
	font := g.font()
	lineHeight := g.config.FontSize * 1.4

	DrawFilledRect(screen, 0, 0, float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy()), bgColorDark)

	x, y := 20.0, 20.0
	for _, sub := range g.menu {
		DrawText(screen, sub.Title, font, x, y, colorYellow)
		y += lineHeight
		for _, item := range sub.Items {
			if item.Separator {
				continue
			}
			DrawText(screen, item.Label, font, x+20, y, colorWhite)
			if item.Accelerator != "" {
				DrawText(screen, item.Accelerator, font, x+320, y, colorGray)
			}
			y += lineHeight
		}
		y += lineHeight / 2
	}
}

func (g *Game) drawOverlayMessage(screen *ebiten.Image) {
	if globalFontSource == nil {
		return
	}
	font := g.font()
	message := truncateText(g.overlayMessage, 120)
	textWidth, textHeight := text.Measure(message, font, 0)

	padding := 20.0
	boxWidth := textWidth + padding*2
	boxHeight := textHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxWidth) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxHeight) / 2

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)
	DrawText(screen, message, font, boxX+padding, boxY+padding, colorWhite)
}
