package main

import "strings"

// MenuAction identifies a native menu item
type MenuAction int

const (
	ActionUnknown MenuAction = iota // Identifier from a newer menu; ignored
	ActionOpen
	ActionClose
	ActionNext
	ActionPrev
	ActionGrid
	ActionRemove
	ActionMinimize
	ActionZoom
	ActionFullscreen
	ActionSupport
)

// Events delivered to the presentation layer
const (
	EventOpen   = "open"
	EventNext   = "menu-next"
	EventPrev   = "menu-prev"
	EventGrid   = "menu-grid"
	EventRemove = "menu-remove"
)

const supportURL = "https://github.com/sprout2000/tauview#readme"

// ActionDefinition describes a menu action: its wire identifier, label,
// the event it emits (if any) and its default key and mouse bindings
type ActionDefinition struct {
	Action       MenuAction
	ID           string
	Label        string
	Event        string
	Keys         []string
	MouseActions []string
}

// actionDefinitions is the fixed action table, in menu order
var actionDefinitions = []ActionDefinition{
	{ActionOpen, "open", "open", "", []string{"Ctrl+KeyO"}, []string{}},
	{ActionRemove, "remove", "move_to_trash", EventRemove, []string{"Delete"}, []string{}},
	{ActionClose, "close", "close", "", []string{"Ctrl+KeyW", "Alt+F4"}, []string{}},
	{ActionNext, "next", "next_image", EventNext, []string{"KeyJ", "ArrowRight"}, []string{"WheelDown", "Forward"}},
	{ActionPrev, "prev", "prev_image", EventPrev, []string{"KeyK", "ArrowLeft"}, []string{"WheelUp", "Back"}},
	{ActionGrid, "grid", "toggle_grid", EventGrid, []string{"KeyH"}, []string{"MiddleClick"}},
	{ActionMinimize, "minimize", "minimize", "", []string{"Ctrl+KeyM"}, []string{}},
	{ActionZoom, "zoom", "zoom", "", []string{}, []string{}},
	{ActionFullscreen, "fullscreen", "toggle_fullscreen", "", []string{"F11"}, []string{"DoubleRightClick"}},
	{ActionSupport, "support", "support", "", []string{}, []string{}},
}

var actionsByID = func() map[string]ActionDefinition {
	m := make(map[string]ActionDefinition, len(actionDefinitions))
	for _, def := range actionDefinitions {
		m[def.ID] = def
	}
	return m
}()

// ParseMenuAction maps a native menu identifier to an action.
// Matching ignores case; the help item is registered as "Support" on some menus.
func ParseMenuAction(id string) MenuAction {
	if def, ok := actionsByID[strings.ToLower(strings.TrimSpace(id))]; ok {
		return def.Action
	}
	return ActionUnknown
}

// Definition returns the table entry for a
func (a MenuAction) Definition() (ActionDefinition, bool) {
	for _, def := range actionDefinitions {
		if def.Action == a {
			return def, true
		}
	}
	return ActionDefinition{}, false
}

func (a MenuAction) String() string {
	if def, ok := a.Definition(); ok {
		return def.ID
	}
	return "unknown"
}

// GetDefaultKeybindings returns a map of action ids to their default accelerators
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, def := range actionDefinitions {
		keybindings[def.ID] = def.Keys
	}
	return keybindings
}

// GetDefaultMousebindings returns a map of action ids to their default mouse bindings
func GetDefaultMousebindings() map[string][]string {
	mousebindings := make(map[string][]string)
	for _, def := range actionDefinitions {
		mousebindings[def.ID] = def.MouseActions
	}
	return mousebindings
}

// MenuItem is one entry of a submenu; Separator items carry nothing else
type MenuItem struct {
	Action      MenuAction
	Label       string
	Accelerator string
	Separator   bool
}

// Submenu is a titled group of menu items
type Submenu struct {
	Title string
	Items []MenuItem
}

func menuItem(labels *Labels, action MenuAction, accelerator string) MenuItem {
	def, _ := action.Definition()
	return MenuItem{Action: action, Label: labels.Label(def.Label), Accelerator: accelerator}
}

var separator = MenuItem{Separator: true}

// MenuLayout builds the localized File/View/Window/Help menus for goos
func MenuLayout(labels *Labels, goos string) []Submenu {
	closeKey, fullscreenKey := "Alt+F4", "F11"
	if goos == "darwin" {
		closeKey, fullscreenKey = "Cmd+W", "Cmd+Ctrl+F"
	}

	return []Submenu{
		{
			Title: labels.Label("file"),
			Items: []MenuItem{
				menuItem(labels, ActionOpen, "CmdOrCtrl+O"),
				separator,
				menuItem(labels, ActionRemove, "Delete"),
				separator,
				menuItem(labels, ActionClose, closeKey),
			},
		},
		{
			Title: labels.Label("view"),
			Items: []MenuItem{
				menuItem(labels, ActionNext, "J"),
				menuItem(labels, ActionPrev, "K"),
				separator,
				menuItem(labels, ActionGrid, "H"),
			},
		},
		{
			Title: labels.Label("window"),
			Items: []MenuItem{
				menuItem(labels, ActionMinimize, "CmdOrCtrl+M"),
				menuItem(labels, ActionZoom, ""),
				separator,
				menuItem(labels, ActionFullscreen, fullscreenKey),
			},
		},
		{
			Title: labels.Label("help"),
			Items: []MenuItem{
				menuItem(labels, ActionSupport, ""),
			},
		},
	}
}
