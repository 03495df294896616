package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MouseSettings contains mouse-specific configuration
type MouseSettings struct {
	EnableMouse      bool    `json:"enable_mouse"`
	WheelSensitivity float64 `json:"wheel_sensitivity"`
	WheelInverted    bool    `json:"wheel_inverted"`
	DoubleClickTime  int     `json:"double_click_time"` // milliseconds
}

// GetDefaultMouseSettings returns the default mouse settings
func GetDefaultMouseSettings() MouseSettings {
	return MouseSettings{
		EnableMouse:      true,
		WheelSensitivity: 1.0,
		WheelInverted:    false,
		DoubleClickTime:  300,
	}
}

// MouseCombination represents a mouse action with optional modifiers
type MouseCombination struct {
	Button        ebiten.MouseButton
	IsWheel       bool
	WheelDeltaY   float64
	IsDoubleClick bool
	Shift         bool
	Ctrl          bool
	Alt           bool
}

type doubleClickTracker struct {
	lastClickTime   time.Time
	lastClickButton ebiten.MouseButton
	clickCount      int
}

// MousebindingManager turns wheel and button input into menu actions.
// The left button is left alone; the grid view uses it for selection.
type MousebindingManager struct {
	mousebindings map[string][]string
	settings      MouseSettings
	actions       []string
	doubleClick   doubleClickTracker
}

// NewMousebindingManager creates a new MousebindingManager
func NewMousebindingManager(mousebindings map[string][]string, settings MouseSettings) *MousebindingManager {
	mm := &MousebindingManager{
		mousebindings: mousebindings,
		settings:      settings,
	}
	for action := range mousebindings {
		mm.actions = append(mm.actions, action)
	}
	sort.Strings(mm.actions)
	return mm
}

// getMouseMapping returns a mapping from button names to Ebiten mouse buttons
func getMouseMapping() map[string]ebiten.MouseButton {
	return map[string]ebiten.MouseButton{
		"LeftClick":   ebiten.MouseButtonLeft,
		"RightClick":  ebiten.MouseButtonRight,
		"MiddleClick": ebiten.MouseButtonMiddle,
		"Back":        ebiten.MouseButton3,
		"Forward":     ebiten.MouseButton4,
	}
}

// parseMouseString parses strings like "Shift+RightClick", "WheelUp" or "DoubleRightClick"
func parseMouseString(mouseStr string) (*MouseCombination, bool) {
	if mouseStr == "" {
		return nil, false
	}
	parts := strings.Split(mouseStr, "+")
	combination := &MouseCombination{}
	actionName := parts[len(parts)-1]
	mapping := getMouseMapping()

	switch {
	case actionName == "WheelUp":
		combination.IsWheel = true
		combination.WheelDeltaY = 1.0
	case actionName == "WheelDown":
		combination.IsWheel = true
		combination.WheelDeltaY = -1.0
	case strings.HasPrefix(actionName, "Double"):
		button, exists := mapping[strings.TrimPrefix(actionName, "Double")]
		if !exists {
			return nil, false
		}
		combination.IsDoubleClick = true
		combination.Button = button
	default:
		button, exists := mapping[actionName]
		if !exists {
			return nil, false
		}
		combination.Button = button
	}

	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(mod) {
		case "shift":
			combination.Shift = true
		case "ctrl":
			combination.Ctrl = true
		case "alt":
			combination.Alt = true
		default:
			return nil, false
		}
	}

	return combination, true
}

// validateMousebindings checks action ids, binding syntax and conflicts
func validateMousebindings(mousebindings map[string][]string) error {
	bound := make(map[string]string)
	for action, mouseStrs := range mousebindings {
		if ParseMenuAction(action) == ActionUnknown {
			return fmt.Errorf("unknown action '%s'", action)
		}
		for _, mouseStr := range mouseStrs {
			if _, ok := parseMouseString(mouseStr); !ok {
				return fmt.Errorf("invalid mouse binding '%s' for action '%s'", mouseStr, action)
			}
			if strings.HasSuffix(mouseStr, "LeftClick") && !strings.HasSuffix(mouseStr, "DoubleLeftClick") {
				return fmt.Errorf("'%s' is reserved for grid selection", mouseStr)
			}
			if existing, exists := bound[mouseStr]; exists {
				return fmt.Errorf("mouse conflict: '%s' is bound to both '%s' and '%s'", mouseStr, existing, action)
			}
			bound[mouseStr] = action
		}
	}
	return nil
}

func (mm *MousebindingManager) isTriggered(combination *MouseCombination) bool {
	if combination.Shift != ebiten.IsKeyPressed(ebiten.KeyShift) ||
		combination.Ctrl != ebiten.IsKeyPressed(ebiten.KeyControl) ||
		combination.Alt != ebiten.IsKeyPressed(ebiten.KeyAlt) {
		return false
	}

	if combination.IsWheel {
		_, wheelY := ebiten.Wheel()
		if mm.settings.WheelInverted {
			wheelY = -wheelY
		}
		wheelY *= mm.settings.WheelSensitivity
		return (combination.WheelDeltaY > 0 && wheelY > 0) || (combination.WheelDeltaY < 0 && wheelY < 0)
	}

	if combination.IsDoubleClick {
		return mm.checkDoubleClick(combination.Button, time.Now())
	}

	return inpututil.IsMouseButtonJustPressed(combination.Button)
}

func (mm *MousebindingManager) checkDoubleClick(button ebiten.MouseButton, now time.Time) bool {
	if !inpututil.IsMouseButtonJustPressed(button) {
		return false
	}
	return mm.doubleClick.click(button, now, time.Duration(mm.settings.DoubleClickTime)*time.Millisecond)
}

// click records a press and reports whether it completes a double click
func (t *doubleClickTracker) click(button ebiten.MouseButton, now time.Time, window time.Duration) bool {
	if t.clickCount > 0 && t.lastClickButton == button && now.Sub(t.lastClickTime) <= window {
		t.clickCount = 0
		t.lastClickTime = now
		return true
	}
	t.clickCount = 1
	t.lastClickButton = button
	t.lastClickTime = now
	return false
}

// PressedActions returns the ids of actions whose mouse binding fired this frame
func (mm *MousebindingManager) PressedActions() []string {
	if !mm.settings.EnableMouse {
		return nil
	}
	var pressed []string
	for _, action := range mm.actions {
		for _, mouseStr := range mm.mousebindings[action] {
			combination, ok := parseMouseString(mouseStr)
			if ok && mm.isTriggered(combination) {
				pressed = append(pressed, action)
				break
			}
		}
	}
	return pressed
}
