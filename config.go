package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Window size constants
const (
	defaultWidth  = 800
	defaultHeight = 600
	minWidth      = 400
	minHeight     = 300
)

// Sort method identifiers
const (
	SortSimple  = "simple"  // Byte-wise file name order
	SortNatural = "natural" // Natural order (e.g., file1, file2, file10)
)

// validateKeybindings validates the keybindings configuration
func validateKeybindings(keybindings map[string][]string) error {
	// Check for valid key formats and detect conflicts
	keyToAction := make(map[string]string)
	validKeys := getValidKeyNames()

	for action, keys := range keybindings {
		if ParseMenuAction(action) == ActionUnknown {
			return fmt.Errorf("unknown action '%s'", action)
		}
		for _, keyStr := range keys {
			// Validate key format
			if err := validateKeyString(keyStr, validKeys); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %v", keyStr, action, err)
			}

			// Check for conflicts
			if existingAction, exists := keyToAction[keyStr]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[keyStr] = action
		}
	}

	return nil
}

// validateKeyString validates a single key string format
func validateKeyString(keyStr string, validKeys map[string]bool) error {
	parts := strings.Split(keyStr, "+")
	if len(parts) == 0 || keyStr == "" {
		return fmt.Errorf("empty key string")
	}

	// Last part should be the actual key
	keyName := parts[len(parts)-1]
	if !validKeys[keyName] {
		return fmt.Errorf("unknown key: %s", keyName)
	}

	// Check modifiers
	for i := 0; i < len(parts)-1; i++ {
		switch strings.ToLower(parts[i]) {
		case "shift", "ctrl", "alt", "meta":
		default:
			return fmt.Errorf("unknown modifier: %s", parts[i])
		}
	}

	return nil
}

// getValidKeyNames returns the set of key names accepted in keybindings
func getValidKeyNames() map[string]bool {
	valid := make(map[string]bool)
	for name := range getKeyMapping() {
		valid[name] = true
	}
	return valid
}

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

type Config struct {
	WindowWidth         int                 `json:"window_width"`
	WindowHeight        int                 `json:"window_height"`
	Fullscreen          bool                `json:"fullscreen"`
	SortMethod          string              `json:"sort_method"`
	IgnorePatterns      []string            `json:"ignore_patterns"`
	CacheSize           int                 `json:"cache_size"`
	ClassifierCacheSize int                 `json:"classifier_cache_size"`
	WatchDirectory      bool                `json:"watch_directory"`
	Locale              string              `json:"locale"`
	FontSize            float64             `json:"font_size"`
	GridColumns         int                 `json:"grid_columns"`
	Debug               bool                `json:"debug"`
	Keybindings         map[string][]string `json:"keybindings"`
	Mousebindings       map[string][]string `json:"mousebindings"`
	MouseSettings       MouseSettings       `json:"mouse_settings"`
}

func defaultConfig() Config {
	return Config{
		WindowWidth:         defaultWidth,
		WindowHeight:        defaultHeight,
		Fullscreen:          false,
		SortMethod:          SortSimple,
		IgnorePatterns:      []string{},
		CacheSize:           16,
		ClassifierCacheSize: 1024,
		WatchDirectory:      true,
		Locale:              "", // Detect from the host
		FontSize:            18.0,
		GridColumns:         4,
		Keybindings:         GetDefaultKeybindings(),
		Mousebindings:       GetDefaultMousebindings(),
		MouseSettings:       GetDefaultMouseSettings(),
	}
}

func getConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "tauview.json"
	}
	return filepath.Join(homeDir, ".tauview.json")
}

func loadConfig() ConfigLoadResult {
	return loadConfigFromPath(getConfigPath())
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	config := defaultConfig()

	result := ConfigLoadResult{
		Config:   config,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config file not found is not an error - use defaults
		result.Status = "Default"
		return result
	}

	if err := json.Unmarshal(data, &config); err != nil {
		log.Printf("Warning: Invalid config file %s, using defaults: %v", configPath, err)
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
		return result
	}

	// Validate minimum size
	if config.WindowWidth < minWidth {
		config.WindowWidth = defaultWidth
	}
	if config.WindowHeight < minHeight {
		config.WindowHeight = defaultHeight
	}

	if config.SortMethod != SortSimple && config.SortMethod != SortNatural {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Unknown sort method %q", config.SortMethod))
		config.SortMethod = SortSimple
	}

	if _, err := CompileIgnorePatterns(config.IgnorePatterns); err != nil {
		log.Printf("Warning: %v", err)
		result.Status = "Warning"
		result.Warnings = append(result.Warnings, err.Error())
		config.IgnorePatterns = []string{}
	}

	// Validate cache sizes
	if config.CacheSize < 1 {
		config.CacheSize = 16
	} else if config.CacheSize > 64 {
		config.CacheSize = 64
	}
	if config.ClassifierCacheSize < 0 {
		config.ClassifierCacheSize = 0
	}

	// Validate font size (minimum 12px for readability)
	if config.FontSize < 12.0 {
		config.FontSize = 18.0
	}

	if config.GridColumns < 1 {
		config.GridColumns = 4
	} else if config.GridColumns > 12 {
		config.GridColumns = 12
	}

	// Fill in missing keybindings with defaults, then validate
	if config.Keybindings == nil {
		config.Keybindings = GetDefaultKeybindings()
	} else {
		defaults := GetDefaultKeybindings()
		for action, defaultKeys := range defaults {
			if _, exists := config.Keybindings[action]; !exists {
				config.Keybindings[action] = defaultKeys
			}
		}

		if err := validateKeybindings(config.Keybindings); err != nil {
			log.Printf("Warning: Invalid keybindings detected, using defaults: %v", err)
			config.Keybindings = GetDefaultKeybindings()
			result.Status = "Warning"
			result.Warnings = append(result.Warnings, fmt.Sprintf("Keybinding errors: %v", err))
		}
	}

	if config.Mousebindings == nil {
		config.Mousebindings = GetDefaultMousebindings()
	} else {
		for action, defaultMouse := range GetDefaultMousebindings() {
			if _, exists := config.Mousebindings[action]; !exists {
				config.Mousebindings[action] = defaultMouse
			}
		}

		if err := validateMousebindings(config.Mousebindings); err != nil {
			log.Printf("Warning: Invalid mousebindings detected, using defaults: %v", err)
			config.Mousebindings = GetDefaultMousebindings()
			result.Status = "Warning"
			result.Warnings = append(result.Warnings, fmt.Sprintf("Mousebinding errors: %v", err))
		}
	}

	if config.MouseSettings.WheelSensitivity <= 0 {
		config.MouseSettings.WheelSensitivity = 1.0
	}
	if config.MouseSettings.DoubleClickTime < 100 || config.MouseSettings.DoubleClickTime > 2000 {
		config.MouseSettings.DoubleClickTime = 300
	}

	result.Config = config
	return result
}
