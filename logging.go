package main

import "log"

var debugEnabled bool

// setDebug turns debug logging on or off
func setDebug(enabled bool) {
	debugEnabled = enabled
}

// debugLog logs only when debug output is enabled
func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("Debug: "+format, args...)
	}
}
