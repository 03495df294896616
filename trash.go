package main

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// osTrasher moves files to the trash using the platform's own tools
type osTrasher struct {
	goos     string
	lookPath func(string) (string, error)
}

func newOSTrasher() *osTrasher {
	return &osTrasher{goos: runtime.GOOS, lookPath: exec.LookPath}
}

func (t *osTrasher) Trash(path string) error {
	cmd, err := trashCommand(t.goos, path, t.lookPath)
	if err != nil {
		return err
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if strings.Contains(strings.ToLower(msg), "permission denied") {
			return fmt.Errorf("%w: %s", ErrPermission, msg)
		}
		return fmt.Errorf("%s: %v: %s", cmd.Args[0], err, msg)
	}
	return nil
}

// trashCommand builds the command that moves path to the trash on goos
func trashCommand(goos, path string, lookPath func(string) (string, error)) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		script := fmt.Sprintf(`tell application "Finder" to delete POSIX file "%s"`, appleScriptEscape(path))
		return exec.Command("osascript", "-e", script), nil
	case "windows":
		script := fmt.Sprintf(
			`Add-Type -AssemblyName Microsoft.VisualBasic; [Microsoft.VisualBasic.FileIO.FileSystem]::DeleteFile('%s', 'OnlyErrorDialogs', 'SendToRecycleBin')`,
			powerShellEscape(path))
		return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script), nil
	default:
		// freedesktop.org trash via GLib, then trash-cli
		if _, err := lookPath("gio"); err == nil {
			return exec.Command("gio", "trash", "--", path), nil
		}
		if _, err := lookPath("trash-put"); err == nil {
			return exec.Command("trash-put", "--", path), nil
		}
		return nil, fmt.Errorf("%w: no trash command found on %s", ErrUnsupported, goos)
	}
}

func appleScriptEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func powerShellEscape(s string) string {
	return strings.ReplaceAll(s, `'`, `''`)
}
