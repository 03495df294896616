package main

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

const pickerTitle = "Open Image"

// nativePicker runs the platform's own file dialog as a helper process
type nativePicker struct {
	goos     string
	lookPath func(string) (string, error)
}

func newNativePicker() *nativePicker {
	return &nativePicker{goos: runtime.GOOS, lookPath: exec.LookPath}
}

func (p *nativePicker) PickFile(filter FileFilter) PickResult {
	cmd, err := pickerCommand(p.goos, filter, p.lookPath)
	if err != nil {
		return PickResult{Err: err}
	}

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && isPickerCancel(p.goos, exitErr) {
			return PickResult{Cancelled: true}
		}
		return PickResult{Err: fmt.Errorf("file dialog: %v", err)}
	}

	path := strings.TrimSpace(string(out))
	if path == "" {
		return PickResult{Cancelled: true}
	}
	return PickResult{Path: path}
}

// isPickerCancel tells a dismissed dialog apart from a failed one
func isPickerCancel(goos string, exitErr *exec.ExitError) bool {
	switch goos {
	case "darwin":
		// osascript reports "User canceled. (-128)"
		return strings.Contains(string(exitErr.Stderr), "-128")
	case "windows":
		return false
	default:
		// zenity and kdialog exit with 1 when the dialog is dismissed
		return exitErr.ExitCode() == 1
	}
}

// pickerCommand builds the dialog command for goos
func pickerCommand(goos string, filter FileFilter, lookPath func(string) (string, error)) (*exec.Cmd, error) {
	switch goos {
	case "darwin":
		types := make([]string, len(filter.Extensions))
		for i, ext := range filter.Extensions {
			types[i] = `"` + ext + `"`
		}
		script := fmt.Sprintf(`POSIX path of (choose file with prompt "%s" of type {%s})`,
			pickerTitle, strings.Join(types, ", "))
		return exec.Command("osascript", "-e", script), nil
	case "windows":
		patterns := globPatterns(filter.Extensions, ";")
		script := fmt.Sprintf(
			`Add-Type -AssemblyName System.Windows.Forms; $d = New-Object System.Windows.Forms.OpenFileDialog; $d.Title = '%s'; $d.Filter = '%s|%s'; if ($d.ShowDialog() -eq 'OK') { $d.FileName }`,
			pickerTitle, powerShellEscape(filter.Name), patterns)
		return exec.Command("powershell", "-NoProfile", "-STA", "-Command", script), nil
	default:
		if _, err := lookPath("zenity"); err == nil {
			return exec.Command("zenity", "--file-selection",
				"--title="+pickerTitle,
				"--file-filter="+filter.Name+" | "+globPatterns(filter.Extensions, " ")), nil
		}
		if _, err := lookPath("kdialog"); err == nil {
			return exec.Command("kdialog", "--title", pickerTitle, "--getopenfilename", ".",
				globPatterns(filter.Extensions, " ")+"|"+filter.Name), nil
		}
		return nil, fmt.Errorf("%w: no file dialog helper found on %s", ErrUnsupported, goos)
	}
}

// globPatterns turns extensions into "*.png *.PNG ..." style patterns
func globPatterns(extensions []string, sep string) string {
	var patterns []string
	for _, ext := range extensions {
		patterns = append(patterns, "*."+ext)
		if upper := strings.ToUpper(ext); upper != ext {
			patterns = append(patterns, "*."+upper)
		}
	}
	return strings.Join(patterns, sep)
}
