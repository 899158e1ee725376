package commands

import (
	"os/exec"
	"runtime"
)

func viewerCommand(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		// The empty argument is the window title start expects before a quoted path.
		return "cmd", []string{"/c", "start", "", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

// OpenInViewer starts the platform image viewer on path without waiting
// for it to exit.
func OpenInViewer(path string) error {
	name, args := viewerCommand(runtime.GOOS, path)

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
