// Package platform detects where the reverse proxy keeps its virtual-host files.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Layout is one known nginx configuration layout.
type Layout struct {
	Name string
	Dir  string
	Glob string
}

// linuxLayouts are checked in order. conf.d is what the official nginx
// container image uses.
var linuxLayouts = []Layout{
	{Name: "conf.d", Dir: "/etc/nginx/conf.d", Glob: "*.conf"},
	{Name: "debian", Dir: "/etc/nginx/sites-enabled", Glob: "*"},
}

var darwinLayouts = []Layout{
	{Name: "homebrew-arm", Dir: "/opt/homebrew/etc/nginx/servers", Glob: "*"},
	{Name: "homebrew-intel", Dir: "/usr/local/etc/nginx/servers", Glob: "*"},
}

// DefaultGlob is used when nothing is detected on the host.
const DefaultGlob = "/etc/nginx/conf.d/*.conf"

// DetectVHostGlobs returns the vhost file globs for every layout present on
// this host. It falls back to DefaultGlob so a daemon started before the
// proxy's volume is mounted still has somewhere to look.
func DetectVHostGlobs() []string {
	var globs []string
	for _, l := range layouts() {
		if pathExists(l.Dir) {
			globs = append(globs, filepath.Join(l.Dir, l.Glob))
		}
	}
	if len(globs) == 0 {
		return []string{DefaultGlob}
	}
	return globs
}

func layouts() []Layout {
	switch runtime.GOOS {
	case "darwin":
		return darwinLayouts
	default:
		return linuxLayouts
	}
}

// pathExists checks if a path exists on the filesystem.
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Platform returns a string describing the current platform.
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
