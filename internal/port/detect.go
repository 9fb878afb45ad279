// Package port implements best-effort detection of an attached device serial
// port.
package port

import (
	"path/filepath"
	"runtime"
	"sort"

	"devdiag/internal/console"
)

// Detect returns the first plausible serial device, or "" when none is found.
// Detection is opportunistic and never fails the run; problems are only
// visible at debug level.
func Detect(log *console.Logger) string {
	var patterns []string
	switch runtime.GOOS {
	case "linux":
		patterns = []string{"/dev/ttyUSB*", "/dev/ttyACM*"}
	case "darwin":
		patterns = []string{"/dev/cu.usbserial*", "/dev/cu.usbmodem*", "/dev/cu.SLAB_USBtoUART*"}
	default:
		log.Debugf("port detection is not supported on %s", runtime.GOOS)
		return ""
	}

	var candidates []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			continue
		}
		candidates = append(candidates, matches...)
	}
	if len(candidates) == 0 {
		log.Debugf("port detection found no candidate devices")
		return ""
	}
	sort.Strings(candidates)
	log.Debugf("port detection candidates: %v", candidates)
	return candidates[0]
}
