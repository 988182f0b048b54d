//go:build !windows && !darwin

// Package autostart toggles launching TouchRelay at login.
package autostart

import (
	"fmt"
	"runtime"
)

// Enable is unsupported on this platform.
func Enable() error {
	return fmt.Errorf("auto-start not supported on %s", runtime.GOOS)
}

// Disable is unsupported on this platform.
func Disable() error {
	return fmt.Errorf("auto-start not supported on %s", runtime.GOOS)
}

// IsEnabled always reports false on this platform.
func IsEnabled() bool {
	return false
}
