//go:build !windows

package platform

// The renderer is pure Go, so every non-Windows host is supported.
func check() error { return nil }
