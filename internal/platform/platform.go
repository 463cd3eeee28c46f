// Package platform checks that the host can run pwsthumb.
package platform

import "errors"

// ErrUnsupported is returned by [Check] on hosts below the minimum version.
var ErrUnsupported = errors.New("unsupported operating system")

// Windows versions older than Vista are rejected.
const (
	MinWindowsMajor = 6
	MinWindowsMinor = 0
)

// Check returns nil when the host is supported.
func Check() error {
	return check()
}

// versionSupported reports whether major.minor meets the Windows minimum.
func versionSupported(major, minor uint32) bool {
	if major != MinWindowsMajor {
		return major > MinWindowsMajor
	}
	return minor >= MinWindowsMinor
}
