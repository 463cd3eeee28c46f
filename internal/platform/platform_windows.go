//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func check() error {
	v := windows.RtlGetVersion()
	if !versionSupported(v.MajorVersion, v.MinorVersion) {
		return fmt.Errorf("%w: Windows %d.%d (build %d), need %d.%d or later",
			ErrUnsupported, v.MajorVersion, v.MinorVersion, v.BuildNumber, MinWindowsMajor, MinWindowsMinor)
	}
	return nil
}
