// internal/ua/ua.go
//
// User‑Agent parsing helpers.
//
// This wrapper isolates the third‑party `github.com/avct/uasurfer` API so
// the rest of the codebase never sees its enums or structs.  The contact
// component attaches the result to submit log lines, which makes scripted
// submissions easy to spot.
package ua

import (
	"fmt"
	"strconv"

	surfer "github.com/avct/uasurfer"
)

// Info carries the UA attributes worth logging.
//
// Example (Chrome on macOS):
//
//	Browser   "Chrome"
//	Version   "125.0.6422"
//	OS        "Mac OS X"
//	Device    "Desktop"
//	IsBot     false
//
// Device will be one of: "Desktop", "Mobile", "Tablet", or "Other".
type Info struct {
	Browser string
	Version string
	OS      string
	Device  string
	IsBot   bool
}

// Parse converts a raw header into an Info struct.
func Parse(raw string) Info {
	u := surfer.Parse(raw)

	info := Info{
		Browser: u.Browser.Name.StringTrimPrefix(),
		Version: versionToString(u.Browser.Version),
		OS:      u.OS.Name.StringTrimPrefix(),
		IsBot:   u.IsBot(),
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}

	return info
}

// LogFields flattens i for zap’s sugared key/value API.
func (i Info) LogFields() []any {
	return []any{"browser", i.Browser, "os", i.OS, "device", i.Device, "bot", i.IsBot}
}

// versionToString renders a semantic version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	if v.Patch != 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	if v.Minor != 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return strconv.Itoa(v.Major)
}
