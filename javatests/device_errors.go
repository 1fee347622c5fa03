package javatests

import "regexp"

// Transient adb and device errors, an instrumentation run hitting one of them is rerun once.
const (
	deviceOffline         = `error: device offline`
	deviceNotFound        = `error: device '.*' not found`
	connectionClosed      = `error: closed`
	activityManagerAbsent = `Can't find service: activity`
	activityManagerFailed = `Failure calling service activity`
)

var deviceErrorPatterns = compileDeviceErrorPatterns(
	deviceOffline,
	deviceNotFound,
	connectionClosed,
	activityManagerAbsent,
	activityManagerFailed,
)

func compileDeviceErrorPatterns(patterns ...string) []*regexp.Regexp {
	var compiled []*regexp.Regexp
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile("(?i)"+pattern))
	}
	return compiled
}

// findDeviceError returns the first device error found in the instrumentation output.
func findDeviceError(output string) (string, bool) {
	for _, pattern := range deviceErrorPatterns {
		if match := pattern.FindString(output); match != "" {
			return match, true
		}
	}
	return "", false
}
