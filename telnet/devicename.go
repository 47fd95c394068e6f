package telnet

import "fmt"

// nextDeviceName implements the device-name disambiguation sequencer
// (SPEC_FULL.md §3): on a name-in-use rejection, retry with an
// incrementing numeric suffix appended to the configured base name.
// attempt is 1 on the first retry.
func nextDeviceName(base string, attempt int) string {
	if base == "" {
		base = "QPADEV"
	}
	return fmt.Sprintf("%s%04d", base, attempt)
}
