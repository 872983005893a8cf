// errors.go - typed construction errors for Machine.Build
//
// Runtime CPU/bus faults never surface as Go errors; they are dispatched
// through the IVT like real silicon. ConfigError is reserved for the one
// class of failure that genuinely belongs to the host: a BIOS image that
// is empty or larger than the ROM socket, or an empty floppy or HDD image.
//
// (c) 2024-2026 pcxt88 contributors - GPLv3 or later

package pcxt

import "fmt"

// ConfigError reports a problem discovered while building a Machine,
// naming the field that was rejected so a CLI or test harness can report
// it without string-matching an error message.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("pcxt: invalid %s: %s", e.Field, e.Msg)
}

func newConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
