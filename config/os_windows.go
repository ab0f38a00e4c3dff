//go:build windows

package config

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

const reservedRunes = `<>":/\|?*`

// device names cannot be used as file names with any extension
var reservedDevices = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

func reservedName(name string) bool {
	base, _, _ := strings.Cut(name, ".")
	return reservedDevices[strings.ToUpper(strings.TrimRight(base, " "))]
}

// EnableColorOutput reports whether level colors could be used on stream.
// VT100 sequences are switched on for console on Windows 10 and later.
func EnableColorOutput(stream *os.File) bool {
	if colorDisabled() || !term.IsTerminal(int(stream.Fd())) {
		return false
	}
	if windows.RtlGetVersion().MajorVersion < 10 {
		return false
	}
	h := windows.Handle(stream.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
