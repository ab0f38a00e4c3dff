//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

const reservedRunes = "/"

func reservedName(string) bool {
	return false
}

// EnableColorOutput reports whether level colors could be used on stream.
func EnableColorOutput(stream *os.File) bool {
	return !colorDisabled() && term.IsTerminal(int(stream.Fd()))
}
