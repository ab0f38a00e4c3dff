package config

import (
	"os"
	"strings"
	"unicode"
)

// badNameReplacement is used when nothing is left of a file name.
const badNameReplacement = "_bad_file_name_"

// CleanFileName makes a single path element out of a name found in a movie
// source, for example an archive entry name in forced code page. Separators,
// control characters and leading dots are removed, names reserved by the
// system get an underscore.
func CleanFileName(in string) string {
	out := strings.Map(func(sym rune) rune {
		if unicode.IsControl(sym) || strings.ContainsRune(reservedRunes, sym) ||
			sym == os.PathSeparator || sym == os.PathListSeparator {
			return -1
		}
		return sym
	}, in)
	out = strings.TrimLeft(out, ".")
	if len(out) == 0 {
		return badNameReplacement
	}
	if reservedName(out) {
		out = "_" + out
	}
	return out
}

// colorDisabled honors NO_COLOR convention.
func colorDisabled() bool {
	return len(os.Getenv("NO_COLOR")) > 0
}
