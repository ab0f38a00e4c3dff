// Package misc keeps build-time identification of the program.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// set by the linker: -X swfplay/misc.version=... -X swfplay/misc.gitHash=...
var (
	version = "dev"
	gitHash = "unknown"
	appName = ""
)

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}

// GetAppName returns program name without extension, "swfplay" when it
// cannot be determined.
func GetAppName() string {
	if len(appName) > 0 {
		return appName
	}
	name := filepath.Base(os.Args[0])
	if strings.HasSuffix(name, ".test") {
		return "swfplay"
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if len(name) == 0 || name == "." {
		return "swfplay"
	}
	return name
}
